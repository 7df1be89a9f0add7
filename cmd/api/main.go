package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"observer-finance/internal/config"
	"observer-finance/internal/db"
	"observer-finance/internal/email"
	apihttp "observer-finance/internal/http"
	"observer-finance/internal/repository"
	"observer-finance/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(ctx, cfg); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	accountRepo := repository.NewPgAccountRepository(pool)
	walletRepo := repository.NewPgWalletRepository(pool)
	transactionRepo := repository.NewPgTransactionRepository(pool)
	budgetRepo := repository.NewPgBudgetRepository(pool)
	reminderRepo := repository.NewPgReminderRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS, cfg.AppURL)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var limiter service.AttemptLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisAttemptLimiter(redisClient, 15*time.Minute, 10)
		}
		cancel()
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	authSvc := service.NewAuthService(logger, accountRepo, emailSender, tokenSvc, limiter)

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	userHandler := apihttp.NewUserHandler(logger, accountRepo)
	walletHandler := apihttp.NewWalletHandler(logger, walletRepo)
	transactionHandler := apihttp.NewTransactionHandler(logger, transactionRepo)
	budgetHandler := apihttp.NewBudgetHandler(logger, budgetRepo)
	reminderHandler := apihttp.NewReminderHandler(logger, reminderRepo)

	router := apihttp.NewRouter(
		logger,
		tokenSvc,
		authHandler,
		userHandler,
		walletHandler,
		transactionHandler,
		budgetHandler,
		reminderHandler,
		[]string{cfg.AppURL, "http://127.0.0.1:5174"},
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
