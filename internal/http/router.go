package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"observer-finance/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas del API.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	authH *AuthHandler,
	userH *UserHandler,
	walletH *WalletHandler,
	transactionH *TransactionHandler,
	budgetH *BudgetHandler,
	reminderH *ReminderHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		corsMiddleware(allowedOrigins),
		jsonContentTypeMiddleware(),
	)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/verify-email", authH.VerifyEmail)
	auth.POST("/resend-verification", authH.ResendVerification)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password", authH.ResetPassword)

	protected := api.Group("", AuthMiddleware(tokens))

	users := protected.Group("/users")
	users.GET("/me", userH.Me)
	users.DELETE("/me", userH.DeleteMe)
	users.GET("/:id", userH.Get)

	wallets := protected.Group("/wallets")
	wallets.POST("", walletH.Create)
	wallets.GET("", walletH.List)
	wallets.PATCH("/:id", walletH.Update)
	wallets.DELETE("/:id", walletH.Delete)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionH.Create)
	transactions.GET("", transactionH.List)
	transactions.GET("/stats/total", transactionH.TotalByType)
	transactions.GET("/:id", transactionH.Get)
	transactions.PATCH("/:id", transactionH.Update)
	transactions.DELETE("/:id", transactionH.Delete)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetH.Create)
	budgets.GET("", budgetH.List)
	budgets.PATCH("/:id", budgetH.Update)
	budgets.DELETE("/:id", budgetH.Delete)

	reminders := protected.Group("/payment-reminders")
	reminders.POST("", reminderH.Create)
	reminders.GET("", reminderH.List)
	reminders.PATCH("/:id", reminderH.Update)
	reminders.DELETE("/:id", reminderH.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.Writer.Header().Get("X-Request-ID")),
		)
	}
}

// requestIDMiddleware asigna un id por request para correlacionar logs.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// corsMiddleware habilita CORS para los origenes del frontend.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
