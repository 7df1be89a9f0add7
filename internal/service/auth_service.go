package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"observer-finance/internal/domain"
	"observer-finance/internal/email"
	"observer-finance/internal/repository"
)

// AuthService es la autoridad de credenciales: registro, login,
// verificacion de email y reseteo de contrasena. Todo el estado durable
// vive en el repositorio de cuentas; los secretos se guardan solo como
// digest.
type AuthService struct {
	logger   *zap.Logger
	accounts repository.AccountRepository
	sender   email.Sender
	tokens   *TokenService
	limiter  AttemptLimiter
	locks    *accountLocks
}

const (
	verificationTTL = 15 * time.Minute
	resetTTL        = 30 * time.Minute

	// Presupuesto para el despacho best-effort de correos.
	dispatchTimeout = 10 * time.Second
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired, a new one was sent")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrEmailNotVerified   = errors.New("verify your email before requesting a password reset")
	ErrRateLimited        = errors.New("rate limited")
)

// Mensajes con forma de exito para operaciones sensibles a enumeracion.
const (
	msgAlreadyVerified  = "Email is already verified."
	msgVerificationSent = "A new verification code has been sent."
	msgMaybeResent      = "If this email exists, a verification code has been re-sent."
	msgMaybeResetSent   = "If this email exists, a reset link has been sent."
	msgResetSent        = "Password reset link sent."
	msgPasswordUpdated  = "Password updated successfully. You can now log in."
	msgEmailVerified    = "Email verified successfully."
)

func NewAuthService(logger *zap.Logger, accounts repository.AccountRepository, sender email.Sender, tokens *TokenService, limiter AttemptLimiter) *AuthService {
	if limiter == nil {
		limiter = NewAttemptLimiter(verificationTTL, 10)
	}
	return &AuthService{
		logger:   logger,
		accounts: accounts,
		sender:   sender,
		tokens:   tokens,
		limiter:  limiter,
		locks:    newAccountLocks(),
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult es el resultado de las operaciones que emiten sesion.
type AuthResult struct {
	Token   string
	Account domain.PublicAccount
}

// VerifyResult es el resultado de VerifyEmail. Token queda vacio en el
// camino idempotente (cuenta ya verificada).
type VerifyResult struct {
	Message string
	Token   string
	Account domain.PublicAccount
}

// Message es la respuesta de las operaciones que solo informan.
type Message struct {
	Message string
}

// Register crea la cuenta, emite sesion y dispara el desafio de
// verificacion. El correo es best-effort: si falla, la cuenta y la sesion
// quedan creadas igual.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	emailAddr := strings.TrimSpace(input.Email)
	if emailAddr == "" || input.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	unlock := s.locks.lock(emailAddr)
	defer unlock()

	_, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err == nil {
		return AuthResult{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return AuthResult{}, err
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	account := domain.Account{
		Email:        emailAddr,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}
	account, err = s.accounts.Create(ctx, account)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return AuthResult{}, err
	}

	if account, err = s.assignVerificationChallenge(ctx, account); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, Account: account.Public()}, nil
}

// Login autentica por email y contrasena. El mismo error cubre cuenta
// inexistente y contrasena incorrecta para no oficiar de oraculo de
// existencia. Una cuenta sin verificar puede loguearse: el flag viaja en
// la respuesta y, si su desafio vencio, se emite uno nuevo.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (AuthResult, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	unlock := s.locks.lock(emailAddr)
	defer unlock()

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if !VerifyPassword(password, account.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	if !account.EmailVerified && !account.HasActiveVerification(time.Now().UTC()) {
		if account, err = s.assignVerificationChallenge(ctx, account); err != nil {
			return AuthResult{}, err
		}
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, Account: account.Public()}, nil
}

// VerifyEmail contrasta el codigo recibido contra el desafio vigente.
// Un desafio vencido se renueva en el acto y se devuelve ErrCodeExpired
// para que el cliente reintente con el codigo nuevo.
func (s *AuthService) VerifyEmail(ctx context.Context, emailAddr, code string) (VerifyResult, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" {
		return VerifyResult{}, ErrCodeInvalid
	}
	if !s.limiter.Allow(limiterKey("verify", emailAddr)) {
		return VerifyResult{}, ErrRateLimited
	}

	unlock := s.locks.lock(emailAddr)
	defer unlock()

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VerifyResult{}, ErrCodeInvalid
		}
		return VerifyResult{}, err
	}

	if account.EmailVerified {
		return VerifyResult{Message: msgAlreadyVerified, Account: account.Public()}, nil
	}

	if !account.HasActiveVerification(time.Now().UTC()) {
		if _, err := s.assignVerificationChallenge(ctx, account); err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{}, ErrCodeExpired
	}

	submittedDigest := DigestLookupKey(code)
	if subtle.ConstantTimeCompare([]byte(submittedDigest), []byte(account.VerificationDigest)) != 1 {
		return VerifyResult{}, ErrCodeInvalid
	}

	account.EmailVerified = true
	account.VerificationDigest = ""
	account.VerificationExpiresAt = nil
	account, err = s.accounts.Save(ctx, account)
	if err != nil {
		return VerifyResult{}, err
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{Message: msgEmailVerified, Token: token, Account: account.Public()}, nil
}

// ResendVerification emite un desafio nuevo sin condiciones, pisando el
// anterior. Para emails desconocidos responde con la misma forma de exito.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) (Message, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if !s.limiter.Allow(limiterKey("resend", emailAddr)) {
		return Message{}, ErrRateLimited
	}

	unlock := s.locks.lock(emailAddr)
	defer unlock()

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{Message: msgMaybeResent}, nil
		}
		return Message{}, err
	}
	if account.EmailVerified {
		return Message{Message: msgAlreadyVerified}, nil
	}

	if _, err := s.assignVerificationChallenge(ctx, account); err != nil {
		return Message{}, err
	}
	return Message{Message: msgVerificationSent}, nil
}

// ForgotPassword emite un token de reseteo para cuentas verificadas.
// Solo el digest toca la base; el token en claro viaja unicamente en el
// correo.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) (Message, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if !s.limiter.Allow(limiterKey("forgot", emailAddr)) {
		return Message{}, ErrRateLimited
	}

	unlock := s.locks.lock(emailAddr)
	defer unlock()

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{Message: msgMaybeResetSent}, nil
		}
		return Message{}, err
	}
	if !account.EmailVerified {
		return Message{}, ErrEmailNotVerified
	}

	token, err := BearerToken()
	if err != nil {
		return Message{}, err
	}
	expiresAt := time.Now().UTC().Add(resetTTL)
	account.ResetDigest = DigestLookupKey(token)
	account.ResetExpiresAt = &expiresAt
	if _, err := s.accounts.Save(ctx, account); err != nil {
		return Message{}, err
	}

	s.dispatch("password_reset", account.Email, func(ctx context.Context) error {
		return s.sender.SendPasswordReset(ctx, account.Email, token)
	})
	return Message{Message: msgResetSent}, nil
}

// ResetPassword busca la cuenta por el digest del token. Un token vencido
// falla sin tocar la contrasena almacenada. No emite sesion: el usuario
// debe loguearse con la contrasena nueva.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (Message, error) {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return Message{}, ErrResetTokenInvalid
	}

	digest := DigestLookupKey(token)
	account, err := s.accounts.GetByResetDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrResetTokenInvalid
		}
		return Message{}, err
	}

	unlock := s.locks.lock(account.Email)
	defer unlock()

	// Releer bajo el lock: un reset concurrente con el mismo token pudo
	// haber ganado y consumido el desafio.
	account, err = s.accounts.GetByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrResetTokenInvalid
		}
		return Message{}, err
	}
	if account.ResetDigest != digest || !account.HasActiveReset(time.Now().UTC()) {
		return Message{}, ErrResetTokenInvalid
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return Message{}, err
	}
	account.PasswordHash = passwordHash
	account.ResetDigest = ""
	account.ResetExpiresAt = nil
	if _, err := s.accounts.Save(ctx, account); err != nil {
		return Message{}, err
	}
	return Message{Message: msgPasswordUpdated}, nil
}

// ValidateCredentials es el chequeo puro de credenciales: devuelve la
// cuenta o nil, nunca un error por credenciales malas.
func (s *AuthService) ValidateCredentials(ctx context.Context, emailAddr, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !VerifyPassword(password, account.PasswordHash) {
		return nil, nil
	}
	return &account, nil
}

// limiterKey arma la clave de rate limiting. Se normaliza aca, una sola
// vez, para que todas las variantes de limitador agrupen igual.
func limiterKey(op, emailAddr string) string {
	return op + ":" + strings.ToLower(strings.TrimSpace(emailAddr))
}

// assignVerificationChallenge genera y persiste un desafio nuevo y
// despacha el correo con el codigo en claro.
func (s *AuthService) assignVerificationChallenge(ctx context.Context, account domain.Account) (domain.Account, error) {
	code, err := NumericCode()
	if err != nil {
		return domain.Account{}, err
	}
	expiresAt := time.Now().UTC().Add(verificationTTL)
	account.VerificationDigest = DigestLookupKey(code)
	account.VerificationExpiresAt = &expiresAt
	account, err = s.accounts.Save(ctx, account)
	if err != nil {
		return domain.Account{}, err
	}

	s.dispatch("verification", account.Email, func(ctx context.Context) error {
		return s.sender.SendVerificationCode(ctx, account.Email, code)
	})
	return account, nil
}

// dispatch ejecuta el envio fuera del camino de respuesta, con timeout
// acotado. Los fallos se loguean y no escalan al request.
func (s *AuthService) dispatch(kind, emailAddr string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := send(ctx); err != nil && s.logger != nil {
			s.logger.Warn("email dispatch failed",
				zap.String("kind", kind),
				zap.String("email", emailAddr),
				zap.Error(err),
			)
		}
	}()
}
