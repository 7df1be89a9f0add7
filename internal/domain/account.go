package domain

import "time"

// Account representa la cuenta de un usuario del sistema.
// Los digests de secretos nunca se serializan hacia afuera.
type Account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`

	EmailVerified bool `json:"isEmailVerified"`

	// Desafio de verificacion de email vigente, si existe. Se guarda el
	// digest del codigo, nunca el codigo en claro.
	VerificationDigest    string     `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`

	// Desafio de reseteo de contrasena vigente, si existe.
	ResetDigest    string     `json:"-"`
	ResetExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicAccount es la vista de una cuenta que se devuelve a los clientes.
type PublicAccount struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	EmailVerified bool   `json:"isEmailVerified"`
}

// Public devuelve la vista externa de la cuenta.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:            a.ID,
		Email:         a.Email,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		EmailVerified: a.EmailVerified,
	}
}

// HasActiveVerification indica si hay un desafio de verificacion sin expirar.
func (a Account) HasActiveVerification(now time.Time) bool {
	return a.VerificationDigest != "" &&
		a.VerificationExpiresAt != nil &&
		now.Before(*a.VerificationExpiresAt)
}

// HasActiveReset indica si hay un desafio de reseteo sin expirar.
func (a Account) HasActiveReset(now time.Time) bool {
	return a.ResetDigest != "" &&
		a.ResetExpiresAt != nil &&
		now.Before(*a.ResetExpiresAt)
}
