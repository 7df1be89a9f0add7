package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para el envio de correos de la autoridad de
// credenciales. Los fallos se loguean en el llamador, nunca cortan el
// request que los disparo.
type Sender interface {
	SendVerificationCode(ctx context.Context, toEmail string, code string) error
	SendPasswordReset(ctx context.Context, toEmail string, token string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendVerificationCode(_ context.Context, _ string, _ string) error {
	return s.err()
}

func (s *disabledSender) SendPasswordReset(_ context.Context, _ string, _ string) error {
	return s.err()
}

func (s *disabledSender) err() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
