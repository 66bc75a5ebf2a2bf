package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// EmailService определяет методы для отправки почтовых уведомлений
type EmailService interface {
	// SendPasswordChanged отправляет уведомление о смене пароля
	SendPasswordChanged(ctx context.Context, to string) error
}

// ResendEmailService отправляет почту через Resend API
type ResendEmailService struct {
	client *resend.Client
	from   string
}

// NewResendEmailService создает сервис отправки почты через Resend
func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if from == "" {
		from = "noreply@drivetest.local"
	}
	return &ResendEmailService{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

// SendPasswordChanged отправляет уведомление о смене пароля
func (s *ResendEmailService) SendPasswordChanged(ctx context.Context, to string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Пароль изменен",
		Html: "<p>Пароль вашего аккаунта был изменен.</p>" +
			"<p>Если это были не вы, немедленно свяжитесь с поддержкой.</p>",
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send password change notification: %w", err)
	}

	log.Printf("[EmailService] Password change notification sent to %s (id=%s)", to, sent.Id)
	return nil
}

// NoopEmailService используется, когда отправка почты выключена
type NoopEmailService struct{}

// SendPasswordChanged ничего не отправляет
func (s *NoopEmailService) SendPasswordChanged(ctx context.Context, to string) error {
	log.Printf("[EmailService] Email notifications disabled, skipping password change notification for %s", to)
	return nil
}
