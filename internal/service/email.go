package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

// SendLoginCode delivers a one-time sign-in code. In development the code is
// logged instead of sent so the flow works without a Resend account.
func (s *EmailService) SendLoginCode(ctx context.Context, email, code string) error {
	subject := fmt.Sprintf("Your %s sign-in code", s.appName)
	body := fmt.Sprintf("Your one-time sign-in code is %s\n\nIt expires in a few minutes. If you didn't request it, you can ignore this email.", code)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "login_code", "to", email, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "login_code", "to", email)
	}
	return err
}
