package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"opto-backend/internal/config"
)

// EmailService handles email sending operations via SendGrid
type EmailService struct {
	config *config.EmailConfig
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{config: cfg}
}

// IsConfigured reports whether outbound email can be sent
func (e *EmailService) IsConfigured() bool {
	return e.config.SendGridAPIKey != "" && e.config.FromEmail != ""
}

// SendVerificationCode sends a password-reset verification code. When the
// service is not configured the code is logged instead so local development
// still works.
func (e *EmailService) SendVerificationCode(to, code string) error {
	if !e.IsConfigured() {
		log.Printf("email not configured; verification code for %s: %s", to, code)
		return nil
	}

	subject := "Your Opto password reset code"
	body := fmt.Sprintf(`Hello,

You requested to reset your Opto password.

Your verification code is: %s

This code will expire in 3 minutes.

If you didn't request this, please ignore this email.

Stay on track,
%s`, code, e.config.FromName)

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(e.config.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}
