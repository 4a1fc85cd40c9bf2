// utils/email.go
package utils

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService handles sending emails using SendGrid
type EmailService struct {
	apiKey string
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	return &EmailService{
		apiKey: os.Getenv("SENDGRID_API_KEY"),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	from := mail.NewEmail("Payments", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	client := sendgrid.NewSendClient(es.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email: status %d", response.StatusCode)
	}
	return nil
}
