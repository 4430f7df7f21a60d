package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	ServiceName    string
}

// sender is the part of *sendgrid.Client the service uses.
type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailService implements the EmailService interface
type EmailService struct {
	config    *EmailConfig
	logger    *logrus.Logger
	client    sender
	templates *template.Template
}

// NewEmailService creates a new email service instance. Without an API key
// messages are rendered and logged but not sent.
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	var client sender
	if config.SendGridAPIKey != "" {
		client = sendgrid.NewSendClient(config.SendGridAPIKey)
	}

	return &EmailService{
		config:    config,
		logger:    logger,
		client:    client,
		templates: templates,
	}, nil
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(ctx context.Context, to, subject, htmlContent string) error {
	if e.client == nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery disabled, message not sent")
		return nil
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 300 {
		e.logger.WithFields(logrus.Fields{
			"to":          to,
			"status_code": response.StatusCode,
		}).Error("SendGrid rejected email")
		return fmt.Errorf("failed to send email: sendgrid status %d", response.StatusCode)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")

	return nil
}

// renderTemplate renders an email template with the provided data
func (e *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// WelcomeEmailData holds data for the welcome template
type WelcomeEmailData struct {
	ServiceName string
	UserName    string
}

// SendWelcomeEmail greets a newly registered user
func (e *EmailService) SendWelcomeEmail(ctx context.Context, email, userName string) error {
	data := WelcomeEmailData{
		ServiceName: e.config.ServiceName,
		UserName:    userName,
	}

	htmlContent, err := e.renderTemplate("welcome.html", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome email template: %w", err)
	}

	subject := fmt.Sprintf("Welcome to %s", e.config.ServiceName)
	return e.sendEmail(ctx, email, subject, htmlContent)
}
