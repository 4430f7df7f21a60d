package ports

import (
	"context"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, email, userName string) error
}
