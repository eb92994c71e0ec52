package interfaces

import (
	"context"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/internal/models"
)

// EventPublisher pushes records to the external real-time sink. Every
// mutation of a stored record is mirrored there: inserts as new_message,
// flag toggles as email_updated, removals as email_deleted.
type EventPublisher interface {
	PublishNewMessage(ctx context.Context, email *models.Email) error
	PublishEmailUpdated(ctx context.Context, email *models.Email) error
	PublishEmailDeleted(ctx context.Context, id string) error
	PublishPhishingAlert(ctx context.Context, alert dto.PhishingAlert) error
}

// AlertSender delivers out-of-band alerts for high-risk messages.
type AlertSender interface {
	SendPhishingAlert(ctx context.Context, email *models.Email) error
}

// AttachmentArchiver stores attachment payloads for later review.
type AttachmentArchiver interface {
	Archive(ctx context.Context, key string, contentType string, payload []byte) error
}
