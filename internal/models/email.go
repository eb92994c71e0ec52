package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mailsift/mailsift/internal/utils"
)

// Email is one ingested message with its classification outcome.
type Email struct {
	ID string `gorm:"column:id;type:varchar(50);primaryKey"`

	// SourceUID is the provider message identity (mailbox/folder/uid) and the
	// idempotency key for deduplication. Ingestion is at-most-once: a crash
	// between persisting and marking seen may replay a message, and this key
	// lets the store swallow the duplicate.
	SourceUID string `gorm:"column:source_uid;type:varchar(255);uniqueIndex"`

	Sender       string         `gorm:"column:sender;type:varchar(255);not null"`
	SenderDomain string         `gorm:"column:sender_domain;type:varchar(255);index"`
	Recipients   pq.StringArray `gorm:"column:recipients;type:text[]"`
	Subject      string         `gorm:"column:subject;type:varchar(1000)"`
	Body         string         `gorm:"column:body;type:text"`

	ReceivedAt time.Time  `gorm:"column:received_at;type:timestamp;default:current_timestamp"`
	EmailDate  *time.Time `gorm:"column:email_date;type:timestamp;index"`

	IsSpam     bool   `gorm:"column:is_spam;default:false;index"`
	IsPhishing bool   `gorm:"column:is_phishing;default:false;index"`
	Category   string `gorm:"column:category;type:varchar(50);index"`

	IsImportant bool `gorm:"column:is_important;default:false"`
	IsArchived  bool `gorm:"column:is_archived;default:false"`
	IsRead      bool `gorm:"column:is_read;default:false"`

	// AttachmentInfo is null when the message carried no attachments.
	AttachmentInfo VerdictList `gorm:"column:attachment_info;type:jsonb"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Email) TableName() string {
	return "emails"
}

func (e *Email) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("email", 24)
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = utils.Now()
	}
	return nil
}

// Serialize renders the wire shape used by the list endpoint and the
// new_message notification event.
func (e *Email) Serialize() map[string]interface{} {
	var emailDate interface{}
	if e.EmailDate != nil {
		emailDate = e.EmailDate.Format(time.RFC3339)
	}

	var attachmentInfo interface{}
	if len(e.AttachmentInfo) > 0 {
		attachmentInfo = e.AttachmentInfo
	}

	return map[string]interface{}{
		"id":              e.ID,
		"sender":          e.Sender,
		"subject":         e.Subject,
		"is_spam":         e.IsSpam,
		"is_phishing":     e.IsPhishing,
		"category":        e.Category,
		"email_date":      emailDate,
		"is_important":    e.IsImportant,
		"is_archived":     e.IsArchived,
		"is_read":         e.IsRead,
		"attachment_info": attachmentInfo,
	}
}
