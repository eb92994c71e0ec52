package interfaces

import (
	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/internal/enum"
	"github.com/mailsift/mailsift/internal/models"
)

// MessageExtractor decodes transport bytes into a structured message.
type MessageExtractor interface {
	Extract(raw []byte) (*dto.ParsedMessage, error)
}

// ContentClassifier labels body text. Pure and immutable for the process
// lifetime once loaded.
type ContentClassifier interface {
	Predict(body string) (enum.Classification, error)
}

// AttachmentScanner produces a safety verdict for one attachment part.
type AttachmentScanner interface {
	Scan(part dto.AttachmentPart) models.AttachmentVerdict
}
