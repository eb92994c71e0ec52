package extractor

import (
	"bytes"
	"strings"
	"time"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/mailsift/mailsift/dto"
	mailsift_errors "github.com/mailsift/mailsift/errors"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/utils"
)

const (
	SentinelSender  = "Unknown Sender"
	SentinelSubject = "No Subject"
	SentinelBody    = "No Content"

	dateHeaderLayout = "Mon, 02 Jan 2006 15:04:05 -0700"
)

type extractor struct{}

func NewExtractor() interfaces.MessageExtractor {
	return &extractor{}
}

// Extract decodes transport bytes into a structured message. Missing headers
// degrade to sentinels and an unparseable date degrades to the ingestion
// time; only undecodable bytes fail extraction, so one malformed message
// never blocks a batch.
func (e *extractor) Extract(raw []byte) (*dto.ParsedMessage, error) {
	envelope, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(mailsift_errors.ErrExtraction, "decode message: %v", err)
	}

	msg := &dto.ParsedMessage{
		Sender:  SentinelSender,
		Subject: SentinelSubject,
		Date:    utils.Now(),
	}

	msg.MessageID = strings.Trim(envelope.GetHeader("Message-Id"), "<>")

	if from := envelope.GetHeader("From"); from != "" {
		msg.Sender = from
		// Syntax validation runs on the bare address, not the display form.
		bare := from
		if addresses, err := envelope.AddressList("From"); err == nil && len(addresses) > 0 {
			bare = addresses[0].Address
		}
		validation := mailvalidate.ValidateEmailSyntax(bare)
		if validation.IsValid {
			msg.SenderAddress = validation.CleanEmail
			msg.SenderDomain = validation.Domain
		}
	}

	if addresses, err := envelope.AddressList("To"); err == nil {
		for _, address := range addresses {
			msg.Recipients = append(msg.Recipients, address.Address)
		}
	}

	if subject := envelope.GetHeader("Subject"); subject != "" {
		msg.Subject = subject
	}

	msg.Body = resolveBody(envelope)

	if dateHeader := envelope.GetHeader("Date"); dateHeader != "" {
		if parsed, err := time.Parse(dateHeaderLayout, dateHeader); err == nil {
			msg.Date = parsed
		}
	}

	// Any part carrying a disposition header and a filename counts as an
	// attachment, whether disposed as attachment or inline. enmime splits
	// those across Attachments and Inlines, each in declaration order.
	for _, attachment := range envelope.Attachments {
		msg.Attachments = append(msg.Attachments, dto.AttachmentPart{
			Filename:    attachment.FileName,
			ContentType: attachment.ContentType,
			Content:     attachment.Content,
		})
	}
	for _, inline := range envelope.Inlines {
		if inline.FileName == "" {
			continue
		}
		msg.Attachments = append(msg.Attachments, dto.AttachmentPart{
			Filename:    inline.FileName,
			ContentType: inline.ContentType,
			Content:     inline.Content,
		})
	}

	return msg, nil
}

// resolveBody prefers the plain-text part, then the raw HTML part, then the
// sentinel placeholder.
func resolveBody(envelope *enmime.Envelope) string {
	if envelope.Text != "" {
		return envelope.Text
	}
	if envelope.HTML != "" {
		return envelope.HTML
	}
	return SentinelBody
}
