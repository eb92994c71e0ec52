package smtp

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/models"
	"github.com/mailsift/mailsift/internal/tracing"
)

const alertSubject = "High-Risk Email Detected"

// AlertClient delivers phishing alerts to the configured recipient over SMTP.
type AlertClient struct {
	cfg *config.SMTPConfig
	log logger.Logger
}

func NewAlertClient(cfg *config.SMTPConfig, log logger.Logger) *AlertClient {
	return &AlertClient{
		cfg: cfg,
		log: log,
	}
}

func (s *AlertClient) SendPhishingAlert(ctx context.Context, email *models.Email) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "AlertClient.SendPhishingAlert")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("email.id", email.ID)

	if s.cfg.AlertRecipient == "" {
		s.log.Debugf("no alert recipient configured, skipping phishing alert for %s", email.ID)
		return nil
	}

	buffer := s.buildAlertMessage(email)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Server)

	err := smtp.SendMail(addr, auth, s.cfg.Username, []string{s.cfg.AlertRecipient}, buffer.Bytes())
	if err != nil {
		err = errors.Wrap(err, "failed to send phishing alert")
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (s *AlertClient) buildAlertMessage(email *models.Email) *bytes.Buffer {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.Username))
	buffer.WriteString(fmt.Sprintf("To: %s\r\n", s.cfg.AlertRecipient))
	buffer.WriteString(fmt.Sprintf("Subject: %s\r\n", alertSubject))
	buffer.WriteString("MIME-Version: 1.0\r\n")
	buffer.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buffer.WriteString("\r\n")
	buffer.WriteString("A high-risk email was flagged during ingestion.\r\n\r\n")
	buffer.WriteString(fmt.Sprintf("Sender: %s\r\n", email.Sender))
	buffer.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	buffer.WriteString(fmt.Sprintf("Category: %s\r\n", email.Category))
	buffer.WriteString(fmt.Sprintf("Record ID: %s\r\n", email.ID))
	if email.AttachmentInfo.AnyUnsafe() {
		buffer.WriteString("\r\nUnsafe attachments:\r\n")
		for _, verdict := range email.AttachmentInfo {
			if !verdict.IsSafe {
				buffer.WriteString(fmt.Sprintf("  %s (%s): %s\r\n", verdict.Filename, verdict.ContentType, verdict.Reason))
			}
		}
	}

	return &buffer
}

var _ interfaces.AlertSender = (*AlertClient)(nil)
