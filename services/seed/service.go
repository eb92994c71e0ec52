package seed

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/models"
	"github.com/mailsift/mailsift/internal/tracing"
	"github.com/mailsift/mailsift/internal/utils"
)

// Service inserts a fixed set of demo records so the dashboard has content
// before any mailbox has been ingested.
type Service struct {
	emails interfaces.EmailRepository
	events interfaces.EventPublisher
	log    logger.Logger
}

func NewService(emails interfaces.EmailRepository, events interfaces.EventPublisher, log logger.Logger) *Service {
	return &Service{
		emails: emails,
		events: events,
		log:    log,
	}
}

func sampleEmails() []*models.Email {
	now := utils.Now()
	return []*models.Email{
		{
			SourceUID:   "sample-1",
			Sender:      "john.doe@example.com",
			Subject:     "Meeting Tomorrow",
			Body:        "Hi team, just a reminder about our meeting tomorrow at 10 AM.",
			ReceivedAt:  now,
			EmailDate:   utils.TimePtr(now),
			Category:    "Primary",
			IsImportant: true,
		},
		{
			SourceUID:  "sample-2",
			Sender:     "marketing@company.com",
			Subject:    "Special Offer Inside!",
			Body:       "Limited time offer! 50% off on all products.",
			ReceivedAt: now,
			EmailDate:  utils.TimePtr(now),
			IsSpam:     true,
			Category:   "Promotions",
		},
		{
			SourceUID:  "sample-3",
			Sender:     "security@bankofamerica.com",
			Subject:    "Urgent: Your Account Has Been Compromised",
			Body:       "Click here to verify your account details immediately.",
			ReceivedAt: now,
			EmailDate:  utils.TimePtr(now),
			IsPhishing: true,
			Category:   "Primary",
		},
	}
}

// AddSampleData inserts the demo records. Re-running is safe: records that
// already exist are skipped and no duplicate events go out.
func (s *Service) AddSampleData(ctx context.Context) (int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "SeedService.AddSampleData")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	added := 0
	for _, email := range sampleEmails() {
		id, created, err := s.emails.Store(ctx, email)
		if err != nil {
			tracing.TraceErr(span, err)
			return added, errors.Wrapf(err, "store sample %s", email.SourceUID)
		}
		if !created {
			continue
		}
		added++

		email.ID = id
		if err := s.events.PublishNewMessage(ctx, email); err != nil {
			s.log.Warnf("failed to publish new_message event for sample %s: %v", id, err)
		}
	}

	span.SetTag("added", added)
	return added, nil
}
