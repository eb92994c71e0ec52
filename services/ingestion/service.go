package ingestion

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/enum"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/metrics"
	"github.com/mailsift/mailsift/internal/models"
	"github.com/mailsift/mailsift/internal/tracing"
	"github.com/mailsift/mailsift/internal/utils"
)

// Service orchestrates one ingestion request: build the query, run the
// mailbox session, extract, classify, scan, and hand results to the
// persistence, notification, and alert collaborators. Failures are contained
// per message and per category; no error escapes ProcessRequest.
type Service struct {
	mailbox    interfaces.MailboxClient
	extractor  interfaces.MessageExtractor
	classifier interfaces.ContentClassifier
	scanner    interfaces.AttachmentScanner
	emails     interfaces.EmailRepository
	events     interfaces.EventPublisher
	alerts     interfaces.AlertSender
	archiver   interfaces.AttachmentArchiver
	folder     string
	log        logger.Logger
}

func NewService(
	mailbox interfaces.MailboxClient,
	extractor interfaces.MessageExtractor,
	classifier interfaces.ContentClassifier,
	scanner interfaces.AttachmentScanner,
	emails interfaces.EmailRepository,
	events interfaces.EventPublisher,
	alerts interfaces.AlertSender,
	archiver interfaces.AttachmentArchiver,
	folder string,
	log logger.Logger,
) *Service {
	return &Service{
		mailbox:    mailbox,
		extractor:  extractor,
		classifier: classifier,
		scanner:    scanner,
		emails:     emails,
		events:     events,
		alerts:     alerts,
		archiver:   archiver,
		folder:     folder,
		log:        log,
	}
}

// ProcessRequest runs the full pipeline for every requested category,
// sequentially, and always returns a report.
func (s *Service) ProcessRequest(ctx context.Context, request dto.IngestionRequest) (report dto.IngestionReport) {
	span, ctx := tracing.StartTracerSpan(ctx, "IngestionService.ProcessRequest")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.LogObjectAsJson(span, "request", request)

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("ingestion panicked: %v", r)
			report = dto.IngestionReport{
				Success: false,
				Message: fmt.Sprintf("Error processing emails: %v", r),
				Results: map[string]int{},
			}
		}
	}()

	maxEmails := request.EffectiveMaxEmails()

	startDate, err := dto.ParseRequestDate(request.StartDate)
	if err != nil {
		s.log.Warnf("ignoring unparseable start_date %q: %v", request.StartDate, err)
	}
	endDate, err := dto.ParseRequestDate(request.EndDate)
	if err != nil {
		s.log.Warnf("ignoring unparseable end_date %q: %v", request.EndDate, err)
	}

	results := map[string]int{}
	for _, category := range request.EffectiveCategories() {
		query := dto.FetchQuery{
			Category:  strings.ToLower(category),
			StartDate: startDate,
			EndDate:   endDate,
			MaxEmails: maxEmails,
		}
		results[category] = s.processCategory(ctx, query, displayName(category))
	}

	span.LogFields(tracingLog.Object("results", results))

	return dto.IngestionReport{
		Success: true,
		Message: "Emails processed successfully",
		Results: results,
	}
}

// processCategory runs one category's session. A session failure yields zero
// processed for this category only; the batch continues.
func (s *Service) processCategory(ctx context.Context, query dto.FetchQuery, categoryName string) int {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.processCategory")
	defer span.Finish()
	tracing.TagCategory(span, query.Category)

	session, err := s.mailbox.Open(ctx)
	if err != nil {
		s.log.Errorf("[%s] session open failed: %v", categoryName, err)
		tracing.TraceErr(span, err)
		return 0
	}
	defer session.Close()

	if err := session.SelectFolder(ctx, s.folder); err != nil {
		s.log.Errorf("[%s] folder select failed: %v", categoryName, err)
		tracing.TraceErr(span, err)
		return 0
	}

	ids, err := session.Search(ctx, query)
	if err != nil {
		s.log.Errorf("[%s] search failed: %v", categoryName, err)
		tracing.TraceErr(span, err)
		return 0
	}

	if len(ids) == 0 {
		s.log.Infof("[%s] no unseen emails matching the criteria", categoryName)
		return 0
	}

	// Truncate in provider-native order; search order is not guaranteed
	// chronological.
	if len(ids) > query.MaxEmails {
		ids = ids[:query.MaxEmails]
	}

	s.log.Infof("[%s] processing %d emails", categoryName, len(ids))

	processed := 0
	for _, id := range ids {
		if err := s.processMessage(ctx, session, query, categoryName, id); err != nil {
			s.log.Errorf("[%s] error processing email %d: %v", categoryName, id, err)
			metrics.MessageFailures.WithLabelValues(categoryName).Inc()
			continue
		}
		processed++
		metrics.EmailsProcessed.WithLabelValues(categoryName).Inc()
	}

	s.log.Infof("[%s] finished processing %d emails", categoryName, processed)
	return processed
}

// processMessage handles one message end to end. Any error at any step fails
// only this message; the caller logs, counts, and moves on.
func (s *Service) processMessage(
	ctx context.Context,
	session interfaces.MailboxSession,
	query dto.FetchQuery,
	categoryName string,
	seqNum uint32,
) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.processMessage")
	defer span.Finish()
	span.SetTag("seq_num", seqNum)

	// A panic in any collaborator fails this message only, like any other
	// error; the batch keeps going.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic processing email %d: %v", seqNum, r)
			tracing.TraceErr(span, err)
		}
	}()

	raw, err := session.Fetch(ctx, seqNum)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	parsed, err := s.extractor.Extract(raw.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	label, err := s.classifier.Predict(parsed.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	var verdicts models.VerdictList
	for _, part := range parsed.Attachments {
		verdict := s.scanner.Scan(part)
		if !verdict.IsSafe {
			metrics.UnsafeAttachments.Inc()
		}
		verdicts = append(verdicts, verdict)
	}

	// Any unsafe attachment forces the phishing label regardless of the text
	// classifier's output.
	if verdicts.AnyUnsafe() {
		label = enum.ClassificationPhishing
	}

	email := &models.Email{
		SourceUID:      sourceUID(parsed, query.Category, seqNum),
		Sender:         parsed.Sender,
		SenderDomain:   parsed.SenderDomain,
		Recipients:     parsed.Recipients,
		Subject:        parsed.Subject,
		Body:           parsed.Body,
		ReceivedAt:     utils.Now(),
		EmailDate:      utils.TimePtr(parsed.Date),
		IsSpam:         label == enum.ClassificationSpam,
		IsPhishing:     label == enum.ClassificationPhishing,
		Category:       categoryName,
		AttachmentInfo: verdicts,
	}

	id, created, err := s.emails.Store(ctx, email)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "persist email")
	}
	tracing.TagEntity(span, id)

	if created {
		if err := s.events.PublishNewMessage(ctx, email); err != nil {
			tracing.TraceErr(span, err)
			return errors.Wrap(err, "publish new message")
		}

		if label == enum.ClassificationPhishing {
			if err := s.alerts.SendPhishingAlert(ctx, email); err != nil {
				tracing.TraceErr(span, err)
				return errors.Wrap(err, "send phishing alert")
			}
			alert := dto.PhishingAlert{
				Type:      "phishing",
				Message:   "New phishing email detected",
				MessageID: id,
			}
			if err := s.events.PublishPhishingAlert(ctx, alert); err != nil {
				tracing.TraceErr(span, err)
				return errors.Wrap(err, "publish phishing alert")
			}
		}

		s.archiveUnsafeAttachments(ctx, id, parsed.Attachments, verdicts)
	}

	switch label {
	case enum.ClassificationSpam:
		metrics.EmailsSpam.Inc()
	case enum.ClassificationPhishing:
		metrics.EmailsPhishing.Inc()
	}

	// Mark-seen happens after persistence without a spanning transaction:
	// a crash in between replays the message next run, and the repository
	// swallows the duplicate via the source uid.
	if err := session.MarkSeen(ctx, seqNum); err != nil {
		s.log.Warnf("[%s] mark seen failed for email %d: %v", categoryName, seqNum, err)
	}

	return nil
}

// archiveUnsafeAttachments ships flagged payloads to object storage for later
// review. Best effort; archival failures never fail the message.
func (s *Service) archiveUnsafeAttachments(ctx context.Context, emailID string, parts []dto.AttachmentPart, verdicts models.VerdictList) {
	if s.archiver == nil {
		return
	}

	for i, verdict := range verdicts {
		if verdict.IsSafe || i >= len(parts) {
			continue
		}
		key := fmt.Sprintf("%s/%d_%s", emailID, i, verdict.Filename)
		if err := s.archiver.Archive(ctx, key, verdict.ContentType, parts[i].Content); err != nil {
			s.log.Warnf("archive attachment %s failed: %v", key, err)
		}
	}
}

// sourceUID is the idempotency key handed to the persistence collaborator:
// the Message-ID header when present, otherwise a session-scoped composite.
func sourceUID(parsed *dto.ParsedMessage, category string, seqNum uint32) string {
	if parsed.MessageID != "" {
		return parsed.MessageID
	}
	return fmt.Sprintf("%s/%d/%d", category, seqNum, parsed.Date.Unix())
}

func displayName(category string) string {
	runes := []rune(strings.ToLower(category))
	if len(runes) == 0 {
		return category
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
