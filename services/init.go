package services

import (
	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/repository"
	"github.com/mailsift/mailsift/services/classifier"
	"github.com/mailsift/mailsift/services/events"
	"github.com/mailsift/mailsift/services/extractor"
	"github.com/mailsift/mailsift/services/imap"
	"github.com/mailsift/mailsift/services/ingestion"
	"github.com/mailsift/mailsift/services/scanner"
	"github.com/mailsift/mailsift/services/seed"
	"github.com/mailsift/mailsift/services/smtp"
	"github.com/mailsift/mailsift/services/storage"
)

type Services struct {
	EventPublisher   interfaces.EventPublisher
	Classifier       interfaces.ContentClassifier
	IngestionService *ingestion.Service
	SeedService      *seed.Service
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	var publisher interfaces.EventPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		rabbitPublisher, err := events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log)
		if err != nil {
			return nil, err
		}
		publisher = rabbitPublisher
	} else {
		log.Info("No RabbitMQ URL configured, events will be dropped")
		publisher = events.NewNoopPublisher(log)
	}

	classifierService, err := classifier.Load(cfg.ClassifierConfig, log)
	if err != nil {
		return nil, err
	}

	var archiver interfaces.AttachmentArchiver
	if cfg.ArchiveStorageConfig.AccessKey != "" {
		archiveService, err := storage.NewArchiveService(cfg.ArchiveStorageConfig, log)
		if err != nil {
			return nil, err
		}
		archiver = archiveService
	} else {
		log.Info("No archive storage configured, unsafe attachments will not be archived")
		archiver = storage.NoopArchiver{}
	}

	ingestionService := ingestion.NewService(
		imap.NewClient(cfg.MailboxConfig, log),
		extractor.NewExtractor(),
		classifierService,
		scanner.NewScanner(),
		repos.EmailRepository,
		publisher,
		smtp.NewAlertClient(cfg.SMTPConfig, log),
		archiver,
		cfg.MailboxConfig.AllMailFolder,
		log,
	)

	services := Services{
		EventPublisher:   publisher,
		Classifier:       classifierService,
		IngestionService: ingestionService,
		SeedService:      seed.NewService(repos.EmailRepository, publisher, log),
	}

	return &services, nil
}
