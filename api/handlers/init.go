package handlers

import (
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/repository"
	"github.com/mailsift/mailsift/services/ingestion"
	"github.com/mailsift/mailsift/services/seed"
)

type APIHandlers struct {
	Emails         *EmailsHandler
	Ingestion      *IngestionHandler
	Classification *ClassificationHandler
}

func InitHandlers(
	r *repository.Repositories,
	ingestionService *ingestion.Service,
	seedService *seed.Service,
	classifier interfaces.ContentClassifier,
	events interfaces.EventPublisher,
	log logger.Logger,
) *APIHandlers {
	return &APIHandlers{
		Emails:         NewEmailsHandler(r, events, log),
		Ingestion:      NewIngestionHandler(ingestionService, seedService),
		Classification: NewClassificationHandler(classifier),
	}
}
