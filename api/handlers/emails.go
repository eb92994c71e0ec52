package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/models"
	"github.com/mailsift/mailsift/internal/repository"
	"github.com/mailsift/mailsift/internal/tracing"
)

type EmailsHandler struct {
	repositories *repository.Repositories
	events       interfaces.EventPublisher
	log          logger.Logger
}

func NewEmailsHandler(r *repository.Repositories, events interfaces.EventPublisher, log logger.Logger) *EmailsHandler {
	return &EmailsHandler{
		repositories: r,
		events:       events,
		log:          log,
	}
}

// List returns all stored email records, newest first.
func (h *EmailsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "EmailsHandler.List", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		emails, err := h.repositories.EmailRepository.List(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		serialized := make([]map[string]interface{}, 0, len(emails))
		for _, email := range emails {
			serialized = append(serialized, email.Serialize())
		}

		c.JSON(http.StatusOK, serialized)
	}
}

// MarkImportant flips the is_important flag on a record.
func (h *EmailsHandler) MarkImportant() gin.HandlerFunc {
	return h.toggle("EmailsHandler.MarkImportant", h.repositories.EmailRepository.ToggleImportant)
}

// ToggleArchive flips the is_archived flag on a record.
func (h *EmailsHandler) ToggleArchive() gin.HandlerFunc {
	return h.toggle("EmailsHandler.ToggleArchive", h.repositories.EmailRepository.ToggleArchived)
}

// ToggleRead flips the is_read flag on a record.
func (h *EmailsHandler) ToggleRead() gin.HandlerFunc {
	return h.toggle("EmailsHandler.ToggleRead", h.repositories.EmailRepository.ToggleRead)
}

func (h *EmailsHandler) toggle(operation string, fn func(ctx context.Context, id string) (*models.Email, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), operation, c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		id := c.Param("id")
		tracing.TagEntity(span, id)

		email, err := fn(ctx, id)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if email == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
			return
		}

		// Mirror the mutation to the real-time sink, best effort.
		if err := h.events.PublishEmailUpdated(ctx, email); err != nil {
			h.log.Warnf("publish email_updated for %s failed: %v", email.ID, err)
		}

		c.JSON(http.StatusOK, email.Serialize())
	}
}

// Delete removes a record.
func (h *EmailsHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "EmailsHandler.Delete", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		id := c.Param("id")
		tracing.TagEntity(span, id)

		err := h.repositories.EmailRepository.Delete(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := h.events.PublishEmailDeleted(ctx, id); err != nil {
			h.log.Warnf("publish email_deleted for %s failed: %v", id, err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email deleted"})
	}
}
