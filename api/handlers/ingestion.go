package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/internal/tracing"
	"github.com/mailsift/mailsift/services/ingestion"
	"github.com/mailsift/mailsift/services/seed"
)

type IngestionHandler struct {
	ingestionService *ingestion.Service
	seedService      *seed.Service
}

func NewIngestionHandler(ingestionService *ingestion.Service, seedService *seed.Service) *IngestionHandler {
	return &IngestionHandler{
		ingestionService: ingestionService,
		seedService:      seedService,
	}
}

// Run triggers a synchronous ingestion pass with the caller's parameters.
// A malformed body still gets a structured failure report, not a panic.
func (h *IngestionHandler) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "IngestionHandler.Run", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request dto.IngestionRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, dto.IngestionReport{
				Success: false,
				Message: fmt.Sprintf("Error processing emails: %v", err),
				Results: map[string]int{},
			})
			return
		}

		report := h.ingestionService.ProcessRequest(ctx, request)
		c.JSON(http.StatusOK, report)
	}
}

// AddSampleData seeds the demo records.
func (h *IngestionHandler) AddSampleData() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "IngestionHandler.AddSampleData", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		added, err := h.seedService.AddSampleData(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Added %d sample emails", added),
		})
	}
}
