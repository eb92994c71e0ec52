package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/enum"
	"github.com/mailsift/mailsift/internal/tracing"
)

type ClassificationHandler struct {
	classifier interfaces.ContentClassifier
}

func NewClassificationHandler(classifier interfaces.ContentClassifier) *ClassificationHandler {
	return &ClassificationHandler{classifier: classifier}
}

type testSpamRequest struct {
	Text string `json:"text"`
}

// TestSpam classifies an ad-hoc piece of text without storing anything, so
// callers can probe the model directly.
func (h *ClassificationHandler) TestSpam() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ClassificationHandler.TestSpam", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request testSpamRequest
		if err := c.ShouldBindJSON(&request); err != nil || request.Text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
			return
		}

		label, err := h.classifier.Predict(request.Text)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"text":           request.Text,
			"is_spam":        label == enum.ClassificationSpam,
			"classification": label.String(),
		})
	}
}
