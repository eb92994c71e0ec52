package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mailsift/mailsift/api/handlers"
	"github.com/mailsift/mailsift/api/middleware"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/repository"
	"github.com/mailsift/mailsift/internal/tracing"
	"github.com/mailsift/mailsift/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string, log logger.Logger) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	apiHandlers := handlers.InitHandlers(repos, s.IngestionService, s.SeedService, s.Classifier, s.EventPublisher, log)

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-MAILSIFT-API-KEY",
		ValidAPIKey: apikey,
	})

	authorized := r.Group("/")
	authorized.Use(apiKeyMiddleware)
	{
		emails := authorized.Group("/emails")
		{
			emails.GET("", apiHandlers.Emails.List())
			emails.PUT("/:id/mark-important", apiHandlers.Emails.MarkImportant())
			emails.PUT("/:id/toggle-archive", apiHandlers.Emails.ToggleArchive())
			emails.PUT("/:id/toggle-read", apiHandlers.Emails.ToggleRead())
			emails.DELETE("/:id", apiHandlers.Emails.Delete())
		}

		authorized.POST("/run-email-processor", apiHandlers.Ingestion.Run())
		authorized.GET("/add-sample-data", apiHandlers.Ingestion.AddSampleData())
		authorized.POST("/test-spam", apiHandlers.Classification.TestSpam())
	}
}
