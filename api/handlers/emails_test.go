package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/internal/models"
	"github.com/mailsift/mailsift/internal/repository"
)

type mockEmailRepository struct {
	mock.Mock
}

func (m *mockEmailRepository) Store(ctx context.Context, email *models.Email) (string, bool, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockEmailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

func (m *mockEmailRepository) List(ctx context.Context) ([]*models.Email, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Email), args.Error(1)
}

func (m *mockEmailRepository) ToggleImportant(ctx context.Context, id string) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

func (m *mockEmailRepository) ToggleArchived(ctx context.Context, id string) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

func (m *mockEmailRepository) ToggleRead(ctx context.Context, id string) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

func (m *mockEmailRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishNewMessage(ctx context.Context, email *models.Email) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockPublisher) PublishEmailUpdated(ctx context.Context, email *models.Email) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockPublisher) PublishEmailDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPublisher) PublishPhishingAlert(ctx context.Context, alert dto.PhishingAlert) error {
	return m.Called(ctx, alert).Error(0)
}

func newEmailsRouter(repo *mockEmailRepository, events *mockPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewEmailsHandler(&repository.Repositories{EmailRepository: repo}, events, getLogger())
	r := gin.New()
	r.PUT("/emails/:id/mark-important", handler.MarkImportant())
	r.DELETE("/emails/:id", handler.Delete())
	return r
}

func TestMarkImportant_PublishesEmailUpdated(t *testing.T) {
	repo := &mockEmailRepository{}
	events := &mockPublisher{}
	toggled := &models.Email{ID: "email-1", IsImportant: true}
	repo.On("ToggleImportant", mock.Anything, "email-1").Return(toggled, nil)
	events.On("PublishEmailUpdated", mock.Anything, toggled).Return(nil)
	router := newEmailsRouter(repo, events)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPut, "/emails/email-1/mark-important", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	events.AssertCalled(t, "PublishEmailUpdated", mock.Anything, toggled)
}

func TestMarkImportant_MissingRecordSkipsEvent(t *testing.T) {
	repo := &mockEmailRepository{}
	events := &mockPublisher{}
	repo.On("ToggleImportant", mock.Anything, "gone").Return(nil, nil)
	router := newEmailsRouter(repo, events)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPut, "/emails/gone/mark-important", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	events.AssertNotCalled(t, "PublishEmailUpdated", mock.Anything, mock.Anything)
}

func TestDelete_PublishesEmailDeleted(t *testing.T) {
	repo := &mockEmailRepository{}
	events := &mockPublisher{}
	repo.On("Delete", mock.Anything, "email-2").Return(nil)
	events.On("PublishEmailDeleted", mock.Anything, "email-2").Return(nil)
	router := newEmailsRouter(repo, events)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/emails/email-2", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	events.AssertCalled(t, "PublishEmailDeleted", mock.Anything, "email-2")
}
