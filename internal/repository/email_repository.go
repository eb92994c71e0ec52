package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/models"
	"github.com/mailsift/mailsift/internal/tracing"
	"github.com/mailsift/mailsift/internal/utils"
)

type emailRepository struct {
	db *gorm.DB
}

func NewEmailRepository(db *gorm.DB) interfaces.EmailRepository {
	return &emailRepository{
		db: db,
	}
}

// Store persists the record unless a row with the same source uid already
// exists. The source uid is the provider idempotency key; duplicates are
// reported as created=false instead of an error.
func (r *emailRepository) Store(ctx context.Context, email *models.Email) (string, bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRepository.Store")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	if email == nil {
		return "", false, errors.New("email is nil")
	}

	if email.SourceUID != "" {
		existing := &models.Email{}
		err := r.db.WithContext(ctx).
			Where("source_uid = ?", email.SourceUID).
			First(existing).Error

		if err == nil {
			span.SetTag("duplicate", true)
			return existing.ID, false, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tracing.TraceErr(span, err)
			return "", false, err
		}
	}

	result := r.db.WithContext(ctx).Create(email)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", false, result.Error
	}

	return email.ID, true, nil
}

func (r *emailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRepository.GetByID")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)
	tracing.TagEntity(span, id)

	var email models.Email
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &email, nil
}

func (r *emailRepository) List(ctx context.Context) ([]*models.Email, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRepository.List")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var emails []*models.Email
	err := r.db.WithContext(ctx).Order("received_at DESC").Find(&emails).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return emails, nil
}

func (r *emailRepository) ToggleImportant(ctx context.Context, id string) (*models.Email, error) {
	return r.toggleFlag(ctx, "emailRepository.ToggleImportant", id, func(e *models.Email) {
		e.IsImportant = !e.IsImportant
	})
}

func (r *emailRepository) ToggleArchived(ctx context.Context, id string) (*models.Email, error) {
	return r.toggleFlag(ctx, "emailRepository.ToggleArchived", id, func(e *models.Email) {
		e.IsArchived = !e.IsArchived
	})
}

func (r *emailRepository) ToggleRead(ctx context.Context, id string) (*models.Email, error) {
	return r.toggleFlag(ctx, "emailRepository.ToggleRead", id, func(e *models.Email) {
		e.IsRead = !e.IsRead
	})
}

func (r *emailRepository) toggleFlag(ctx context.Context, operation, id string, mutate func(*models.Email)) (*models.Email, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, operation)
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)
	tracing.TagEntity(span, id)

	var email models.Email
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	mutate(&email)
	email.UpdatedAt = utils.Now()

	err = r.db.WithContext(ctx).Save(&email).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &email, nil
}

func (r *emailRepository) Delete(ctx context.Context, id string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRepository.Delete")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)
	tracing.TagEntity(span, id)

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Email{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
