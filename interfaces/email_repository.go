package interfaces

import (
	"context"

	"github.com/mailsift/mailsift/internal/models"
)

// EmailRepository is the persistence collaborator. Store deduplicates on the
// record's source uid and reports whether a row was newly created.
type EmailRepository interface {
	Store(ctx context.Context, email *models.Email) (id string, created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Email, error)
	List(ctx context.Context) ([]*models.Email, error)
	ToggleImportant(ctx context.Context, id string) (*models.Email, error)
	ToggleArchived(ctx context.Context, id string) (*models.Email, error)
	ToggleRead(ctx context.Context, id string) (*models.Email, error)
	Delete(ctx context.Context, id string) error
}
