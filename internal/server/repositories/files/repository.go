package files

import (
	"context"

	"github.com/dmitrijs2005/assetvault/internal/server/models"
)

// Repository persists file metadata records. Implementations bound to a
// transaction participate in it.
type Repository interface {
	Insert(ctx context.Context, file *models.File) error
	GetByKey(ctx context.Context, key string) (*models.File, error)
	DeleteByKey(ctx context.Context, key string) error
}
