package files

import (
	"context"

	"github.com/dmitrijs2005/assetvault/internal/client/models"
)

// Repository is the uploader's journal of keys whose upload has started but
// has not been confirmed or reconciled.
type Repository interface {
	// Add records keys before they are presigned. Re-adding a key is a no-op.
	Add(ctx context.Context, uploads ...*models.PendingUpload) error

	// Remove forgets a key once it is uploaded or reconciled. Unknown keys
	// are ignored.
	Remove(ctx context.Context, key string) error

	// ListPending returns every journaled key, oldest first.
	ListPending(ctx context.Context) ([]*models.PendingUpload, error)
}
