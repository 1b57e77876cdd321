// Package storage is the object-storage backend of the server: it signs
// time-limited upload and download URLs and deletes stored objects.
package storage

import (
	"context"
	"time"
)

// DefaultPresignTTL is how long an issued URL stays valid.
const DefaultPresignTTL = 5 * time.Minute

// PutObject describes the object an upload URL is scoped to. Storage rejects
// an upload whose length, type or checksum differs.
type PutObject struct {
	Key         string
	ContentType string
	Size        int64
	// Checksum is the lowercase hex SHA-256 of the content.
	Checksum string
}

// Storage is implemented by object-storage backends.
type Storage interface {
	PresignPut(ctx context.Context, obj PutObject) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	// Delete removes the object. Deleting an absent object is not an error.
	Delete(ctx context.Context, key string) error
}
