// Package models defines client-side records.
package models

import "time"

// PendingUpload is a key the server may hold a metadata record for while the
// transfer has not been confirmed or reconciled yet.
type PendingUpload struct {
	Key       string
	Path      string
	CreatedAt time.Time
}
