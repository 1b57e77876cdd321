// Package models defines server-side data models persisted in the database
// and exchanged over the object-storage API.
package models

import "time"

// File is the metadata record of one asset. It is created at presign time,
// before any bytes reach storage, so its presence does not imply the object
// exists yet.
type File struct {
	// ID is the database identity of the record.
	ID string
	// Key is the object-storage key; globally unique.
	Key         string
	Name        string
	Description string
	// Type is the declared MIME type.
	Type string
	// Size is the declared content length in bytes.
	Size int64
	// Checksum is the lowercase hex SHA-256 of the content.
	Checksum string
	// UserID identifies the uploader.
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
