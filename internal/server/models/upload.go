package models

import "time"

// UploadRequest is one file of a presign batch as submitted by a client.
// ID carries the client-generated storage key.
type UploadRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Type        string `json:"type" validate:"required,mimetype"`
	Size        int64  `json:"size" validate:"gt=0"`
	Checksum    string `json:"checksum" validate:"required,sha256hex"`
	Description string `json:"description" validate:"max=1024"`
}

// PresignedGrant authorizes one upload. It is correlated with its request
// by Key.
type PresignedGrant struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	PresignedURL string    `json:"presignedUrl"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
