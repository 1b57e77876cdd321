// Package common defines shared constants and sentinel errors used across
// client and server layers of AssetVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// ErrValidation marks malformed or missing request fields. Nothing has
	// been persisted or presigned when it is returned.
	ErrValidation = errors.New("validation error")

	// ErrNotConfigured means the object-storage backend is missing or
	// unreachable. It is batch-wide and never retried.
	ErrNotConfigured = errors.New("object storage not configured")

	// ErrUploadRejected means the storage backend answered a transfer with a
	// non-2xx status: checksum, size or type mismatch, or an expired grant.
	ErrUploadRejected = errors.New("upload rejected")

	// ErrTransport means a transfer got no response at all.
	ErrTransport = errors.New("transport error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
