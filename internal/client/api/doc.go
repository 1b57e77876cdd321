// Package api is the uploader's HTTP client for the AssetVault object-storage
// endpoint.
//
// Every call carries the configured bearer token. Server answers are mapped
// to sentinel errors from internal/common so callers can use errors.Is:
//
//   - 400 → common.ErrValidation
//   - 401 → common.ErrorUnauthorized
//   - 403 → common.ErrForbidden
//   - 404 → common.ErrorNotFound
//   - 200 with "Object storage not configured" → common.ErrNotConfigured
//
// Any other payload-level error is returned as *ServerError.
package api
