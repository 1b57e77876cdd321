// Package common contains shared constants and sentinel errors used across
// AssetVault components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// RoleAdmin is the elevated role allowed to presign and delete assets.
const RoleAdmin = "ADMIN"

// ChecksumHeaderName is the header S3 checks against a presigned SHA-256 checksum.
const ChecksumHeaderName = "x-amz-checksum-sha256"
