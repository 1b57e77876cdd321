// Package checksum computes the content digest that binds a presigned upload
// to its bytes. Digests are lowercase hex SHA-256; S3 wants the same digest
// base64-encoded, so ToBase64 converts between the two forms.
package checksum

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/assetvault/internal/common"
)

// HexLength is the length of a hex-encoded SHA-256 digest.
const HexLength = sha256.Size * 2

// Bytes returns the hex digest of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Reader streams r into the hash and returns the hex digest.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File returns the hex digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Reader(f)
}

// Valid reports whether s is a lowercase hex SHA-256 digest.
func Valid(s string) bool {
	if len(s) != HexLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ToBase64 converts a hex digest into the base64 form used by the
// x-amz-checksum-sha256 header.
func ToBase64(hexDigest string) (string, error) {
	if !Valid(hexDigest) {
		return "", fmt.Errorf("%w: checksum must be %d lowercase hex chars", common.ErrValidation, HexLength)
	}
	raw, err := hex.DecodeString(hexDigest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
