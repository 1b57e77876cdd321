package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MakeRandHexString returns size random bytes encoded as hex, so the result
// is 2*size characters long. It fails only if the system RNG fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeRandRef returns n characters drawn uniformly from [0-9A-Z].
// It is a short human-readable tag, not a uniqueness guarantee.
func MakeRandRef(n int) (string, error) {
	max := big.NewInt(int64(len(refAlphabet)))
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = refAlphabet[v.Int64()]
	}
	return string(out), nil
}
