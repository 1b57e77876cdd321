package common

import (
	"encoding/hex"
	"strings"
	"testing"
)

// ---------- MakeRandHexString ----------

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

// ---------- MakeRandRef ----------

func TestMakeRandRef_LengthAndAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		s, err := MakeRandRef(4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s) != 4 {
			t.Fatalf("expected length 4, got %d (%q)", len(s), s)
		}
		for _, r := range s {
			if !strings.ContainsRune(refAlphabet, r) {
				t.Fatalf("unexpected rune %q in %q", r, s)
			}
		}
	}
}

func TestMakeRandRef_Zero(t *testing.T) {
	s, err := MakeRandRef(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty ref, got %q", s)
	}
}
