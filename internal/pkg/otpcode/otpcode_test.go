package otpcode

import (
	"strconv"
	"testing"
)

func TestGenerate(t *testing.T) {
	// Arrange
	gen := NewNumeric()

	// Act / Assert
	for range 1000 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(code) != Digits {
			t.Fatalf("expected %d digits, got %q", Digits, code)
		}

		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("expected a numeric code, got %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	// Arrange
	gen := NewNumeric()

	// Act
	seen := make(map[string]struct{})
	for range 100 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		seen[code] = struct{}{}
	}

	// Assert: 100 draws from a 900000-wide range collide rarely.
	if len(seen) < 90 {
		t.Fatalf("expected mostly distinct codes, got %d unique of 100", len(seen))
	}
}
