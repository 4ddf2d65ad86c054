package otp

import (
	"strconv"
	"testing"
)

func TestNumericGenerate(t *testing.T) {
	for _, digits := range []int{4, 6, 8} {
		t.Run(strconv.Itoa(digits)+" digits", func(t *testing.T) {
			gen := NewNumeric(digits)

			for range 500 {
				code, err := gen.Generate()
				if err != nil {
					t.Fatalf("generate: %v", err)
				}
				if len(code) != digits {
					t.Fatalf("expected %d digits, got %q", digits, code)
				}
				if code[0] == '0' {
					t.Fatalf("code %q has a leading zero", code)
				}
				if _, err := strconv.ParseInt(code, 10, 64); err != nil {
					t.Fatalf("code %q is not numeric: %v", code, err)
				}
			}
		})
	}
}

func TestNumericGenerateRange(t *testing.T) {
	gen := NewNumeric(4)

	for range 500 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		v, err := strconv.ParseInt(code, 10, 64)
		if err != nil {
			t.Fatalf("parse %q: %v", code, err)
		}
		if v < 1000 || v >= 10000 {
			t.Fatalf("code %d out of range [1000, 10000)", v)
		}
	}
}

func TestNewNumericFallback(t *testing.T) {
	for _, digits := range []int{0, -1, 3, 9, 100} {
		gen := NewNumeric(digits)
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected fallback to 4 digits for %d, got %q", digits, code)
		}
	}
}
