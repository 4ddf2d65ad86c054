// Package otp generates the numeric one-time passcodes sent by email.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// Generator produces numeric one-time passcodes.
type Generator interface {
	// Generate returns a new passcode.
	Generate() (string, error)
}

// Numeric generates fixed-width decimal passcodes from crypto/rand.
//
// A 4-digit generator draws uniformly from [1000, 10000), so codes never
// carry a leading zero and every code has the same width.
type Numeric struct {
	low  int64
	span int64
}

// NewNumeric creates a generator for codes of the given number of digits.
// Widths outside [4, 8] fall back to 4 digits.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 8 {
		digits = 4
	}

	low := int64(1)
	for range digits - 1 {
		low *= 10
	}

	return &Numeric{low: low, span: low * 9}
}

// Generate returns a new passcode.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n.span))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.low+v.Int64(), 10), nil
}
