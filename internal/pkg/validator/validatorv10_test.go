package validator

import (
	"errors"
	"testing"
)

type signupForm struct {
	Name  string `validate:"required,min=2,max=100,alphaspace"`
	Email string `validate:"required,email"`
}

func TestValidate(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	t.Run("valid input passes", func(t *testing.T) {
		if err := v.Validate(signupForm{Name: "Jane Doe", Email: "jane@example.com"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("missing fields are reported in snake_case", func(t *testing.T) {
		err := v.Validate(signupForm{})
		if err == nil {
			t.Fatal("expected validation error")
		}

		var verr V10ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected V10ValidationError, got %T", err)
		}
		if _, ok := verr["name"]; !ok {
			t.Fatalf("expected name error, got %v", verr)
		}
		if _, ok := verr["email"]; !ok {
			t.Fatalf("expected email error, got %v", verr)
		}
	})

	t.Run("alphaspace rejects digits and symbols", func(t *testing.T) {
		for _, name := range []string{"Jane123", "Jane_Doe", "Jane!"} {
			err := v.Validate(signupForm{Name: name, Email: "jane@example.com"})
			if err == nil {
				t.Fatalf("expected error for name %q", name)
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected V10ValidationError, got %T", err)
			}
			if _, ok := verr["name"]; !ok {
				t.Fatalf("expected name error for %q, got %v", name, verr)
			}
		}
	})

	t.Run("alphaspace accepts letters and spaces", func(t *testing.T) {
		if err := v.Validate(signupForm{Name: "Mary Jane Watson", Email: "mj@example.com"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
