package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewBusiness(t *testing.T) {
	err := NewBusiness("Email already registered", CodeConflict)

	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ge.Type() != TypeBusiness {
		t.Fatalf("expected business type, got %v", ge.Type())
	}
	if ge.Code() != CodeConflict {
		t.Fatalf("expected conflict code, got %v", ge.Code())
	}
	if ge.Msg() != "Email already registered" {
		t.Fatalf("unexpected message %q", ge.Msg())
	}
	if ge.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409, got %d", ge.StatusCode())
	}
}

func TestNewServerWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServer(cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}

	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ge.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", ge.StatusCode())
	}
	if ge.Error() != "connection refused" {
		t.Fatalf("unexpected error string %q", ge.Error())
	}
}

func TestNewInvalidInputFields(t *testing.T) {
	err := NewInvalidInput(nil, "date_of_birth", "date of birth cannot be in the future")

	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ge.Code() != CodeInvalidInput {
		t.Fatalf("expected invalid input code, got %v", ge.Code())
	}
	if got := ge.Fields()["date_of_birth"]; got != "date of birth cannot be in the future" {
		t.Fatalf("unexpected field message %q", got)
	}
	if ge.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", ge.StatusCode())
	}
}

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidFormat, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeTimeout, http.StatusRequestTimeout},
		{CodeTooManyRequest, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		err := NewBusiness("msg", tc.code)

		var ge *Error
		if !errors.As(err, &ge) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if got := ge.StatusCode(); got != tc.want {
			t.Fatalf("code %v: expected %d, got %d", tc.code, tc.want, got)
		}
	}
}
