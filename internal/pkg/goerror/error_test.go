package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInternal, http.StatusInternalServerError},
		{CodeInvalidFormat, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodePreconditionFailed, http.StatusPreconditionFailed},
		{CodeTooManyRequest, http.StatusTooManyRequests},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTimeout, http.StatusRequestTimeout},
	}

	for _, tc := range cases {
		err := NewBusiness("msg", tc.code)

		var gerr *Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if got := gerr.StatusCode(); got != tc.want {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestNewBusinessFields(t *testing.T) {
	// Arrange / Act
	err := NewBusiness("too many requests", CodeTooManyRequest, "retry_after", "1800")

	// Assert
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Msg() != "too many requests" {
		t.Fatalf("unexpected message %q", gerr.Msg())
	}
	if gerr.Fields()["retry_after"] != "1800" {
		t.Fatalf("expected retry_after field, got %+v", gerr.Fields())
	}
}

func TestNewServerWraps(t *testing.T) {
	// Arrange
	cause := errors.New("redis down")

	// Act
	err := NewServer(cause)

	// Assert
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be unwrappable")
	}

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Msg() != "Internal server error" {
		t.Fatalf("server errors must not leak internals, got %q", gerr.Msg())
	}
	if gerr.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", gerr.StatusCode())
	}
}
