package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("car", 7), http.StatusNotFound},
		{Validation("vin", "vin must be 17 characters"), http.StatusBadRequest},
		{Conflict("car was modified concurrently"), http.StatusConflict},
		{InsufficientStock("BRK-001", 5, 2), http.StatusConflict},
		{InvalidState("order is already in a terminal status"), http.StatusUnprocessableEntity},
		{InvalidTransition("SHIPPED", "PENDING"), http.StatusUnprocessableEntity},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("raw error"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("creating order: %w", InsufficientStock("BRK-001", 3, 1))
	if got := KindOf(wrapped); got != KindInsufficientStock {
		t.Errorf("KindOf(wrapped) = %s, want %s", got, KindInsufficientStock)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %s, want %s", got, KindInternal)
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Internal(errors.New("connection refused"))
	if got := err.Error(); got != "internal: internal error: connection refused" {
		t.Errorf("unexpected message: %s", got)
	}
	if !errors.Is(err, err.cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestValidationCarriesField(t *testing.T) {
	err := Validation("email", "a valid email is required")
	if err.Field != "email" {
		t.Errorf("expected field email, got %s", err.Field)
	}
}
