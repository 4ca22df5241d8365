package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusUnprocessableEntity},
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}

	for _, tc := range tests {
		if got := New(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Errorf("kind %d: expected status %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestGetCodeFollowsWrappedErrors(t *testing.T) {
	base := Conflict("stale").WithCode("invalid_transition")
	wrapped := fmt.Errorf("approve: %w", base)

	if GetCode(wrapped) != "invalid_transition" {
		t.Fatalf("expected code to be found through wrapping, got %q", GetCode(wrapped))
	}
	if !Is(wrapped, KindConflict) {
		t.Fatal("expected wrapped error to report KindConflict")
	}
	if GetCode(errors.New("plain")) != "" {
		t.Fatal("expected empty code for untyped error")
	}
}

func TestErrorStringIncludesOp(t *testing.T) {
	err := NotFound("service request not found").WithOp("workflow.Approve")
	if err.Error() != "workflow.Approve: service request not found" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}
