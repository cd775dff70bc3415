package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
		reason string
	}{
		{NotFound("event not found: id=%d", 5), http.StatusNotFound, ReasonNotFound},
		{Conflict("limit reached"), http.StatusConflict, ReasonConflict},
		{BadRequest("bad date"), http.StatusBadRequest, ReasonBadRequest},
	}
	for _, tt := range tests {
		if tt.err.Status != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, tt.err.Status, tt.status)
		}
		if tt.err.Reason != tt.reason {
			t.Errorf("%v: reason = %q, want %q", tt.err, tt.err.Reason, tt.reason)
		}
	}
	if got := NotFound("event not found: id=%d", 5).Error(); got != "event not found: id=5" {
		t.Errorf("message = %q", got)
	}
}

func TestKindPredicatesSeeWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load event: %w", NotFound("gone"))
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound must unwrap")
	}
	if IsConflict(wrapped) || IsBadRequest(wrapped) {
		t.Error("wrong kind matched")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("plain error must not match")
	}
}

func TestResolve(t *testing.T) {
	status, payload := Resolve(Conflict("event participant limit reached"))
	if status != http.StatusConflict {
		t.Fatalf("status = %d", status)
	}
	if payload.Status != "CONFLICT" || payload.Reason != ReasonConflict {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Message != "event participant limit reached" {
		t.Fatalf("message = %q", payload.Message)
	}
	if payload.Timestamp == "" {
		t.Fatal("timestamp missing")
	}
}

func TestResolveUnknownErrorIsOpaque500(t *testing.T) {
	status, payload := Resolve(errors.New("pq: connection refused"))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if payload.Status != "INTERNAL_SERVER_ERROR" || payload.Message != ReasonInternal {
		t.Fatalf("internal detail leaked: %+v", payload)
	}
}
