package stats

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// The repository is never reached on the validation paths, so a nil
// repository is fine here.
func newTestHandler() *Handler {
	return NewHandler(nil)
}

func TestGetStatsRequiresRange(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing start", "end=2026-08-29+00%3A00%3A00"},
		{"missing end", "start=2026-08-01+00%3A00%3A00"},
		{"malformed start", "start=yesterday&end=2026-08-29+00%3A00%3A00"},
		{"end before start", "start=2026-08-29+00%3A00%3A00&end=2026-08-01+00%3A00%3A00"},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.GetStats(w, httptest.NewRequest("GET", "/stats?"+tt.query, nil))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), "Incorrectly made request.") {
				t.Fatalf("body = %s", w.Body.String())
			}
		})
	}
}

func TestRecordHitRejectsBadBody(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	h.RecordHit(w, httptest.NewRequest("POST", "/hit", strings.NewReader("{not json")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	h.RecordHit(w, httptest.NewRequest("POST", "/hit", strings.NewReader(`{"app":"ewm"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status = %d, want 400", w.Code)
	}
}
