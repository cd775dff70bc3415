// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer, and the middleware
// stack shared by both entry points.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/a-buianova/explore-with-me/internal/apperr"
)

// validate checks struct tags on request payloads; violations are 400s.
var validate = validator.New()

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders any error as the standard payload
// {status, reason, message, timestamp}. Unexpected errors become a
// generic 500 without leaking internal detail.
func writeError(w http.ResponseWriter, err error) {
	status, payload := apperr.Resolve(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	} else {
		log.Printf("%d %s: %s", status, payload.Status, payload.Message)
	}
	writeJSON(w, status, payload)
}

// decodeJSON decodes and validates a request payload.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest("invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			return apperr.BadRequest("invalid request body: %v", verr)
		}
		return apperr.BadRequest("invalid request body")
	}
	return nil
}

// clientIP returns the caller's address without the port. The RealIP
// middleware has already resolved X-Forwarded-For.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
