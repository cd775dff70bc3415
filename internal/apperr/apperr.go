// Package apperr defines the business error kinds shared by all services
// and the JSON payload they are rendered into at the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Canonical reason phrases, one per error kind.
const (
	ReasonBadRequest = "Incorrectly made request."
	ReasonNotFound   = "The required object was not found."
	ReasonConflict   = "Integrity constraint has been violated."
	ReasonInternal   = "An unexpected error occurred."
)

// Error is a business error carrying a fixed HTTP status and reason phrase.
type Error struct {
	Status  int    // http.StatusBadRequest, NotFound, Conflict
	Reason  string // canonical reason phrase for Status
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound reports a missing entity, or one hidden from the caller by an
// ownership/visibility rule.
func NotFound(format string, args ...any) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Reason:  ReasonNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflict reports a business invariant violation (wrong state, duplicate,
// capacity exceeded, ownership failure on a mutation).
func Conflict(format string, args ...any) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Reason:  ReasonConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// BadRequest reports input that is syntactically valid but semantically wrong.
func BadRequest(format string, args ...any) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Reason:  ReasonBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsNotFound reports whether err is (or wraps) a NotFound error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// IsConflict reports whether err is (or wraps) a Conflict error.
func IsConflict(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusConflict
}

// IsBadRequest reports whether err is (or wraps) a BadRequest error.
func IsBadRequest(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusBadRequest
}

// Payload is the standard JSON error envelope:
// {status, reason, message, timestamp}.
type Payload struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// statusNames maps HTTP statuses to the enum names used in error payloads.
var statusNames = map[int]string{
	http.StatusBadRequest:          "BAD_REQUEST",
	http.StatusNotFound:            "NOT_FOUND",
	http.StatusConflict:            "CONFLICT",
	http.StatusInternalServerError: "INTERNAL_SERVER_ERROR",
}

// Resolve maps any error to its HTTP status and response payload. Unknown
// errors become a generic 500 without leaking internal detail.
func Resolve(err error) (int, Payload) {
	status := http.StatusInternalServerError
	reason := ReasonInternal
	message := ReasonInternal

	var e *Error
	if errors.As(err, &e) {
		status = e.Status
		reason = e.Reason
		message = e.Message
		if message == "" {
			message = reason
		}
	}

	return status, Payload{
		Status:    statusNames[status],
		Reason:    reason,
		Message:   message,
		Timestamp: time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
}
