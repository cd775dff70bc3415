package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
)

// pathID parses a numeric path parameter; malformed values are 400s.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("invalid %s: %s", name, raw)
	}
	return id, nil
}

// pagination parses the from/size query parameters with the API defaults
// (from=0, size=10).
func pagination(r *http.Request) (from, size int, err error) {
	from, err = queryInt(r, "from", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err = queryInt(r, "size", 10)
	if err != nil {
		return 0, 0, err
	}
	if from < 0 {
		return 0, 0, apperr.BadRequest("from must not be negative")
	}
	if size <= 0 {
		return 0, 0, apperr.BadRequest("size must be positive")
	}
	return from, size, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.BadRequest("invalid %s: %s", name, raw)
	}
	return n, nil
}

// queryInt64 parses a required-when-present numeric query parameter.
func queryInt64(r *http.Request, name string) (int64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, apperr.BadRequest("invalid %s: %s", name, raw)
	}
	return n, true, nil
}

// queryInt64List parses a repeated or comma-separated id parameter.
func queryInt64List(r *http.Request, name string) ([]int64, error) {
	var ids []int64
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, apperr.BadRequest("invalid %s: %s", name, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// queryStringList parses a repeated or comma-separated string parameter.
func queryStringList(r *http.Request, name string) []string {
	var values []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// queryBool parses an optional boolean parameter, nil when absent.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.BadRequest("invalid %s: %s", name, raw)
	}
	return &b, nil
}

// queryBoolFlag parses an optional boolean parameter with a default.
func queryBoolFlag(r *http.Request, name string, fallback bool) (bool, error) {
	b, err := queryBool(r, name)
	if err != nil {
		return false, err
	}
	if b == nil {
		return fallback, nil
	}
	return *b, nil
}

// queryTime parses an optional yyyy-MM-dd HH:mm:ss parameter; the zero
// time means absent.
func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	dt, err := model.ParseDateTime(raw)
	if err != nil {
		return time.Time{}, apperr.BadRequest("invalid %s: %s", name, raw)
	}
	return dt.Time, nil
}
