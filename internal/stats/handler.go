package stats

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
)

// Handler exposes the collector's HTTP endpoints.
type Handler struct {
	repo     *Repository
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RecordHit handles POST /hit.
func (h *Handler) RecordHit(w http.ResponseWriter, r *http.Request) {
	var hit Hit
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&hit); err != nil {
		h.writeError(w, apperr.BadRequest("invalid request body: %v", err))
		return
	}
	if err := h.validate.Struct(hit); err != nil {
		h.writeError(w, apperr.BadRequest("validation failed: %v", err))
		return
	}
	if err := h.repo.SaveHit(r.Context(), hit); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GetStats handles GET /stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := parseTime(q.Get("start"))
	if err != nil {
		h.writeError(w, apperr.BadRequest("invalid start: %v", err))
		return
	}
	end, err := parseTime(q.Get("end"))
	if err != nil {
		h.writeError(w, apperr.BadRequest("invalid end: %v", err))
		return
	}
	if end.Before(start) {
		h.writeError(w, apperr.BadRequest("end must not be before start"))
		return
	}

	var uris []string
	for _, raw := range q["uris"] {
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				uris = append(uris, u)
			}
		}
	}
	unique := strings.EqualFold(q.Get("unique"), "true")

	result, err := h.repo.GetStats(r.Context(), start, end, uris, unique)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if result == nil {
		result = []ViewStats{}
	}
	h.writeJSON(w, http.StatusOK, result)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, apperr.BadRequest("parameter is required")
	}
	t, err := time.Parse(model.TimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, payload := apperr.Resolve(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	h.writeJSON(w, status, payload)
}
