package handler

import (
	"net/http"

	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/service"
)

// EventHandler holds the HTTP handlers for the private, public and admin
// event endpoints.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Create handles POST /users/{userId}/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req model.NewEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// ListByInitiator handles GET /users/{userId}/events
func (h *EventHandler) ListByInitiator(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	from, size, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := h.svc.FindByInitiator(r.Context(), userID, from, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetByInitiator handles GET /users/{userId}/events/{eventId}
func (h *EventHandler) GetByInitiator(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	eventID, err := pathID(r, "eventId")
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.GetByInitiator(r.Context(), userID, eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateByInitiator handles PATCH /users/{userId}/events/{eventId}
func (h *EventHandler) UpdateByInitiator(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	eventID, err := pathID(r, "eventId")
	if err != nil {
		writeError(w, err)
		return
	}
	var patch model.UpdateEventRequest
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.UpdateByInitiator(r.Context(), userID, eventID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// SearchPublic handles GET /events
func (h *EventHandler) SearchPublic(w http.ResponseWriter, r *http.Request) {
	q, err := publicQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := h.svc.SearchPublic(r.Context(), q, r.URL.Path, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []model.EventShort{}
	}
	writeJSON(w, http.StatusOK, events)
}

func publicQuery(r *http.Request) (service.PublicQuery, error) {
	var q service.PublicQuery
	var err error

	q.Text = r.URL.Query().Get("text")
	if q.Categories, err = queryInt64List(r, "categories"); err != nil {
		return q, err
	}
	if q.Paid, err = queryBool(r, "paid"); err != nil {
		return q, err
	}
	if q.RangeStart, err = queryTime(r, "rangeStart"); err != nil {
		return q, err
	}
	if q.RangeEnd, err = queryTime(r, "rangeEnd"); err != nil {
		return q, err
	}
	if q.OnlyAvailable, err = queryBoolFlag(r, "onlyAvailable", false); err != nil {
		return q, err
	}
	q.Sort = r.URL.Query().Get("sort")
	q.From, q.Size, err = pagination(r)
	return q, err
}

// GetPublic handles GET /events/{id}
func (h *EventHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.GetPublicByID(r.Context(), eventID, r.URL.Path, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// SearchAdmin handles GET /admin/events
func (h *EventHandler) SearchAdmin(w http.ResponseWriter, r *http.Request) {
	var (
		q   service.AdminQuery
		err error
	)
	if q.Users, err = queryInt64List(r, "users"); err != nil {
		writeError(w, err)
		return
	}
	q.States = queryStringList(r, "states")
	if q.Categories, err = queryInt64List(r, "categories"); err != nil {
		writeError(w, err)
		return
	}
	if q.RangeStart, err = queryTime(r, "rangeStart"); err != nil {
		writeError(w, err)
		return
	}
	if q.RangeEnd, err = queryTime(r, "rangeEnd"); err != nil {
		writeError(w, err)
		return
	}
	if q.From, q.Size, err = pagination(r); err != nil {
		writeError(w, err)
		return
	}

	events, err := h.svc.SearchAdmin(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []model.EventFull{}
	}
	writeJSON(w, http.StatusOK, events)
}

// UpdateByAdmin handles PATCH /admin/events/{eventId}
func (h *EventHandler) UpdateByAdmin(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		writeError(w, err)
		return
	}
	var patch model.UpdateEventRequest
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.UpdateByAdmin(r.Context(), eventID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
