package handler

import (
	"net/http"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/service"
)

// RequestHandler holds the HTTP handlers for participation requests.
type RequestHandler struct {
	svc *service.RequestService
}

// NewRequestHandler constructs a RequestHandler.
func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// Add handles POST /users/{userId}/requests?eventId=
func (h *RequestHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	eventID, ok, err := queryInt64(r, "eventId")
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperr.BadRequest("eventId is required"))
		return
	}

	req, err := h.svc.Add(r.Context(), userID, eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// ListByRequester handles GET /users/{userId}/requests
func (h *RequestHandler) ListByRequester(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	requests, err := h.svc.ByRequester(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []model.ParticipationRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// Cancel handles PATCH /users/{userId}/requests/{requestId}/cancel
func (h *RequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.svc.Cancel(r.Context(), userID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ListByEvent handles GET /users/{userId}/events/{eventId}/requests
func (h *RequestHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
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

	requests, err := h.svc.ByEvent(r.Context(), userID, eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []model.ParticipationRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// UpdateStatuses handles PATCH /users/{userId}/events/{eventId}/requests
func (h *RequestHandler) UpdateStatuses(w http.ResponseWriter, r *http.Request) {
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
	var req model.StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.UpdateStatuses(r.Context(), userID, eventID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
