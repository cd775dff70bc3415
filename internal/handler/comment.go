package handler

import (
	"net/http"

	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/service"
)

// CommentHandler holds the private, public and admin comment endpoints.
type CommentHandler struct {
	svc *service.CommentService
}

// NewCommentHandler constructs a CommentHandler.
func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Add handles POST /users/{userId}/comments/{eventId}
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
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
	var req model.NewCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.svc.Add(r.Context(), userID, eventID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Update handles PATCH /users/{userId}/comments/{commentId}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req model.UpdateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.svc.Update(r.Context(), userID, commentID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /users/{userId}/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), userID, commentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByAuthor handles GET /users/{userId}/comments
func (h *CommentHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
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

	comments, err := h.svc.ByAuthor(r.Context(), userID, from, size)
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []model.CommentView{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// ListByEvent handles GET /events/{id}/comments
func (h *CommentHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	from, size, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.svc.ByEvent(r.Context(), eventID, from, size)
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []model.CommentView{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Get handles GET /comments/{commentId}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}
	comment, err := h.svc.Get(r.Context(), commentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// Pending handles GET /admin/comments
func (h *CommentHandler) Pending(w http.ResponseWriter, r *http.Request) {
	from, size, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}
	comments, err := h.svc.Pending(r.Context(), from, size)
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []model.CommentView{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Approve handles PATCH /admin/comments/{commentId}/approve
func (h *CommentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Approve(r.Context(), commentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reject handles PATCH /admin/comments/{commentId}/reject
func (h *CommentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Reject(r.Context(), commentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
