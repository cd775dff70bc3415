package handler

import (
	"net/http"

	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/service"
)

// CompilationHandler holds the admin and public compilation endpoints.
type CompilationHandler struct {
	svc *service.CompilationService
}

// NewCompilationHandler constructs a CompilationHandler.
func NewCompilationHandler(svc *service.CompilationService) *CompilationHandler {
	return &CompilationHandler{svc: svc}
}

// Create handles POST /admin/compilations
func (h *CompilationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewCompilationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	comp, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comp)
}

// Update handles PATCH /admin/compilations/{compId}
func (h *CompilationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req model.UpdateCompilationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	comp, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

// Delete handles DELETE /admin/compilations/{compId}
func (h *CompilationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /compilations
func (h *CompilationHandler) List(w http.ResponseWriter, r *http.Request) {
	pinned, err := queryBool(r, "pinned")
	if err != nil {
		writeError(w, err)
		return
	}
	from, size, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}
	comps, err := h.svc.List(r.Context(), pinned, from, size)
	if err != nil {
		writeError(w, err)
		return
	}
	if comps == nil {
		comps = []model.CompilationView{}
	}
	writeJSON(w, http.StatusOK, comps)
}

// Get handles GET /compilations/{compId}
func (h *CompilationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		writeError(w, err)
		return
	}
	comp, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}
