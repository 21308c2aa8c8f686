package handlers

import (
	"net/http"

	"gernibide/internal/repository"
)

// ClaseHandler handles class management endpoints
type ClaseHandler struct {
	claseRepo *repository.ClaseRepository
}

// NewClaseHandler creates a new class handler
func NewClaseHandler(claseRepo *repository.ClaseRepository) *ClaseHandler {
	return &ClaseHandler{claseRepo: claseRepo}
}

type claseRequest struct {
	Nombre     string `json:"nombre" validate:"required,max=100"`
	ProfesorID string `json:"profesor_id" validate:"required,uuid4"`
}

// List handles GET /api/clases
func (h *ClaseHandler) List(w http.ResponseWriter, r *http.Request) {
	clases, err := h.claseRepo.List()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list classes", "list classes failed", err)
		return
	}
	respondJSON(w, http.StatusOK, clases)
}

// Get handles GET /api/clases/{id}
func (h *ClaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	clase, err := h.claseRepo.GetByID(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get class", "get class failed", err)
		return
	}
	if clase == nil {
		respondWithError(w, http.StatusNotFound, "class not found", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, clase)
}

// Create handles POST /api/clases
func (h *ClaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req claseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	clase, err := h.claseRepo.Create(req.Nombre, req.ProfesorID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create class", "create class failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, clase)
}

// Update handles PUT /api/clases/{id}
func (h *ClaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req claseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	existing, err := h.claseRepo.GetByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get class", "get class failed", err)
		return
	}
	if existing == nil {
		respondWithError(w, http.StatusNotFound, "class not found", "", nil)
		return
	}

	if err := h.claseRepo.Update(id, req.Nombre, req.ProfesorID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to update class", "update class failed", err)
		return
	}

	updated, err := h.claseRepo.GetByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get class", "get class failed", err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/clases/{id}
func (h *ClaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.claseRepo.Delete(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to delete class", "delete class failed", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
