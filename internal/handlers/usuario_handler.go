package handlers

import (
	"net/http"

	"gernibide/internal/repository"
)

// UsuarioHandler handles user management endpoints
type UsuarioHandler struct {
	usuarioRepo *repository.UsuarioRepository
}

// NewUsuarioHandler creates a new user handler
func NewUsuarioHandler(usuarioRepo *repository.UsuarioRepository) *UsuarioHandler {
	return &UsuarioHandler{usuarioRepo: usuarioRepo}
}

type updateUsuarioRequest struct {
	Nombre  string  `json:"nombre" validate:"required,max=100"`
	Rol     string  `json:"rol" validate:"required,oneof=alumno profesor admin"`
	ClaseID *string `json:"clase_id"`
}

// List handles GET /api/usuarios
func (h *UsuarioHandler) List(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.usuarioRepo.List()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list users", "list users failed", err)
		return
	}
	respondJSON(w, http.StatusOK, usuarios)
}

// Get handles GET /api/usuarios/{id}
func (h *UsuarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	usuario, err := h.usuarioRepo.GetByID(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get user", "get user failed", err)
		return
	}
	if usuario == nil {
		respondWithError(w, http.StatusNotFound, "user not found", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, usuario)
}

// Update handles PUT /api/usuarios/{id}
func (h *UsuarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateUsuarioRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	existing, err := h.usuarioRepo.GetByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get user", "get user failed", err)
		return
	}
	if existing == nil {
		respondWithError(w, http.StatusNotFound, "user not found", "", nil)
		return
	}

	if err := h.usuarioRepo.Update(id, req.Nombre, req.Rol, req.ClaseID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to update user", "update user failed", err)
		return
	}

	updated, err := h.usuarioRepo.GetByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get user", "get user failed", err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/usuarios/{id}
func (h *UsuarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.usuarioRepo.Delete(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to delete user", "delete user failed", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
