package handlers

import (
	"net/http"

	"gernibide/internal/repository"
)

// PuntoHandler handles location point and activity catalog endpoints
type PuntoHandler struct {
	puntoRepo *repository.PuntoRepository
}

// NewPuntoHandler creates a new point handler
func NewPuntoHandler(puntoRepo *repository.PuntoRepository) *PuntoHandler {
	return &PuntoHandler{puntoRepo: puntoRepo}
}

type puntoRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=100"`
	Descripcion string `json:"descripcion" validate:"max=2000"`
	Orden       int    `json:"orden" validate:"min=0"`
}

type actividadRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
	Tipo   string `json:"tipo" validate:"required,oneof=quiz memoria mapa foto texto"`
	Orden  int    `json:"orden" validate:"min=0"`
}

// ListPuntos handles GET /api/puntos
func (h *PuntoHandler) ListPuntos(w http.ResponseWriter, r *http.Request) {
	puntos, err := h.puntoRepo.ListPuntos()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list points", "list puntos failed", err)
		return
	}
	respondJSON(w, http.StatusOK, puntos)
}

// GetPunto handles GET /api/puntos/{id}
func (h *PuntoHandler) GetPunto(w http.ResponseWriter, r *http.Request) {
	punto, err := h.puntoRepo.GetPunto(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get point", "get punto failed", err)
		return
	}
	if punto == nil {
		respondWithError(w, http.StatusNotFound, "point not found", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, punto)
}

// CreatePunto handles POST /api/puntos
func (h *PuntoHandler) CreatePunto(w http.ResponseWriter, r *http.Request) {
	var req puntoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	punto, err := h.puntoRepo.CreatePunto(req.Nombre, req.Descripcion, req.Orden)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create point", "create punto failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, punto)
}

// UpdatePunto handles PUT /api/puntos/{id}
func (h *PuntoHandler) UpdatePunto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req puntoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	existing, err := h.puntoRepo.GetPunto(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get point", "get punto failed", err)
		return
	}
	if existing == nil {
		respondWithError(w, http.StatusNotFound, "point not found", "", nil)
		return
	}

	if err := h.puntoRepo.UpdatePunto(id, req.Nombre, req.Descripcion, req.Orden); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to update point", "update punto failed", err)
		return
	}

	updated, err := h.puntoRepo.GetPunto(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get point", "get punto failed", err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeletePunto handles DELETE /api/puntos/{id}
func (h *PuntoHandler) DeletePunto(w http.ResponseWriter, r *http.Request) {
	if err := h.puntoRepo.DeletePunto(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to delete point", "delete punto failed", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListActividades handles GET /api/puntos/{id}/actividades
func (h *PuntoHandler) ListActividades(w http.ResponseWriter, r *http.Request) {
	actividades, err := h.puntoRepo.ListActividades(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list activities", "list actividades failed", err)
		return
	}
	respondJSON(w, http.StatusOK, actividades)
}

// CreateActividad handles POST /api/puntos/{id}/actividades
func (h *PuntoHandler) CreateActividad(w http.ResponseWriter, r *http.Request) {
	puntoID := r.PathValue("id")

	punto, err := h.puntoRepo.GetPunto(puntoID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get point", "get punto failed", err)
		return
	}
	if punto == nil {
		respondWithError(w, http.StatusNotFound, "point not found", "", nil)
		return
	}

	var req actividadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	actividad, err := h.puntoRepo.CreateActividad(puntoID, req.Nombre, req.Tipo, req.Orden)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create activity", "create actividad failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, actividad)
}

// UpdateActividad handles PUT /api/actividades/{id}
func (h *PuntoHandler) UpdateActividad(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req actividadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	existing, err := h.puntoRepo.GetActividad(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get activity", "get actividad failed", err)
		return
	}
	if existing == nil {
		respondWithError(w, http.StatusNotFound, "activity not found", "", nil)
		return
	}

	if err := h.puntoRepo.UpdateActividad(id, req.Nombre, req.Tipo, req.Orden); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to update activity", "update actividad failed", err)
		return
	}

	updated, err := h.puntoRepo.GetActividad(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get activity", "get actividad failed", err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteActividad handles DELETE /api/actividades/{id}
func (h *PuntoHandler) DeleteActividad(w http.ResponseWriter, r *http.Request) {
	if err := h.puntoRepo.DeleteActividad(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to delete activity", "delete actividad failed", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
