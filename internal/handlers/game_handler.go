package handlers

import (
	"errors"
	"net/http"

	"gernibide/internal/repository"
	"gernibide/internal/service"
)

// GameHandler handles game session and attempt lifecycle endpoints
type GameHandler struct {
	gameService  *service.GameService
	partidaRepo  *repository.PartidaRepository
	progresoRepo *repository.ProgresoRepository
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, partidaRepo *repository.PartidaRepository, progresoRepo *repository.ProgresoRepository) *GameHandler {
	return &GameHandler{
		gameService:  gameService,
		partidaRepo:  partidaRepo,
		progresoRepo: progresoRepo,
	}
}

type startPartidaRequest struct {
	UsuarioID string `json:"usuario_id" validate:"required,uuid4"`
}

type finishPartidaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=completed abandoned"`
}

type recordProgresoRequest struct {
	PuntoID     string `json:"punto_id" validate:"required,uuid4"`
	ActividadID string `json:"actividad_id" validate:"required,uuid4"`
}

type completeProgresoRequest struct {
	Puntuacion *float64 `json:"puntuacion" validate:"omitempty,min=0,max=10"`
	Respuesta  *string  `json:"respuesta"`
}

// StartPartida handles POST /api/partidas
func (h *GameHandler) StartPartida(w http.ResponseWriter, r *http.Request) {
	var req startPartidaRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	// Students may only open sessions for themselves
	if user := GetUserFromContext(r.Context()); user != nil && user.Rol == "alumno" && user.ID != req.UsuarioID {
		respondWithError(w, http.StatusForbidden, "cannot start a partida for another user", "", nil)
		return
	}

	partida, err := h.gameService.StartPartida(req.UsuarioID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to start partida", "start partida failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, partida)
}

// GetPartida handles GET /api/partidas/{id}
func (h *GameHandler) GetPartida(w http.ResponseWriter, r *http.Request) {
	partida, err := h.partidaRepo.GetByID(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get partida", "get partida failed", err)
		return
	}
	if partida == nil {
		respondWithError(w, http.StatusNotFound, "partida not found", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, partida)
}

// ListPartidasByUsuario handles GET /api/usuarios/{id}/partidas
func (h *GameHandler) ListPartidasByUsuario(w http.ResponseWriter, r *http.Request) {
	partidas, err := h.partidaRepo.ListByUsuario(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list partidas", "list partidas failed", err)
		return
	}
	respondJSON(w, http.StatusOK, partidas)
}

// FinishPartida handles POST /api/partidas/{id}/finish
func (h *GameHandler) FinishPartida(w http.ResponseWriter, r *http.Request) {
	var req finishPartidaRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	partida, err := h.gameService.FinishPartida(r.PathValue("id"), req.Estado)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartidaNotFound):
			respondWithError(w, http.StatusNotFound, "partida not found", "", nil)
		case errors.Is(err, service.ErrPartidaCerrada):
			respondWithError(w, http.StatusConflict, "partida already finished", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to finish partida", "finish partida failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, partida)
}

// RecordProgreso handles POST /api/partidas/{id}/progreso
func (h *GameHandler) RecordProgreso(w http.ResponseWriter, r *http.Request) {
	var req recordProgresoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	progreso, err := h.gameService.RecordProgreso(r.PathValue("id"), req.PuntoID, req.ActividadID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartidaNotFound):
			respondWithError(w, http.StatusNotFound, "partida not found", "", nil)
		case errors.Is(err, service.ErrPartidaCerrada):
			respondWithError(w, http.StatusConflict, "partida already finished", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to record progreso", "record progreso failed", err)
		}
		return
	}
	respondJSON(w, http.StatusCreated, progreso)
}

// CompleteProgreso handles POST /api/progreso/{id}/complete
func (h *GameHandler) CompleteProgreso(w http.ResponseWriter, r *http.Request) {
	var req completeProgresoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	progreso, err := h.gameService.CompleteProgreso(r.PathValue("id"), req.Puntuacion, req.Respuesta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgresoNotFound):
			respondWithError(w, http.StatusNotFound, "progreso not found", "", nil)
		case errors.Is(err, service.ErrProgresoCerrado):
			respondWithError(w, http.StatusConflict, "progreso already completed", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to complete progreso", "complete progreso failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, progreso)
}

// ListProgresoByPartida handles GET /api/partidas/{id}/progreso
func (h *GameHandler) ListProgresoByPartida(w http.ResponseWriter, r *http.Request) {
	progresos, err := h.progresoRepo.ListByPartida(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list progreso", "list progreso failed", err)
		return
	}
	respondJSON(w, http.StatusOK, progresos)
}
