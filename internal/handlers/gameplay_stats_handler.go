package handlers

import (
	"net/http"

	"gernibide/internal/stats"
)

// GameplayStatsHandler exposes the gameplay aggregates
type GameplayStatsHandler struct {
	service *stats.GameplayStatsService
}

// NewGameplayStatsHandler creates a new gameplay stats handler
func NewGameplayStatsHandler(service *stats.GameplayStatsService) *GameplayStatsHandler {
	return &GameplayStatsHandler{service: service}
}

// Summary handles GET /api/stats/gameplay/summary
func (h *GameplayStatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	resumen, err := h.service.Resumen()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute summary", "gameplay summary failed", err)
		return
	}
	respondJSON(w, http.StatusOK, resumen)
}

// PartidasTimeline handles GET /api/stats/gameplay/partidas-timeline
func (h *GameplayStatsHandler) PartidasTimeline(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid days or limit parameter", "", nil)
		return
	}

	timeline, err := h.service.PartidasPorDia(p.Days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute timeline", "partidas timeline failed", err)
		return
	}
	respondJSON(w, http.StatusOK, timeline)
}

// ActiveUsers handles GET /api/stats/gameplay/active-users
func (h *GameplayStatsHandler) ActiveUsers(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid days or limit parameter", "", nil)
		return
	}

	timeline, err := h.service.UsuariosActivos(p.Days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute active users", "active users failed", err)
		return
	}
	respondJSON(w, http.StatusOK, timeline)
}

// DurationTimeline handles GET /api/stats/gameplay/duration-timeline
func (h *GameplayStatsHandler) DurationTimeline(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid days or limit parameter", "", nil)
		return
	}

	timeline, err := h.service.DuracionPorDia(p.Days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute durations", "duration timeline failed", err)
		return
	}
	respondJSON(w, http.StatusOK, timeline)
}

// MostPlayed handles GET /api/stats/gameplay/most-played
func (h *GameplayStatsHandler) MostPlayed(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid days or limit parameter", "", nil)
		return
	}

	ranking, err := h.service.ActividadesMasJugadas(p.Limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute ranking", "most played failed", err)
		return
	}
	respondJSON(w, http.StatusOK, ranking)
}

// Streak handles GET /api/stats/gameplay/streak/{id}
func (h *GameplayStatsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	racha, err := h.service.RachaDias(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute streak", "streak failed", err)
		return
	}
	respondJSON(w, http.StatusOK, racha)
}

// ClearCache handles POST /api/stats/gameplay/cache/clear
func (h *GameplayStatsHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	respondJSON(w, http.StatusNoContent, nil)
}
