package handlers

import (
	"net/http"

	"gernibide/internal/stats"
)

// LearningStatsHandler exposes the learning aggregates
type LearningStatsHandler struct {
	service *stats.LearningStatsService
}

// NewLearningStatsHandler creates a new learning stats handler
func NewLearningStatsHandler(service *stats.LearningStatsService) *LearningStatsHandler {
	return &LearningStatsHandler{service: service}
}

// Summary handles GET /api/stats/learning/summary
func (h *LearningStatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	resumen, err := h.service.Resumen()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute summary", "learning summary failed", err)
		return
	}
	respondJSON(w, http.StatusOK, resumen)
}

// ScoreDistribution handles GET /api/stats/learning/score-distribution
func (h *LearningStatsHandler) ScoreDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.DistribucionNotas()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute distribution", "score distribution failed", err)
		return
	}
	respondJSON(w, http.StatusOK, dist)
}

// TopActivities handles GET /api/stats/learning/top-activities
func (h *LearningStatsHandler) TopActivities(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid days or limit parameter", "", nil)
		return
	}

	ranking, err := h.service.MejoresActividades(p.Limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute ranking", "top activities failed", err)
		return
	}
	respondJSON(w, http.StatusOK, ranking)
}

// CompletionByPoint handles GET /api/stats/learning/completion-by-point
func (h *LearningStatsHandler) CompletionByPoint(w http.ResponseWriter, r *http.Request) {
	tasas, err := h.service.TasaCompletadoPorPunto()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute completion rates", "completion by point failed", err)
		return
	}
	respondJSON(w, http.StatusOK, tasas)
}

// TimeBoxplot handles GET /api/stats/learning/time-boxplot
func (h *LearningStatsHandler) TimeBoxplot(w http.ResponseWriter, r *http.Request) {
	boxplot, err := h.service.BoxplotTiempoPorPunto()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute boxplot", "time boxplot failed", err)
		return
	}
	respondJSON(w, http.StatusOK, boxplot)
}

// ProgressTimeline handles GET /api/stats/learning/progress-timeline
func (h *LearningStatsHandler) ProgressTimeline(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid days or limit parameter", "", nil)
		return
	}

	timeline, err := h.service.ProgresoPorDia(p.Days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute timeline", "progress timeline failed", err)
		return
	}
	respondJSON(w, http.StatusOK, timeline)
}

// ClearCache handles POST /api/stats/learning/cache/clear
func (h *LearningStatsHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	respondJSON(w, http.StatusNoContent, nil)
}
