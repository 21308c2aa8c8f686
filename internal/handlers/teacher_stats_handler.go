package handlers

import (
	"errors"
	"net/http"

	"gernibide/internal/models"
	"gernibide/internal/stats"
)

// TeacherStatsHandler exposes the per-teacher dashboard aggregates
type TeacherStatsHandler struct {
	service *stats.TeacherDashboardService
}

// NewTeacherStatsHandler creates a new teacher stats handler
func NewTeacherStatsHandler(service *stats.TeacherDashboardService) *TeacherStatsHandler {
	return &TeacherStatsHandler{service: service}
}

// Classes handles GET /api/stats/teacher/classes. Teachers see their own
// classes; API-key callers pass profesor_id explicitly.
func (h *TeacherStatsHandler) Classes(w http.ResponseWriter, r *http.Request) {
	profesorID := r.URL.Query().Get("profesor_id")
	if user := GetUserFromContext(r.Context()); user != nil && user.Rol == models.RolProfesor {
		profesorID = user.ID
	}
	if profesorID == "" {
		respondWithError(w, http.StatusBadRequest, "missing profesor_id", "", nil)
		return
	}

	clases, err := h.service.ClasesDeProfesor(profesorID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list classes", "teacher classes failed", err)
		return
	}
	respondJSON(w, http.StatusOK, clases)
}

// ClassSummary handles GET /api/stats/teacher/classes/{id}/summary
func (h *TeacherStatsHandler) ClassSummary(w http.ResponseWriter, r *http.Request) {
	resumen, err := h.service.ResumenClase(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, stats.ErrClaseNotFound) {
			respondWithError(w, http.StatusNotFound, "class not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to compute class summary", "class summary failed", err)
		return
	}
	respondJSON(w, http.StatusOK, resumen)
}

// ClassStudents handles GET /api/stats/teacher/classes/{id}/students
func (h *TeacherStatsHandler) ClassStudents(w http.ResponseWriter, r *http.Request) {
	alumnos, err := h.service.AlumnosDeClase(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list students", "class students failed", err)
		return
	}
	respondJSON(w, http.StatusOK, alumnos)
}

// StudentPoints handles GET /api/stats/teacher/students/{id}/points
func (h *TeacherStatsHandler) StudentPoints(w http.ResponseWriter, r *http.Request) {
	puntos, err := h.service.PuntosDeAlumno(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute student points", "student points failed", err)
		return
	}
	respondJSON(w, http.StatusOK, puntos)
}

// ClearCache handles POST /api/stats/teacher/cache/clear
func (h *TeacherStatsHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	respondJSON(w, http.StatusNoContent, nil)
}
