package stats

import (
	"errors"
	"time"

	"gernibide/internal/cache"
	"gernibide/internal/models"
)

// ErrClaseNotFound is returned when a class summary is requested for an
// unknown class ID
var ErrClaseNotFound = errors.New("clase not found")

// Punto progress states as shown on the teacher dashboard
const (
	EstadoSinEmpezar   = "sin_empezar"
	EstadoEnProgresoUI = "en_progreso"
	EstadoCompletadoUI = "completado"
)

// AlumnoResumen is one student's row on the teacher dashboard
type AlumnoResumen struct {
	UsuarioID string `json:"usuario_id"`
	Nombre    string `json:"nombre"`
	// Progreso is the percentage of the global activity catalog the student
	// has completed, capped at 100. The denominator is deliberately the full
	// catalog, not the student's assigned puntos.
	Progreso        float64 `json:"progreso"`
	NotaMedia       float64 `json:"nota_media"`
	UltimaActividad *string `json:"ultima_actividad"`
}

// ClaseResumen aggregates one class for its teacher
type ClaseResumen struct {
	ClaseID       string  `json:"clase_id"`
	Nombre        string  `json:"nombre"`
	NumAlumnos    int     `json:"num_alumnos"`
	ProgresoMedio float64 `json:"progreso_medio"`
	NotaMedia     float64 `json:"nota_media"`
}

// PuntoResumen is one punto's completion state for a single student
type PuntoResumen struct {
	PuntoID                string `json:"punto_id"`
	Nombre                 string `json:"nombre"`
	Estado                 string `json:"estado"`
	ActividadesCompletadas int    `json:"actividades_completadas"`
	ActividadesTotales     int    `json:"actividades_totales"`
}

// TeacherDashboardService computes per-teacher aggregates. Its cache
// refreshes faster than the global dashboards (2 minutes), with the class
// list held longer (10 minutes) and the student detail list shorter
// (1 minute).
type TeacherDashboardService struct {
	store TeacherStore
	cache *cache.Cache
	now   func() time.Time
}

// NewTeacherDashboardService creates the teacher dashboard service
func NewTeacherDashboardService(store TeacherStore) *TeacherDashboardService {
	return &TeacherDashboardService{
		store: store,
		cache: cache.New("teacher", teacherTTL),
		now:   time.Now,
	}
}

// ClasesDeProfesor lists the teacher's classes with student counts
func (s *TeacherDashboardService) ClasesDeProfesor(profesorID string) ([]models.ClaseConAlumnos, error) {
	key := "clases_" + profesorID
	return cache.GetOrCompute(s.cache, key, clasesTTL, func() ([]models.ClaseConAlumnos, error) {
		clases, err := s.store.ClasesDeProfesor(profesorID)
		if err != nil {
			return nil, err
		}
		if clases == nil {
			clases = []models.ClaseConAlumnos{}
		}
		return clases, nil
	})
}

// ResumenClase aggregates one class: student count, mean progress, mean grade
func (s *TeacherDashboardService) ResumenClase(claseID string) (ClaseResumen, error) {
	key := "clase_resumen_" + claseID
	return cache.GetOrCompute(s.cache, key, 0, func() (ClaseResumen, error) {
		clase, err := s.store.Clase(claseID)
		if err != nil {
			return ClaseResumen{}, err
		}
		if clase == nil {
			return ClaseResumen{}, ErrClaseNotFound
		}

		alumnos, err := s.store.AlumnosDeClase(claseID)
		if err != nil {
			return ClaseResumen{}, err
		}

		resumen := ClaseResumen{
			ClaseID:    clase.ID,
			Nombre:     clase.Nombre,
			NumAlumnos: len(alumnos),
		}

		var sumProgreso, sumNota float64
		var conNota int
		for _, alumno := range alumnos {
			metrics, err := s.alumnoMetrics(alumno)
			if err != nil {
				return ClaseResumen{}, err
			}
			sumProgreso += metrics.Progreso
			if metrics.NotaMedia > 0 {
				sumNota += metrics.NotaMedia
				conNota++
			}
		}

		resumen.ProgresoMedio = round1(ratio(sumProgreso, float64(len(alumnos))))
		resumen.NotaMedia = round2(ratio(sumNota, float64(conNota)))
		return resumen, nil
	})
}

// AlumnosDeClase returns the per-student detail rows for one class
func (s *TeacherDashboardService) AlumnosDeClase(claseID string) ([]AlumnoResumen, error) {
	key := "alumnos_" + claseID
	return cache.GetOrCompute(s.cache, key, alumnosTTL, func() ([]AlumnoResumen, error) {
		alumnos, err := s.store.AlumnosDeClase(claseID)
		if err != nil {
			return nil, err
		}

		out := make([]AlumnoResumen, 0, len(alumnos))
		for _, alumno := range alumnos {
			metrics, err := s.alumnoMetrics(alumno)
			if err != nil {
				return nil, err
			}
			out = append(out, metrics)
		}
		return out, nil
	})
}

// PuntosDeAlumno returns one student's completion state per punto
func (s *TeacherDashboardService) PuntosDeAlumno(usuarioID string) ([]PuntoResumen, error) {
	key := "puntos_alumno_" + usuarioID
	return cache.GetOrCompute(s.cache, key, 0, func() ([]PuntoResumen, error) {
		puntos, err := s.store.PuntosConTotales()
		if err != nil {
			return nil, err
		}

		progresos, err := s.store.ProgresosDeUsuario(usuarioID)
		if err != nil {
			return nil, err
		}

		// Distinct completed activities per punto, after de-duplication
		completadasPorPunto := make(map[string]map[string]bool)
		for _, p := range DedupeProgresos(progresos) {
			if !p.Completado() {
				continue
			}
			if completadasPorPunto[p.PuntoID] == nil {
				completadasPorPunto[p.PuntoID] = make(map[string]bool)
			}
			completadasPorPunto[p.PuntoID][p.ActividadID] = true
		}

		out := make([]PuntoResumen, 0, len(puntos))
		for _, punto := range puntos {
			completadas := len(completadasPorPunto[punto.PuntoID])
			out = append(out, PuntoResumen{
				PuntoID:                punto.PuntoID,
				Nombre:                 punto.Nombre,
				Estado:                 estadoPunto(completadas, punto.ActividadesTotales),
				ActividadesCompletadas: completadas,
				ActividadesTotales:     punto.ActividadesTotales,
			})
		}
		return out, nil
	})
}

// ClearCache drops every cached teacher-dashboard metric
func (s *TeacherDashboardService) ClearCache() {
	s.cache.Clear()
}

// alumnoMetrics derives one student's progress percentage, mean grade and
// last activity from their raw attempt rows.
func (s *TeacherDashboardService) alumnoMetrics(alumno models.Usuario) (AlumnoResumen, error) {
	resumen := AlumnoResumen{
		UsuarioID: alumno.ID,
		Nombre:    alumno.Nombre,
	}

	totalActividades, err := s.store.CountActividades()
	if err != nil {
		return resumen, err
	}

	progresos, err := s.store.ProgresosDeUsuario(alumno.ID)
	if err != nil {
		return resumen, err
	}
	progresos = DedupeProgresos(progresos)

	completadas := make(map[string]bool)
	var sumNota float64
	var conNota int
	var ultima time.Time
	for _, p := range progresos {
		if p.FechaInicio.After(ultima) {
			ultima = p.FechaInicio
		}
		if !p.Completado() {
			continue
		}
		completadas[p.ActividadID] = true
		if p.Puntuacion != nil {
			sumNota += *p.Puntuacion
			conNota++
		}
	}

	resumen.Progreso = pct(float64(len(completadas)), float64(totalActividades))
	if resumen.Progreso > 100 {
		resumen.Progreso = 100
	}
	resumen.NotaMedia = round2(ratio(sumNota, float64(conNota)))
	if !ultima.IsZero() {
		iso := ultima.Format(time.RFC3339)
		resumen.UltimaActividad = &iso
	}

	return resumen, nil
}

// estadoPunto maps completed/total activity counts to the dashboard state
func estadoPunto(completadas, totales int) string {
	switch {
	case completadas == 0:
		return EstadoSinEmpezar
	case totales > 0 && completadas >= totales:
		return EstadoCompletadoUI
	default:
		return EstadoEnProgresoUI
	}
}
