package stats

import (
	"time"

	"gernibide/internal/models"
)

// GameplayStore is the read-only aggregate query surface the gameplay
// statistics need. Implemented by repository.StatsRepository; faked in tests.
type GameplayStore interface {
	CountPartidas() (int, error)
	CountPartidasPorEstado(estado string) (int, error)
	CountPartidasEntre(start, end time.Time) (int, error)
	CountPartidasCompletadasEntre(start, end time.Time) (int, error)
	CountUsuarios() (int, error)
	// CountUsuariosActivos counts distinct users with a session start in
	// [start, end)
	CountUsuariosActivos(start, end time.Time) (int, error)
	// AvgDuracionPartidas returns the average stored duration over completed
	// sessions plus the number of sessions averaged
	AvgDuracionPartidas() (float64, int, error)
	AvgDuracionPartidasEntre(start, end time.Time) (float64, int, error)
	// DiasConPartida returns the distinct ISO dates on which the user
	// started a session, most recent first
	DiasConPartida(usuarioID string) ([]string, error)
	ActividadesMasJugadas(limit int) ([]ActividadJugada, error)
}

// LearningStore is the aggregate query surface for the learning metrics
type LearningStore interface {
	CountActividades() (int, error)
	CountProgresos() (int, error)
	CountProgresosPorEstado(estado string) (int, error)
	CountProgresosEntre(start, end time.Time) (int, error)
	CountProgresosCompletadosEntre(start, end time.Time) (int, error)
	// PuntuacionesCompletadas returns every score of a completed attempt
	PuntuacionesCompletadas() ([]float64, error)
	// NotasPorActividad returns per-activity completed-attempt aggregates,
	// unfiltered; the service applies the significance floor and ordering
	NotasPorActividad() ([]ActividadNota, error)
	// CompletadoPorPunto returns per-punto attempt totals; the service
	// derives the completion rate
	CompletadoPorPunto() ([]PuntoCompletado, error)
	// DuracionesPorPunto returns one row per completed, duration-bearing
	// attempt with its punto name
	DuracionesPorPunto() ([]DuracionPunto, error)
}

// TeacherStore is the query surface for the per-teacher dashboard
type TeacherStore interface {
	ClasesDeProfesor(profesorID string) ([]models.ClaseConAlumnos, error)
	Clase(claseID string) (*models.Clase, error)
	AlumnosDeClase(claseID string) ([]models.Usuario, error)
	CountActividades() (int, error)
	PuntosConTotales() ([]PuntoTotales, error)
	ProgresosDeUsuario(usuarioID string) ([]models.ProgresoActividad, error)
}

// DuracionPunto is one completed attempt's duration tagged with its punto
type DuracionPunto struct {
	Punto    string
	Duracion float64
}

// PuntoTotales is a punto with its activity catalog size
type PuntoTotales struct {
	PuntoID            string
	Nombre             string
	ActividadesTotales int
}
