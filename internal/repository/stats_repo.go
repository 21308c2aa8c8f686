package repository

import (
	"database/sql"
	"time"

	"gernibide/internal/database"
	"gernibide/internal/models"
	"gernibide/internal/stats"
)

// StatsRepository runs the aggregate queries behind the statistics services.
// It implements stats.GameplayStore, stats.LearningStore and
// stats.TeacherStore against a single database handle.
type StatsRepository struct {
	db database.DBTX

	clases *ClaseRepository
}

// NewStatsRepository creates a new statistics repository
func NewStatsRepository(db database.DBTX) *StatsRepository {
	return &StatsRepository{
		db:     db,
		clases: NewClaseRepository(db),
	}
}

// CountPartidas returns the total number of game sessions
func (r *StatsRepository) CountPartidas() (int, error) {
	return r.countOne("SELECT COUNT(*) FROM partidas")
}

// CountPartidasPorEstado counts sessions in a given state
func (r *StatsRepository) CountPartidasPorEstado(estado string) (int, error) {
	return r.countOne("SELECT COUNT(*) FROM partidas WHERE estado = ?", estado)
}

// CountPartidasEntre counts sessions started in [start, end)
func (r *StatsRepository) CountPartidasEntre(start, end time.Time) (int, error) {
	return r.countOne("SELECT COUNT(*) FROM partidas WHERE fecha_inicio >= ? AND fecha_inicio < ?", start, end)
}

// CountPartidasCompletadasEntre counts completed sessions started in [start, end)
func (r *StatsRepository) CountPartidasCompletadasEntre(start, end time.Time) (int, error) {
	return r.countOne(
		"SELECT COUNT(*) FROM partidas WHERE estado = ? AND fecha_inicio >= ? AND fecha_inicio < ?",
		models.EstadoCompletado, start, end,
	)
}

// CountUsuarios returns the total number of registered users
func (r *StatsRepository) CountUsuarios() (int, error) {
	return r.countOne("SELECT COUNT(*) FROM usuarios")
}

// CountUsuariosActivos counts distinct users with a session start in [start, end)
func (r *StatsRepository) CountUsuariosActivos(start, end time.Time) (int, error) {
	return r.countOne(
		"SELECT COUNT(DISTINCT usuario_id) FROM partidas WHERE fecha_inicio >= ? AND fecha_inicio < ?",
		start, end,
	)
}

// AvgDuracionPartidas returns the average stored duration over completed
// sessions and how many sessions carried a duration
func (r *StatsRepository) AvgDuracionPartidas() (float64, int, error) {
	return r.avgDuracion("SELECT AVG(duracion), COUNT(duracion) FROM partidas WHERE estado = ? AND duracion IS NOT NULL", models.EstadoCompletado)
}

// AvgDuracionPartidasEntre is AvgDuracionPartidas restricted to sessions
// started in [start, end)
func (r *StatsRepository) AvgDuracionPartidasEntre(start, end time.Time) (float64, int, error) {
	query := "SELECT AVG(duracion), COUNT(duracion) FROM partidas WHERE estado = ? AND duracion IS NOT NULL AND fecha_inicio >= ? AND fecha_inicio < ?"
	return r.avgDuracion(query, models.EstadoCompletado, start, end)
}

// DiasConPartida returns the distinct ISO dates on which the user started a
// session, most recent first. The date is derived in Go because the three
// supported dialects have no common date-extraction function.
func (r *StatsRepository) DiasConPartida(usuarioID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT fecha_inicio FROM partidas WHERE usuario_id = ? ORDER BY fecha_inicio DESC",
		usuarioID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dias []string
	seen := make(map[string]bool)
	for rows.Next() {
		var inicio time.Time
		if err := rows.Scan(&inicio); err != nil {
			return nil, err
		}
		dia := inicio.Format("2006-01-02")
		if !seen[dia] {
			seen[dia] = true
			dias = append(dias, dia)
		}
	}
	return dias, rows.Err()
}

// ActividadesMasJugadas returns activities ranked by attempt count
func (r *StatsRepository) ActividadesMasJugadas(limit int) ([]stats.ActividadJugada, error) {
	query := `
		SELECT a.id, a.nombre, p.nombre, COUNT(pa.id)
		FROM actividades a
		JOIN puntos p ON p.id = a.punto_id
		JOIN progreso_actividades pa ON pa.actividad_id = a.id
		GROUP BY a.id, a.nombre, p.nombre
		ORDER BY COUNT(pa.id) DESC, a.nombre
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranking []stats.ActividadJugada
	for rows.Next() {
		var a stats.ActividadJugada
		if err := rows.Scan(&a.ActividadID, &a.Nombre, &a.Punto, &a.Jugadas); err != nil {
			return nil, err
		}
		ranking = append(ranking, a)
	}
	return ranking, rows.Err()
}

// CountActividades returns the size of the global activity catalog
func (r *StatsRepository) CountActividades() (int, error) {
	return r.countOne("SELECT COUNT(*) FROM actividades")
}

// CountProgresos returns the total number of activity attempts
func (r *StatsRepository) CountProgresos() (int, error) {
	return r.countOne("SELECT COUNT(*) FROM progreso_actividades")
}

// CountProgresosPorEstado counts attempts in a given state
func (r *StatsRepository) CountProgresosPorEstado(estado string) (int, error) {
	return r.countOne("SELECT COUNT(*) FROM progreso_actividades WHERE estado = ?", estado)
}

// CountProgresosEntre counts attempts started in [start, end)
func (r *StatsRepository) CountProgresosEntre(start, end time.Time) (int, error) {
	return r.countOne("SELECT COUNT(*) FROM progreso_actividades WHERE fecha_inicio >= ? AND fecha_inicio < ?", start, end)
}

// CountProgresosCompletadosEntre counts completed attempts started in [start, end)
func (r *StatsRepository) CountProgresosCompletadosEntre(start, end time.Time) (int, error) {
	return r.countOne(
		"SELECT COUNT(*) FROM progreso_actividades WHERE estado = ? AND fecha_inicio >= ? AND fecha_inicio < ?",
		models.EstadoCompletado, start, end,
	)
}

// PuntuacionesCompletadas returns every score of a completed attempt
func (r *StatsRepository) PuntuacionesCompletadas() ([]float64, error) {
	rows, err := r.db.Query(
		"SELECT puntuacion FROM progreso_actividades WHERE estado = ? AND puntuacion IS NOT NULL",
		models.EstadoCompletado,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// NotasPorActividad returns per-activity completed-attempt aggregates,
// unfiltered. The statistics service applies the significance floor.
func (r *StatsRepository) NotasPorActividad() ([]stats.ActividadNota, error) {
	query := `
		SELECT a.id, a.nombre, p.nombre, COUNT(pa.id), AVG(pa.puntuacion)
		FROM actividades a
		JOIN puntos p ON p.id = a.punto_id
		JOIN progreso_actividades pa ON pa.actividad_id = a.id
		WHERE pa.estado = ? AND pa.puntuacion IS NOT NULL
		GROUP BY a.id, a.nombre, p.nombre
	`
	rows, err := r.db.Query(query, models.EstadoCompletado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notas []stats.ActividadNota
	for rows.Next() {
		var n stats.ActividadNota
		var media sql.NullFloat64
		if err := rows.Scan(&n.ActividadID, &n.Nombre, &n.Punto, &n.Intentos, &media); err != nil {
			return nil, err
		}
		n.NotaMedia = media.Float64
		notas = append(notas, n)
	}
	return notas, rows.Err()
}

// CompletadoPorPunto returns per-punto attempt totals, including puntos with
// no attempts at all
func (r *StatsRepository) CompletadoPorPunto() ([]stats.PuntoCompletado, error) {
	query := `
		SELECT p.id, p.nombre, COUNT(pa.id),
		       SUM(CASE WHEN pa.estado = ? THEN 1 ELSE 0 END)
		FROM puntos p
		LEFT JOIN progreso_actividades pa ON pa.punto_id = p.id
		GROUP BY p.id, p.nombre
		ORDER BY p.orden
	`
	rows, err := r.db.Query(query, models.EstadoCompletado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var puntos []stats.PuntoCompletado
	for rows.Next() {
		var p stats.PuntoCompletado
		var completadas sql.NullInt64
		if err := rows.Scan(&p.PuntoID, &p.Nombre, &p.Total, &completadas); err != nil {
			return nil, err
		}
		p.Completadas = int(completadas.Int64)
		puntos = append(puntos, p)
	}
	return puntos, rows.Err()
}

// DuracionesPorPunto returns one row per completed, duration-bearing attempt
// with its punto name
func (r *StatsRepository) DuracionesPorPunto() ([]stats.DuracionPunto, error) {
	query := `
		SELECT p.nombre, pa.duracion
		FROM progreso_actividades pa
		JOIN puntos p ON p.id = pa.punto_id
		WHERE pa.estado = ? AND pa.duracion IS NOT NULL AND pa.duracion > 0
	`
	rows, err := r.db.Query(query, models.EstadoCompletado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duraciones []stats.DuracionPunto
	for rows.Next() {
		var d stats.DuracionPunto
		if err := rows.Scan(&d.Punto, &d.Duracion); err != nil {
			return nil, err
		}
		duraciones = append(duraciones, d)
	}
	return duraciones, rows.Err()
}

// ClasesDeProfesor returns a teacher's classes with their student counts
func (r *StatsRepository) ClasesDeProfesor(profesorID string) ([]models.ClaseConAlumnos, error) {
	return r.clases.ListByProfesor(profesorID)
}

// Clase retrieves a class by ID, or nil if not found
func (r *StatsRepository) Clase(claseID string) (*models.Clase, error) {
	return r.clases.GetByID(claseID)
}

// AlumnosDeClase returns the students assigned to a class
func (r *StatsRepository) AlumnosDeClase(claseID string) ([]models.Usuario, error) {
	rows, err := r.db.Query(
		"SELECT "+usuarioColumns+" FROM usuarios WHERE clase_id = ? AND rol = ? ORDER BY nombre",
		claseID, models.RolAlumno,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsuarios(rows)
}

// PuntosConTotales returns every punto with its activity catalog size, in
// route order
func (r *StatsRepository) PuntosConTotales() ([]stats.PuntoTotales, error) {
	query := `
		SELECT p.id, p.nombre, COUNT(a.id)
		FROM puntos p
		LEFT JOIN actividades a ON a.punto_id = p.id
		GROUP BY p.id, p.nombre, p.orden
		ORDER BY p.orden
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var puntos []stats.PuntoTotales
	for rows.Next() {
		var p stats.PuntoTotales
		if err := rows.Scan(&p.PuntoID, &p.Nombre, &p.ActividadesTotales); err != nil {
			return nil, err
		}
		puntos = append(puntos, p)
	}
	return puntos, rows.Err()
}

// ProgresosDeUsuario returns all of a user's attempts in start order
func (r *StatsRepository) ProgresosDeUsuario(usuarioID string) ([]models.ProgresoActividad, error) {
	return NewProgresoRepository(r.db).ListByUsuario(usuarioID)
}

func (r *StatsRepository) countOne(query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *StatsRepository) avgDuracion(query string, args ...interface{}) (float64, int, error) {
	var avg sql.NullFloat64
	var n int
	if err := r.db.QueryRow(query, args...).Scan(&avg, &n); err != nil {
		return 0, 0, err
	}
	return avg.Float64, n, nil
}
