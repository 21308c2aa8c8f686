package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gernibide/internal/database"
	"gernibide/internal/models"
)

// ProgresoRepository handles activity attempt database operations
type ProgresoRepository struct {
	db database.DBTX
}

// NewProgresoRepository creates a new activity attempt repository
func NewProgresoRepository(db database.DBTX) *ProgresoRepository {
	return &ProgresoRepository{db: db}
}

// Create records the start of an attempt
func (r *ProgresoRepository) Create(partidaID, puntoID, actividadID, usuarioID string, inicio time.Time) (*models.ProgresoActividad, error) {
	id := uuid.NewString()

	query := `
		INSERT INTO progreso_actividades (id, partida_id, punto_id, actividad_id, usuario_id, fecha_inicio, estado)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, partidaID, puntoID, actividadID, usuarioID, inicio, models.EstadoEnProgreso); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves an attempt by ID, or nil if not found
func (r *ProgresoRepository) GetByID(id string) (*models.ProgresoActividad, error) {
	row := r.db.QueryRow("SELECT "+progresoColumns+" FROM progreso_actividades WHERE id = ?", id)
	p, err := scanProgreso(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByPartida returns a session's attempts in start order
func (r *ProgresoRepository) ListByPartida(partidaID string) ([]models.ProgresoActividad, error) {
	return r.list("WHERE partida_id = ?", partidaID)
}

// ListByUsuario returns all of a user's attempts in start order
func (r *ProgresoRepository) ListByUsuario(usuarioID string) ([]models.ProgresoActividad, error) {
	return r.list("WHERE usuario_id = ?", usuarioID)
}

// Complete closes an attempt with its end time, duration in seconds, score and answer
func (r *ProgresoRepository) Complete(id string, fin time.Time, duracion int64, puntuacion *float64, respuesta *string) error {
	query := `
		UPDATE progreso_actividades
		SET fecha_fin = ?, duracion = ?, estado = ?, puntuacion = ?, respuesta = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, fin, duracion, models.EstadoCompletado, puntuacion, respuesta, id)
	return err
}

// Delete removes an attempt
func (r *ProgresoRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM progreso_actividades WHERE id = ?", id)
	return err
}

const progresoColumns = "id, partida_id, punto_id, actividad_id, usuario_id, fecha_inicio, fecha_fin, duracion, estado, puntuacion, respuesta"

func (r *ProgresoRepository) list(where string, args ...interface{}) ([]models.ProgresoActividad, error) {
	rows, err := r.db.Query("SELECT "+progresoColumns+" FROM progreso_actividades "+where+" ORDER BY fecha_inicio", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progresos []models.ProgresoActividad
	for rows.Next() {
		p, err := scanProgreso(rows)
		if err != nil {
			return nil, err
		}
		progresos = append(progresos, *p)
	}
	return progresos, rows.Err()
}

func scanProgreso(row rowScanner) (*models.ProgresoActividad, error) {
	p := &models.ProgresoActividad{}
	var fin sql.NullTime
	var duracion sql.NullInt64
	var puntuacion sql.NullFloat64
	var respuesta sql.NullString

	err := row.Scan(
		&p.ID,
		&p.PartidaID,
		&p.PuntoID,
		&p.ActividadID,
		&p.UsuarioID,
		&p.FechaInicio,
		&fin,
		&duracion,
		&p.Estado,
		&puntuacion,
		&respuesta,
	)
	if err != nil {
		return nil, err
	}

	if fin.Valid {
		p.FechaFin = &fin.Time
	}
	if duracion.Valid {
		p.Duracion = &duracion.Int64
	}
	if puntuacion.Valid {
		p.Puntuacion = &puntuacion.Float64
	}
	if respuesta.Valid {
		p.Respuesta = &respuesta.String
	}
	return p, nil
}
