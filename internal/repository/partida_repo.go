package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gernibide/internal/database"
	"gernibide/internal/models"
)

// PartidaRepository handles game session database operations
type PartidaRepository struct {
	db database.DBTX
}

// NewPartidaRepository creates a new game session repository
func NewPartidaRepository(db database.DBTX) *PartidaRepository {
	return &PartidaRepository{db: db}
}

// Create starts a new session for a user
func (r *PartidaRepository) Create(usuarioID string, inicio time.Time) (*models.Partida, error) {
	id := uuid.NewString()

	query := "INSERT INTO partidas (id, usuario_id, fecha_inicio, estado) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, id, usuarioID, inicio, models.EstadoEnProgreso); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a session by ID, or nil if not found
func (r *PartidaRepository) GetByID(id string) (*models.Partida, error) {
	p := &models.Partida{}
	var fin sql.NullTime
	var duracion sql.NullInt64

	err := r.db.QueryRow(
		"SELECT id, usuario_id, fecha_inicio, fecha_fin, duracion, estado FROM partidas WHERE id = ?", id,
	).Scan(&p.ID, &p.UsuarioID, &p.FechaInicio, &fin, &duracion, &p.Estado)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if fin.Valid {
		p.FechaFin = &fin.Time
	}
	if duracion.Valid {
		p.Duracion = &duracion.Int64
	}
	return p, nil
}

// ListByUsuario returns a user's sessions, newest first
func (r *PartidaRepository) ListByUsuario(usuarioID string) ([]models.Partida, error) {
	rows, err := r.db.Query(
		"SELECT id, usuario_id, fecha_inicio, fecha_fin, duracion, estado FROM partidas WHERE usuario_id = ? ORDER BY fecha_inicio DESC",
		usuarioID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partidas []models.Partida
	for rows.Next() {
		var p models.Partida
		var fin sql.NullTime
		var duracion sql.NullInt64
		if err := rows.Scan(&p.ID, &p.UsuarioID, &p.FechaInicio, &fin, &duracion, &p.Estado); err != nil {
			return nil, err
		}
		if fin.Valid {
			p.FechaFin = &fin.Time
		}
		if duracion.Valid {
			p.Duracion = &duracion.Int64
		}
		partidas = append(partidas, p)
	}
	return partidas, rows.Err()
}

// Finish closes a session with its end time, duration in seconds and final state
func (r *PartidaRepository) Finish(id string, fin time.Time, duracion int64, estado string) error {
	_, err := r.db.Exec(
		"UPDATE partidas SET fecha_fin = ?, duracion = ?, estado = ? WHERE id = ?",
		fin, duracion, estado, id,
	)
	return err
}

// AbandonStale marks in-progress sessions started before the cutoff as
// abandoned and returns how many rows changed
func (r *PartidaRepository) AbandonStale(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(
		"UPDATE partidas SET estado = ? WHERE estado = ? AND fecha_inicio < ?",
		models.EstadoAbandonado, models.EstadoEnProgreso, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a session and its activity attempts
func (r *PartidaRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM progreso_actividades WHERE partida_id = ?", id); err != nil {
		return err
	}
	_, err := r.db.Exec("DELETE FROM partidas WHERE id = ?", id)
	return err
}
