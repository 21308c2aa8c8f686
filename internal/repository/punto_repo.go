package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"gernibide/internal/database"
	"gernibide/internal/models"
)

// PuntoRepository handles location point and activity database operations
type PuntoRepository struct {
	db database.DBTX
}

// NewPuntoRepository creates a new point repository
func NewPuntoRepository(db database.DBTX) *PuntoRepository {
	return &PuntoRepository{db: db}
}

// CreatePunto inserts a new point and returns it
func (r *PuntoRepository) CreatePunto(nombre, descripcion string, orden int) (*models.Punto, error) {
	id := uuid.NewString()

	query := "INSERT INTO puntos (id, nombre, descripcion, orden) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, id, nombre, descripcion, orden); err != nil {
		return nil, err
	}

	return r.GetPunto(id)
}

// GetPunto retrieves a point by ID, or nil if not found
func (r *PuntoRepository) GetPunto(id string) (*models.Punto, error) {
	p := &models.Punto{}
	err := r.db.QueryRow(
		"SELECT id, nombre, descripcion, orden FROM puntos WHERE id = ?", id,
	).Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Orden)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPuntos returns all points in route order
func (r *PuntoRepository) ListPuntos() ([]models.Punto, error) {
	rows, err := r.db.Query("SELECT id, nombre, descripcion, orden FROM puntos ORDER BY orden")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var puntos []models.Punto
	for rows.Next() {
		var p models.Punto
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Orden); err != nil {
			return nil, err
		}
		puntos = append(puntos, p)
	}
	return puntos, rows.Err()
}

// UpdatePunto modifies a point's fields
func (r *PuntoRepository) UpdatePunto(id, nombre, descripcion string, orden int) error {
	_, err := r.db.Exec(
		"UPDATE puntos SET nombre = ?, descripcion = ?, orden = ? WHERE id = ?",
		nombre, descripcion, orden, id,
	)
	return err
}

// DeletePunto removes a point and its activities
func (r *PuntoRepository) DeletePunto(id string) error {
	if _, err := r.db.Exec("DELETE FROM actividades WHERE punto_id = ?", id); err != nil {
		return err
	}
	_, err := r.db.Exec("DELETE FROM puntos WHERE id = ?", id)
	return err
}

// CreateActividad inserts a new activity under a point and returns it
func (r *PuntoRepository) CreateActividad(puntoID, nombre, tipo string, orden int) (*models.Actividad, error) {
	id := uuid.NewString()

	query := "INSERT INTO actividades (id, punto_id, nombre, tipo, orden) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, id, puntoID, nombre, tipo, orden); err != nil {
		return nil, err
	}

	return r.GetActividad(id)
}

// GetActividad retrieves an activity by ID, or nil if not found
func (r *PuntoRepository) GetActividad(id string) (*models.Actividad, error) {
	a := &models.Actividad{}
	err := r.db.QueryRow(
		"SELECT id, punto_id, nombre, tipo, orden FROM actividades WHERE id = ?", id,
	).Scan(&a.ID, &a.PuntoID, &a.Nombre, &a.Tipo, &a.Orden)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActividades returns a point's activities in order
func (r *PuntoRepository) ListActividades(puntoID string) ([]models.Actividad, error) {
	rows, err := r.db.Query(
		"SELECT id, punto_id, nombre, tipo, orden FROM actividades WHERE punto_id = ? ORDER BY orden",
		puntoID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actividades []models.Actividad
	for rows.Next() {
		var a models.Actividad
		if err := rows.Scan(&a.ID, &a.PuntoID, &a.Nombre, &a.Tipo, &a.Orden); err != nil {
			return nil, err
		}
		actividades = append(actividades, a)
	}
	return actividades, rows.Err()
}

// UpdateActividad modifies an activity's fields
func (r *PuntoRepository) UpdateActividad(id, nombre, tipo string, orden int) error {
	_, err := r.db.Exec(
		"UPDATE actividades SET nombre = ?, tipo = ?, orden = ? WHERE id = ?",
		nombre, tipo, orden, id,
	)
	return err
}

// DeleteActividad removes an activity
func (r *PuntoRepository) DeleteActividad(id string) error {
	_, err := r.db.Exec("DELETE FROM actividades WHERE id = ?", id)
	return err
}
