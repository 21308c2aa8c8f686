package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gernibide/internal/database"
	"gernibide/internal/models"
)

// ClaseRepository handles class database operations
type ClaseRepository struct {
	db database.DBTX
}

// NewClaseRepository creates a new class repository
func NewClaseRepository(db database.DBTX) *ClaseRepository {
	return &ClaseRepository{db: db}
}

// Create inserts a new class and returns it
func (r *ClaseRepository) Create(nombre, profesorID string) (*models.Clase, error) {
	id := uuid.NewString()

	query := "INSERT INTO clases (id, nombre, profesor_id, created_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, id, nombre, profesorID, time.Now()); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a class by ID, or nil if not found
func (r *ClaseRepository) GetByID(id string) (*models.Clase, error) {
	c := &models.Clase{}
	err := r.db.QueryRow(
		"SELECT id, nombre, profesor_id, created_at FROM clases WHERE id = ?", id,
	).Scan(&c.ID, &c.Nombre, &c.ProfesorID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all classes with their student counts
func (r *ClaseRepository) List() ([]models.ClaseConAlumnos, error) {
	return r.listWithCounts("", nil)
}

// ListByProfesor returns a teacher's classes with their student counts
func (r *ClaseRepository) ListByProfesor(profesorID string) ([]models.ClaseConAlumnos, error) {
	return r.listWithCounts("WHERE c.profesor_id = ?", []interface{}{profesorID})
}

// Update renames a class or reassigns its teacher
func (r *ClaseRepository) Update(id, nombre, profesorID string) error {
	_, err := r.db.Exec("UPDATE clases SET nombre = ?, profesor_id = ? WHERE id = ?", nombre, profesorID, id)
	return err
}

// Delete removes a class. Students keep their accounts but lose the assignment.
func (r *ClaseRepository) Delete(id string) error {
	if _, err := r.db.Exec("UPDATE usuarios SET clase_id = NULL WHERE clase_id = ?", id); err != nil {
		return err
	}
	_, err := r.db.Exec("DELETE FROM clases WHERE id = ?", id)
	return err
}

func (r *ClaseRepository) listWithCounts(where string, args []interface{}) ([]models.ClaseConAlumnos, error) {
	query := `
		SELECT c.id, c.nombre, c.profesor_id, c.created_at, COUNT(u.id)
		FROM clases c
		LEFT JOIN usuarios u ON u.clase_id = c.id AND u.rol = 'alumno'
		` + where + `
		GROUP BY c.id, c.nombre, c.profesor_id, c.created_at
		ORDER BY c.nombre
	`
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clases []models.ClaseConAlumnos
	for rows.Next() {
		var c models.ClaseConAlumnos
		if err := rows.Scan(&c.ID, &c.Nombre, &c.ProfesorID, &c.CreatedAt, &c.NumAlumnos); err != nil {
			return nil, err
		}
		clases = append(clases, c)
	}
	return clases, rows.Err()
}
