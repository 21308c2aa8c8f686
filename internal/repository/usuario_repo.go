package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gernibide/internal/database"
	"gernibide/internal/models"
)

// UsuarioRepository handles user database operations
type UsuarioRepository struct {
	db database.DBTX
}

// NewUsuarioRepository creates a new user repository
func NewUsuarioRepository(db database.DBTX) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

// Create inserts a new user and returns it
func (r *UsuarioRepository) Create(email, passwordHash, nombre, rol string, claseID *string) (*models.Usuario, error) {
	id := uuid.NewString()
	now := time.Now()

	query := `
		INSERT INTO usuarios (id, email, password_hash, nombre, rol, clase_id, fecha_registro, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, email, passwordHash, nombre, rol, claseID, now, now); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// CreateOAuth inserts a user registered through an OAuth provider
func (r *UsuarioRepository) CreateOAuth(email, nombre, rol, provider, subject string) (*models.Usuario, error) {
	id := uuid.NewString()
	now := time.Now()

	query := `
		INSERT INTO usuarios (id, email, password_hash, nombre, rol, oauth_provider, oauth_subject, fecha_registro, updated_at)
		VALUES (?, ?, '', ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, email, nombre, rol, provider, subject, now, now); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a user by ID, or nil if not found
func (r *UsuarioRepository) GetByID(id string) (*models.Usuario, error) {
	return r.getOne("SELECT "+usuarioColumns+" FROM usuarios WHERE id = ?", id)
}

// GetByEmail retrieves a user by email, or nil if not found
func (r *UsuarioRepository) GetByEmail(email string) (*models.Usuario, error) {
	return r.getOne("SELECT "+usuarioColumns+" FROM usuarios WHERE email = ?", email)
}

// GetByOAuth retrieves a user by OAuth provider and subject, or nil if not found
func (r *UsuarioRepository) GetByOAuth(provider, subject string) (*models.Usuario, error) {
	return r.getOne("SELECT "+usuarioColumns+" FROM usuarios WHERE oauth_provider = ? AND oauth_subject = ?", provider, subject)
}

// List returns all users, newest first
func (r *UsuarioRepository) List() ([]models.Usuario, error) {
	rows, err := r.db.Query("SELECT " + usuarioColumns + " FROM usuarios ORDER BY fecha_registro DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsuarios(rows)
}

// Update modifies a user's profile fields
func (r *UsuarioRepository) Update(id, nombre, rol string, claseID *string) error {
	query := `
		UPDATE usuarios
		SET nombre = ?, rol = ?, clase_id = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, nombre, rol, claseID, time.Now(), id)
	return err
}

// Delete removes a user
func (r *UsuarioRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM usuarios WHERE id = ?", id)
	return err
}

const usuarioColumns = "id, email, password_hash, nombre, rol, clase_id, oauth_provider, oauth_subject, fecha_registro, updated_at"

func (r *UsuarioRepository) getOne(query string, args ...interface{}) (*models.Usuario, error) {
	u, err := scanUsuario(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUsuario(row rowScanner) (*models.Usuario, error) {
	u := &models.Usuario{}
	var claseID sql.NullString
	var provider, subject sql.NullString

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Nombre,
		&u.Rol,
		&claseID,
		&provider,
		&subject,
		&u.FechaRegistro,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if claseID.Valid {
		u.ClaseID = &claseID.String
	}
	u.OAuthProvider = provider.String
	u.OAuthSubject = subject.String
	return u, nil
}

func scanUsuarios(rows *sql.Rows) ([]models.Usuario, error) {
	var usuarios []models.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, *u)
	}
	return usuarios, rows.Err()
}
