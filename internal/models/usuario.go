package models

import "time"

// User roles
const (
	RolAlumno   = "alumno"
	RolProfesor = "profesor"
	RolAdmin    = "admin"
)

// Usuario represents a registered user (student, teacher or admin)
type Usuario struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Nombre        string    `json:"nombre"`
	Rol           string    `json:"rol"`
	ClaseID       *string   `json:"clase_id"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	FechaRegistro time.Time `json:"fecha_registro"`
	UpdatedAt     time.Time `json:"-"`
}

// Clase groups students under a single teacher
type Clase struct {
	ID         string    `json:"id"`
	Nombre     string    `json:"nombre"`
	ProfesorID string    `json:"profesor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClaseConAlumnos combines a class with its student count
type ClaseConAlumnos struct {
	Clase
	NumAlumnos int `json:"num_alumnos"`
}
