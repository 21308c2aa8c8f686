package service

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"

	"gernibide/internal/database"
	"gernibide/internal/models"
	"gernibide/internal/repository"
)

// BackupData is the complete database backup structure
type BackupData struct {
	Version      string                     `json:"version"`
	ExportedAt   time.Time                  `json:"exported_at"`
	DatabaseType string                     `json:"database_type"`
	Usuarios     []models.Usuario           `json:"usuarios"`
	Clases       []models.Clase             `json:"clases"`
	Puntos       []models.Punto             `json:"puntos"`
	Actividades  []models.Actividad         `json:"actividades"`
	Partidas     []models.Partida           `json:"partidas"`
	Progresos    []models.ProgresoActividad `json:"progreso_actividades"`
}

// usuarioBackup carries the fields the Usuario JSON tags hide
type usuarioBackup struct {
	models.Usuario
	PasswordHash  string `json:"password_hash"`
	OAuthProvider string `json:"oauth_provider"`
	OAuthSubject  string `json:"oauth_subject"`
}

// BackupService handles database export and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes the whole database to a JSON file
func (s *BackupService) Export(outputPath string) error {
	data := BackupData{
		Version:      "1",
		ExportedAt:   time.Now(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	var err error
	if data.Usuarios, err = repository.NewUsuarioRepository(s.db).List(); err != nil {
		return fmt.Errorf("failed to export usuarios: %w", err)
	}
	if data.Clases, err = s.exportClases(); err != nil {
		return fmt.Errorf("failed to export clases: %w", err)
	}
	if data.Puntos, err = repository.NewPuntoRepository(s.db).ListPuntos(); err != nil {
		return fmt.Errorf("failed to export puntos: %w", err)
	}
	if data.Actividades, err = s.exportActividades(); err != nil {
		return fmt.Errorf("failed to export actividades: %w", err)
	}
	if data.Partidas, err = s.exportPartidas(); err != nil {
		return fmt.Errorf("failed to export partidas: %w", err)
	}
	if data.Progresos, err = s.exportProgresos(); err != nil {
		return fmt.Errorf("failed to export progreso: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(exportView(data)); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported %d usuarios, %d clases, %d puntos, %d actividades, %d partidas, %d progresos",
		len(data.Usuarios), len(data.Clases), len(data.Puntos), len(data.Actividades), len(data.Partidas), len(data.Progresos))
	return nil
}

// Import restores a JSON backup into the database. Existing rows with the
// same IDs cause constraint errors; use a clean database for a full restore.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var view backupView
	if err := json.NewDecoder(file).Decode(&view); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Clases go first so the usuarios.clase_id foreign key resolves
	for _, c := range view.Clases {
		if _, err := tx.Exec("INSERT INTO clases (id, nombre, profesor_id, created_at) VALUES (?, ?, ?, ?)", c.ID, c.Nombre, c.ProfesorID, c.CreatedAt); err != nil {
			return fmt.Errorf("failed to import clase %s: %w", c.ID, err)
		}
	}
	for _, u := range view.Usuarios {
		_, err := tx.Exec(
			"INSERT INTO usuarios (id, email, password_hash, nombre, rol, clase_id, oauth_provider, oauth_subject, fecha_registro, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			u.ID, u.Email, u.PasswordHash, u.Nombre, u.Rol, u.ClaseID, u.OAuthProvider, u.OAuthSubject, u.FechaRegistro, u.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import usuario %s: %w", u.ID, err)
		}
	}
	for _, p := range view.Puntos {
		if _, err := tx.Exec("INSERT INTO puntos (id, nombre, descripcion, orden) VALUES (?, ?, ?, ?)", p.ID, p.Nombre, p.Descripcion, p.Orden); err != nil {
			return fmt.Errorf("failed to import punto %s: %w", p.ID, err)
		}
	}
	for _, a := range view.Actividades {
		if _, err := tx.Exec("INSERT INTO actividades (id, punto_id, nombre, tipo, orden) VALUES (?, ?, ?, ?, ?)", a.ID, a.PuntoID, a.Nombre, a.Tipo, a.Orden); err != nil {
			return fmt.Errorf("failed to import actividad %s: %w", a.ID, err)
		}
	}
	for _, p := range view.Partidas {
		_, err := tx.Exec(
			"INSERT INTO partidas (id, usuario_id, fecha_inicio, fecha_fin, duracion, estado) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.UsuarioID, p.FechaInicio, p.FechaFin, p.Duracion, p.Estado,
		)
		if err != nil {
			return fmt.Errorf("failed to import partida %s: %w", p.ID, err)
		}
	}
	for _, p := range view.Progresos {
		_, err := tx.Exec(
			"INSERT INTO progreso_actividades (id, partida_id, punto_id, actividad_id, usuario_id, fecha_inicio, fecha_fin, duracion, estado, puntuacion, respuesta) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			p.ID, p.PartidaID, p.PuntoID, p.ActividadID, p.UsuarioID, p.FechaInicio, p.FechaFin, p.Duracion, p.Estado, p.Puntuacion, p.Respuesta,
		)
		if err != nil {
			return fmt.Errorf("failed to import progreso %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Imported %d usuarios, %d clases, %d puntos, %d actividades, %d partidas, %d progresos",
		len(view.Usuarios), len(view.Clases), len(view.Puntos), len(view.Actividades), len(view.Partidas), len(view.Progresos))
	return nil
}

// backupView is the on-disk shape, with the hidden Usuario fields included
type backupView struct {
	Version      string                     `json:"version"`
	ExportedAt   time.Time                  `json:"exported_at"`
	DatabaseType string                     `json:"database_type"`
	Usuarios     []usuarioBackup            `json:"usuarios"`
	Clases       []models.Clase             `json:"clases"`
	Puntos       []models.Punto             `json:"puntos"`
	Actividades  []models.Actividad         `json:"actividades"`
	Partidas     []models.Partida           `json:"partidas"`
	Progresos    []models.ProgresoActividad `json:"progreso_actividades"`
}

func exportView(data BackupData) backupView {
	view := backupView{
		Version:      data.Version,
		ExportedAt:   data.ExportedAt,
		DatabaseType: data.DatabaseType,
		Clases:       data.Clases,
		Puntos:       data.Puntos,
		Actividades:  data.Actividades,
		Partidas:     data.Partidas,
		Progresos:    data.Progresos,
	}
	for _, u := range data.Usuarios {
		view.Usuarios = append(view.Usuarios, usuarioBackup{
			Usuario:       u,
			PasswordHash:  u.PasswordHash,
			OAuthProvider: u.OAuthProvider,
			OAuthSubject:  u.OAuthSubject,
		})
	}
	return view
}

func (s *BackupService) exportClases() ([]models.Clase, error) {
	rows, err := s.db.Query("SELECT id, nombre, profesor_id, created_at FROM clases ORDER BY nombre")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clases []models.Clase
	for rows.Next() {
		var c models.Clase
		if err := rows.Scan(&c.ID, &c.Nombre, &c.ProfesorID, &c.CreatedAt); err != nil {
			return nil, err
		}
		clases = append(clases, c)
	}
	return clases, rows.Err()
}

func (s *BackupService) exportActividades() ([]models.Actividad, error) {
	rows, err := s.db.Query("SELECT id, punto_id, nombre, tipo, orden FROM actividades ORDER BY punto_id, orden")
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

func (s *BackupService) exportPartidas() ([]models.Partida, error) {
	rows, err := s.db.Query("SELECT id, usuario_id, fecha_inicio, fecha_fin, duracion, estado FROM partidas ORDER BY fecha_inicio")
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

func (s *BackupService) exportProgresos() ([]models.ProgresoActividad, error) {
	rows, err := s.db.Query("SELECT id, partida_id, punto_id, actividad_id, usuario_id, fecha_inicio, fecha_fin, duracion, estado, puntuacion, respuesta FROM progreso_actividades ORDER BY fecha_inicio")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progresos []models.ProgresoActividad
	for rows.Next() {
		var p models.ProgresoActividad
		var fin sql.NullTime
		var duracion sql.NullInt64
		var puntuacion sql.NullFloat64
		var respuesta sql.NullString
		err := rows.Scan(&p.ID, &p.PartidaID, &p.PuntoID, &p.ActividadID, &p.UsuarioID, &p.FechaInicio, &fin, &duracion, &p.Estado, &puntuacion, &respuesta)
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
		progresos = append(progresos, p)
	}
	return progresos, rows.Err()
}
