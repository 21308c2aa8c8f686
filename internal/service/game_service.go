package service

import (
	"errors"
	"fmt"
	"time"

	"gernibide/internal/models"
)

var (
	ErrPartidaNotFound  = errors.New("partida not found")
	ErrPartidaCerrada   = errors.New("partida already finished")
	ErrProgresoNotFound = errors.New("progreso not found")
	ErrProgresoCerrado  = errors.New("progreso already completed")
)

// PartidaStore is the session persistence surface the game service needs
type PartidaStore interface {
	Create(usuarioID string, inicio time.Time) (*models.Partida, error)
	GetByID(id string) (*models.Partida, error)
	Finish(id string, fin time.Time, duracion int64, estado string) error
}

// ProgresoStore is the attempt persistence surface the game service needs
type ProgresoStore interface {
	Create(partidaID, puntoID, actividadID, usuarioID string, inicio time.Time) (*models.ProgresoActividad, error)
	GetByID(id string) (*models.ProgresoActividad, error)
	Complete(id string, fin time.Time, duracion int64, puntuacion *float64, respuesta *string) error
}

// GameService handles game session and activity attempt lifecycle
type GameService struct {
	partidas  PartidaStore
	progresos ProgresoStore
	now       func() time.Time
}

// NewGameService creates a new game service
func NewGameService(partidas PartidaStore, progresos ProgresoStore) *GameService {
	return &GameService{
		partidas:  partidas,
		progresos: progresos,
		now:       time.Now,
	}
}

// StartPartida opens a new session for a user
func (s *GameService) StartPartida(usuarioID string) (*models.Partida, error) {
	partida, err := s.partidas.Create(usuarioID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to start partida: %w", err)
	}
	return partida, nil
}

// FinishPartida closes a session, storing its duration in whole seconds.
// estado must be completed or abandoned.
func (s *GameService) FinishPartida(partidaID, estado string) (*models.Partida, error) {
	if estado != models.EstadoCompletado && estado != models.EstadoAbandonado {
		return nil, fmt.Errorf("invalid final estado %q", estado)
	}

	partida, err := s.partidas.GetByID(partidaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partida: %w", err)
	}
	if partida == nil {
		return nil, ErrPartidaNotFound
	}
	if partida.Estado != models.EstadoEnProgreso {
		return nil, ErrPartidaCerrada
	}

	fin := s.now()
	if err := s.partidas.Finish(partidaID, fin, elapsedSeconds(partida.FechaInicio, fin), estado); err != nil {
		return nil, fmt.Errorf("failed to finish partida: %w", err)
	}
	return s.partidas.GetByID(partidaID)
}

// RecordProgreso records the start of an activity attempt within a session
func (s *GameService) RecordProgreso(partidaID, puntoID, actividadID string) (*models.ProgresoActividad, error) {
	partida, err := s.partidas.GetByID(partidaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partida: %w", err)
	}
	if partida == nil {
		return nil, ErrPartidaNotFound
	}
	if partida.Estado != models.EstadoEnProgreso {
		return nil, ErrPartidaCerrada
	}

	progreso, err := s.progresos.Create(partidaID, puntoID, actividadID, partida.UsuarioID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record progreso: %w", err)
	}
	return progreso, nil
}

// CompleteProgreso closes an attempt with its score and answer
func (s *GameService) CompleteProgreso(progresoID string, puntuacion *float64, respuesta *string) (*models.ProgresoActividad, error) {
	progreso, err := s.progresos.GetByID(progresoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progreso: %w", err)
	}
	if progreso == nil {
		return nil, ErrProgresoNotFound
	}
	if progreso.Estado == models.EstadoCompletado {
		return nil, ErrProgresoCerrado
	}

	fin := s.now()
	if err := s.progresos.Complete(progresoID, fin, elapsedSeconds(progreso.FechaInicio, fin), puntuacion, respuesta); err != nil {
		return nil, fmt.Errorf("failed to complete progreso: %w", err)
	}
	return s.progresos.GetByID(progresoID)
}

// elapsedSeconds truncates to whole seconds and clamps clock skew to zero
func elapsedSeconds(inicio, fin time.Time) int64 {
	secs := int64(fin.Sub(inicio) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
