package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"gernibide/internal/models"
)

type fakePartidaStore struct {
	partidas map[string]*models.Partida
}

func newFakePartidaStore() *fakePartidaStore {
	return &fakePartidaStore{partidas: make(map[string]*models.Partida)}
}

func (f *fakePartidaStore) Create(usuarioID string, inicio time.Time) (*models.Partida, error) {
	p := &models.Partida{
		ID:          uuid.NewString(),
		UsuarioID:   usuarioID,
		FechaInicio: inicio,
		Estado:      models.EstadoEnProgreso,
	}
	f.partidas[p.ID] = p
	return p, nil
}

func (f *fakePartidaStore) GetByID(id string) (*models.Partida, error) {
	return f.partidas[id], nil
}

func (f *fakePartidaStore) Finish(id string, fin time.Time, duracion int64, estado string) error {
	p := f.partidas[id]
	p.FechaFin = &fin
	p.Duracion = &duracion
	p.Estado = estado
	return nil
}

type fakeProgresoStore struct {
	progresos map[string]*models.ProgresoActividad
}

func newFakeProgresoStore() *fakeProgresoStore {
	return &fakeProgresoStore{progresos: make(map[string]*models.ProgresoActividad)}
}

func (f *fakeProgresoStore) Create(partidaID, puntoID, actividadID, usuarioID string, inicio time.Time) (*models.ProgresoActividad, error) {
	p := &models.ProgresoActividad{
		ID:          uuid.NewString(),
		PartidaID:   partidaID,
		PuntoID:     puntoID,
		ActividadID: actividadID,
		UsuarioID:   usuarioID,
		FechaInicio: inicio,
		Estado:      models.EstadoEnProgreso,
	}
	f.progresos[p.ID] = p
	return p, nil
}

func (f *fakeProgresoStore) GetByID(id string) (*models.ProgresoActividad, error) {
	return f.progresos[id], nil
}

func (f *fakeProgresoStore) Complete(id string, fin time.Time, duracion int64, puntuacion *float64, respuesta *string) error {
	p := f.progresos[id]
	p.FechaFin = &fin
	p.Duracion = &duracion
	p.Estado = models.EstadoCompletado
	p.Puntuacion = puntuacion
	p.Respuesta = respuesta
	return nil
}

func newTestGameService() (*GameService, *time.Time) {
	now := time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC)
	s := NewGameService(newFakePartidaStore(), newFakeProgresoStore())
	s.now = func() time.Time { return now }
	return s, &now
}

func TestFinishPartidaDuration(t *testing.T) {
	s, now := newTestGameService()

	partida, err := s.StartPartida("u1")
	if err != nil {
		t.Fatalf("StartPartida() error = %v", err)
	}

	// 90.7s of play stores 90 whole seconds
	*now = now.Add(90*time.Second + 700*time.Millisecond)

	finished, err := s.FinishPartida(partida.ID, models.EstadoCompletado)
	if err != nil {
		t.Fatalf("FinishPartida() error = %v", err)
	}
	if finished.Duracion == nil || *finished.Duracion != 90 {
		t.Errorf("Duracion = %v, want 90", finished.Duracion)
	}
	if finished.Estado != models.EstadoCompletado {
		t.Errorf("Estado = %s, want %s", finished.Estado, models.EstadoCompletado)
	}
}

func TestFinishPartidaClockSkew(t *testing.T) {
	s, now := newTestGameService()

	partida, err := s.StartPartida("u1")
	if err != nil {
		t.Fatalf("StartPartida() error = %v", err)
	}

	// End time before start time must not store a negative duration
	*now = now.Add(-time.Minute)

	finished, err := s.FinishPartida(partida.ID, models.EstadoAbandonado)
	if err != nil {
		t.Fatalf("FinishPartida() error = %v", err)
	}
	if finished.Duracion == nil || *finished.Duracion != 0 {
		t.Errorf("Duracion = %v, want 0 for clock skew", finished.Duracion)
	}
}

func TestFinishPartidaTwice(t *testing.T) {
	s, _ := newTestGameService()

	partida, _ := s.StartPartida("u1")
	if _, err := s.FinishPartida(partida.ID, models.EstadoCompletado); err != nil {
		t.Fatalf("FinishPartida() error = %v", err)
	}

	if _, err := s.FinishPartida(partida.ID, models.EstadoCompletado); err != ErrPartidaCerrada {
		t.Errorf("second FinishPartida() error = %v, want ErrPartidaCerrada", err)
	}
}

func TestFinishPartidaInvalidEstado(t *testing.T) {
	s, _ := newTestGameService()

	partida, _ := s.StartPartida("u1")
	if _, err := s.FinishPartida(partida.ID, models.EstadoEnProgreso); err == nil {
		t.Error("FinishPartida() accepted in_progress as final estado")
	}
}

func TestFinishPartidaNotFound(t *testing.T) {
	s, _ := newTestGameService()

	if _, err := s.FinishPartida("missing", models.EstadoCompletado); err != ErrPartidaNotFound {
		t.Errorf("FinishPartida() error = %v, want ErrPartidaNotFound", err)
	}
}

func TestRecordAndCompleteProgreso(t *testing.T) {
	s, now := newTestGameService()

	partida, _ := s.StartPartida("u1")
	progreso, err := s.RecordProgreso(partida.ID, "pt1", "a1")
	if err != nil {
		t.Fatalf("RecordProgreso() error = %v", err)
	}
	if progreso.UsuarioID != "u1" {
		t.Errorf("UsuarioID = %s, want inherited u1", progreso.UsuarioID)
	}

	*now = now.Add(45 * time.Second)
	nota := 8.5
	respuesta := "gernikako arbola"

	completed, err := s.CompleteProgreso(progreso.ID, &nota, &respuesta)
	if err != nil {
		t.Fatalf("CompleteProgreso() error = %v", err)
	}
	if completed.Duracion == nil || *completed.Duracion != 45 {
		t.Errorf("Duracion = %v, want 45", completed.Duracion)
	}
	if completed.Puntuacion == nil || *completed.Puntuacion != 8.5 {
		t.Errorf("Puntuacion = %v, want 8.5", completed.Puntuacion)
	}

	if _, err := s.CompleteProgreso(progreso.ID, &nota, nil); err != ErrProgresoCerrado {
		t.Errorf("second CompleteProgreso() error = %v, want ErrProgresoCerrado", err)
	}
}

func TestRecordProgresoOnClosedPartida(t *testing.T) {
	s, _ := newTestGameService()

	partida, _ := s.StartPartida("u1")
	if _, err := s.FinishPartida(partida.ID, models.EstadoCompletado); err != nil {
		t.Fatalf("FinishPartida() error = %v", err)
	}

	if _, err := s.RecordProgreso(partida.ID, "pt1", "a1"); err != ErrPartidaCerrada {
		t.Errorf("RecordProgreso() error = %v, want ErrPartidaCerrada", err)
	}
}
