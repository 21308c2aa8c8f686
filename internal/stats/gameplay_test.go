package stats

import (
	"testing"
	"time"

	"gernibide/internal/models"
)

type rango struct {
	start, end time.Time
}

type fakeGameplayStore struct {
	totalPartidas     int
	porEstado         map[string]int
	usuarios          int
	activosPorRango   func(start, end time.Time) int
	avgDuracion       float64
	avgDuracionN      int
	partidasPorDia    map[string]int
	completadasPorDia map[string]int
	dias              []string
	ranking           []ActividadJugada

	countPartidasCalls int
	activosRangos      []rango
}

func (f *fakeGameplayStore) CountPartidas() (int, error) {
	f.countPartidasCalls++
	return f.totalPartidas, nil
}

func (f *fakeGameplayStore) CountPartidasPorEstado(estado string) (int, error) {
	return f.porEstado[estado], nil
}

func (f *fakeGameplayStore) CountPartidasEntre(start, end time.Time) (int, error) {
	return f.partidasPorDia[start.Format(isoDate)], nil
}

func (f *fakeGameplayStore) CountPartidasCompletadasEntre(start, end time.Time) (int, error) {
	return f.completadasPorDia[start.Format(isoDate)], nil
}

func (f *fakeGameplayStore) CountUsuarios() (int, error) {
	return f.usuarios, nil
}

func (f *fakeGameplayStore) CountUsuariosActivos(start, end time.Time) (int, error) {
	f.activosRangos = append(f.activosRangos, rango{start, end})
	if f.activosPorRango == nil {
		return 0, nil
	}
	return f.activosPorRango(start, end), nil
}

func (f *fakeGameplayStore) AvgDuracionPartidas() (float64, int, error) {
	return f.avgDuracion, f.avgDuracionN, nil
}

func (f *fakeGameplayStore) AvgDuracionPartidasEntre(start, end time.Time) (float64, int, error) {
	return f.avgDuracion, f.avgDuracionN, nil
}

func (f *fakeGameplayStore) DiasConPartida(usuarioID string) ([]string, error) {
	return f.dias, nil
}

func (f *fakeGameplayStore) ActividadesMasJugadas(limit int) ([]ActividadJugada, error) {
	if len(f.ranking) > limit {
		return f.ranking[:limit], nil
	}
	return f.ranking, nil
}

func newGameplayService(store GameplayStore, now time.Time) *GameplayStatsService {
	s := NewGameplayStatsService(store)
	s.now = func() time.Time { return now }
	return s
}

var testNow = time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)

func TestGameplayResumenEmptyDatabase(t *testing.T) {
	s := newGameplayService(&fakeGameplayStore{}, testNow)

	got, err := s.Resumen()
	if err != nil {
		t.Fatalf("Resumen() error = %v", err)
	}

	if got.TasaCompletado != 0 {
		t.Errorf("TasaCompletado = %v, want 0 for empty database", got.TasaCompletado)
	}
	if got.DuracionMediaMinutos != 0 {
		t.Errorf("DuracionMediaMinutos = %v, want 0 for empty database", got.DuracionMediaMinutos)
	}
}

func TestGameplayResumen(t *testing.T) {
	store := &fakeGameplayStore{
		totalPartidas: 10,
		porEstado: map[string]int{
			models.EstadoCompletado: 4,
			models.EstadoAbandonado: 2,
			models.EstadoEnProgreso: 4,
		},
		usuarios:     7,
		avgDuracion:  90,
		avgDuracionN: 4,
	}
	s := newGameplayService(store, testNow)

	got, err := s.Resumen()
	if err != nil {
		t.Fatalf("Resumen() error = %v", err)
	}

	if got.TasaCompletado != 40.0 {
		t.Errorf("TasaCompletado = %v, want 40.0", got.TasaCompletado)
	}
	if got.DuracionMediaMinutos != 1.5 {
		t.Errorf("DuracionMediaMinutos = %v, want 1.5", got.DuracionMediaMinutos)
	}
	if got.TotalUsuarios != 7 {
		t.Errorf("TotalUsuarios = %v, want 7", got.TotalUsuarios)
	}
}

func TestGameplayResumenMillisecondRows(t *testing.T) {
	// Historical rows stored milliseconds; 90000 must read as 90s = 1.5min
	store := &fakeGameplayStore{avgDuracion: 90000, avgDuracionN: 3}
	s := newGameplayService(store, testNow)

	got, err := s.Resumen()
	if err != nil {
		t.Fatalf("Resumen() error = %v", err)
	}
	if got.DuracionMediaMinutos != 1.5 {
		t.Errorf("DuracionMediaMinutos = %v, want 1.5 after ms normalisation", got.DuracionMediaMinutos)
	}
}

func TestGameplayResumenCached(t *testing.T) {
	store := &fakeGameplayStore{totalPartidas: 3}
	s := newGameplayService(store, testNow)

	for i := 0; i < 3; i++ {
		if _, err := s.Resumen(); err != nil {
			t.Fatalf("Resumen() error = %v", err)
		}
	}
	if store.countPartidasCalls != 1 {
		t.Errorf("store queried %d times within TTL, want 1", store.countPartidasCalls)
	}

	s.ClearCache()
	if _, err := s.Resumen(); err != nil {
		t.Fatalf("Resumen() error = %v", err)
	}
	if store.countPartidasCalls != 2 {
		t.Errorf("store queried %d times after ClearCache, want 2", store.countPartidasCalls)
	}
}

func TestPartidasPorDia(t *testing.T) {
	store := &fakeGameplayStore{
		partidasPorDia:    map[string]int{"2024-01-11": 5, "2024-01-10": 2},
		completadasPorDia: map[string]int{"2024-01-11": 3},
	}
	s := newGameplayService(store, testNow)

	got, err := s.PartidasPorDia(3)
	if err != nil {
		t.Fatalf("PartidasPorDia() error = %v", err)
	}

	wantDates := []string{"2024-01-09", "2024-01-10", "2024-01-11"}
	wantPartidas := []int{0, 2, 5}
	wantCompletadas := []int{0, 0, 3}
	for i := range wantDates {
		if got.Dates[i] != wantDates[i] {
			t.Errorf("Dates[%d] = %s, want %s", i, got.Dates[i], wantDates[i])
		}
		if got.Partidas[i] != wantPartidas[i] {
			t.Errorf("Partidas[%d] = %d, want %d", i, got.Partidas[i], wantPartidas[i])
		}
		if got.Completadas[i] != wantCompletadas[i] {
			t.Errorf("Completadas[%d] = %d, want %d", i, got.Completadas[i], wantCompletadas[i])
		}
	}
}

func TestUsuariosActivosWindows(t *testing.T) {
	store := &fakeGameplayStore{}
	s := newGameplayService(store, testNow)

	got, err := s.UsuariosActivos(1)
	if err != nil {
		t.Fatalf("UsuariosActivos() error = %v", err)
	}
	if len(got.Dates) != 1 || len(got.DAU) != 1 || len(got.WAU) != 1 || len(got.MAU) != 1 {
		t.Fatalf("UsuariosActivos(1) arrays not parallel: %+v", got)
	}

	if len(store.activosRangos) != 3 {
		t.Fatalf("store queried %d times, want 3 (dau, wau, mau)", len(store.activosRangos))
	}

	wantSpans := []time.Duration{
		24 * time.Hour,      // DAU
		7 * 24 * time.Hour,  // WAU
		30 * 24 * time.Hour, // MAU
	}
	for i, r := range store.activosRangos {
		if span := r.end.Sub(r.start); span != wantSpans[i] {
			t.Errorf("query %d window = %s, want %s", i, span, wantSpans[i])
		}
		if !r.end.Equal(midnight(testNow).AddDate(0, 0, 1)) {
			t.Errorf("query %d upper bound = %s, want end of today", i, r.end)
		}
	}
}

func TestRachaDias(t *testing.T) {
	tests := []struct {
		name string
		dias []string
		want int
	}{
		{"played yesterday and today", []string{"2024-01-11", "2024-01-10"}, 2},
		{"last played yesterday", []string{"2024-01-10"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newGameplayService(&fakeGameplayStore{dias: tt.dias}, testNow)
			got, err := s.RachaDias("u1")
			if err != nil {
				t.Fatalf("RachaDias() error = %v", err)
			}
			if got.RachaDias != tt.want {
				t.Errorf("RachaDias = %d, want %d", got.RachaDias, tt.want)
			}
		})
	}
}
