package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"gernibide/internal/models"
	"gernibide/internal/stats"
)

type stubGameplayStore struct {
	totalPartidas int
	porEstado     map[string]int
}

func (s *stubGameplayStore) CountPartidas() (int, error) { return s.totalPartidas, nil }
func (s *stubGameplayStore) CountPartidasPorEstado(estado string) (int, error) {
	return s.porEstado[estado], nil
}
func (s *stubGameplayStore) CountPartidasEntre(start, end time.Time) (int, error) { return 0, nil }
func (s *stubGameplayStore) CountPartidasCompletadasEntre(start, end time.Time) (int, error) {
	return 0, nil
}
func (s *stubGameplayStore) CountUsuarios() (int, error)                              { return 0, nil }
func (s *stubGameplayStore) CountUsuariosActivos(start, end time.Time) (int, error)   { return 0, nil }
func (s *stubGameplayStore) AvgDuracionPartidas() (float64, int, error)               { return 0, 0, nil }
func (s *stubGameplayStore) AvgDuracionPartidasEntre(start, end time.Time) (float64, int, error) {
	return 0, 0, nil
}
func (s *stubGameplayStore) DiasConPartida(usuarioID string) ([]string, error) { return nil, nil }
func (s *stubGameplayStore) ActividadesMasJugadas(limit int) ([]stats.ActividadJugada, error) {
	return nil, nil
}

func newGameplayHandler(store stats.GameplayStore) *GameplayStatsHandler {
	return NewGameplayStatsHandler(stats.NewGameplayStatsService(store))
}

func TestGameplaySummaryEndpoint(t *testing.T) {
	h := newGameplayHandler(&stubGameplayStore{
		totalPartidas: 10,
		porEstado:     map[string]int{models.EstadoCompletado: 4},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats/gameplay/summary", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["total_partidas"] != float64(10) {
		t.Errorf("total_partidas = %v, want 10", body["total_partidas"])
	}
	if body["tasa_completado"] != float64(40) {
		t.Errorf("tasa_completado = %v, want 40", body["tasa_completado"])
	}
}

func TestTimelineDaysValidation(t *testing.T) {
	h := newGameplayHandler(&stubGameplayStore{})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default", "", http.StatusOK},
		{"valid", "?days=7", http.StatusOK},
		{"zero", "?days=0", http.StatusBadRequest},
		{"too large", "?days=400", http.StatusBadRequest},
		{"not a number", "?days=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stats/gameplay/partidas-timeline"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.PartidasTimeline(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestClearCacheEndpoint(t *testing.T) {
	h := newGameplayHandler(&stubGameplayStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/stats/gameplay/cache/clear", nil)
	rec := httptest.NewRecorder()
	h.ClearCache(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestErrorResponsesAreJSON(t *testing.T) {
	h := newGameplayHandler(&stubGameplayStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/stats/gameplay/partidas-timeline?days=0", nil)
	rec := httptest.NewRecorder()
	h.PartidasTimeline(rec, req)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	if body.Error == "" {
		t.Error("error response has empty error field")
	}
}
