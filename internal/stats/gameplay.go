package stats

import (
	"fmt"
	"time"

	"gernibide/internal/cache"
	"gernibide/internal/models"
)

// GameplayResumen is the single-row gameplay dashboard summary
type GameplayResumen struct {
	TotalPartidas        int     `json:"total_partidas"`
	PartidasCompletadas  int     `json:"partidas_completadas"`
	PartidasAbandonadas  int     `json:"partidas_abandonadas"`
	PartidasEnProgreso   int     `json:"partidas_en_progreso"`
	TasaCompletado       float64 `json:"tasa_completado"`
	DuracionMediaMinutos float64 `json:"duracion_media_minutos"`
	TotalUsuarios        int     `json:"total_usuarios"`
	UsuariosActivosHoy   int     `json:"usuarios_activos_hoy"`
}

// PartidasTimeline holds parallel per-day arrays, oldest first
type PartidasTimeline struct {
	Dates       []string `json:"dates"`
	Partidas    []int    `json:"partidas"`
	Completadas []int    `json:"completadas"`
}

// ActiveUsersTimeline holds the daily/weekly/monthly active user series
type ActiveUsersTimeline struct {
	Dates []string `json:"dates"`
	DAU   []int    `json:"dau"`
	WAU   []int    `json:"wau"`
	MAU   []int    `json:"mau"`
}

// DuracionTimeline holds the per-day average session length in minutes
type DuracionTimeline struct {
	Dates   []string  `json:"dates"`
	Minutos []float64 `json:"minutos"`
}

// ActividadJugada is one entry of the most-played ranking
type ActividadJugada struct {
	ActividadID string `json:"actividad_id"`
	Nombre      string `json:"nombre"`
	Punto       string `json:"punto"`
	Jugadas     int    `json:"jugadas"`
}

// RachaUsuario reports a user's consecutive-day play streak ending today
type RachaUsuario struct {
	UsuarioID string `json:"usuario_id"`
	RachaDias int    `json:"racha_dias"`
}

// GameplayStatsService computes play-session metrics for the global
// dashboard, memoised for five minutes per metric+parameters key.
type GameplayStatsService struct {
	store GameplayStore
	cache *cache.Cache
	now   func() time.Time
}

// NewGameplayStatsService creates the gameplay statistics service
func NewGameplayStatsService(store GameplayStore) *GameplayStatsService {
	return &GameplayStatsService{
		store: store,
		cache: cache.New("gameplay", gameplayTTL),
		now:   time.Now,
	}
}

// Resumen returns the gameplay summary counters
func (s *GameplayStatsService) Resumen() (GameplayResumen, error) {
	return cache.GetOrCompute(s.cache, "gameplay_summary", 0, func() (GameplayResumen, error) {
		var r GameplayResumen
		var err error

		if r.TotalPartidas, err = s.store.CountPartidas(); err != nil {
			return r, err
		}
		if r.PartidasCompletadas, err = s.store.CountPartidasPorEstado(models.EstadoCompletado); err != nil {
			return r, err
		}
		if r.PartidasAbandonadas, err = s.store.CountPartidasPorEstado(models.EstadoAbandonado); err != nil {
			return r, err
		}
		if r.PartidasEnProgreso, err = s.store.CountPartidasPorEstado(models.EstadoEnProgreso); err != nil {
			return r, err
		}
		r.TasaCompletado = pct(float64(r.PartidasCompletadas), float64(r.TotalPartidas))

		avg, n, err := s.store.AvgDuracionPartidas()
		if err != nil {
			return r, err
		}
		if n > 0 {
			r.DuracionMediaMinutos = secondsToMinutes(normalizeSeconds(avg))
		}

		if r.TotalUsuarios, err = s.store.CountUsuarios(); err != nil {
			return r, err
		}

		today := midnight(s.now())
		if r.UsuariosActivosHoy, err = s.store.CountUsuariosActivos(today, today.AddDate(0, 0, 1)); err != nil {
			return r, err
		}

		return r, nil
	})
}

// PartidasPorDia returns the session-count timeline for the trailing window
func (s *GameplayStatsService) PartidasPorDia(days int) (PartidasTimeline, error) {
	key := fmt.Sprintf("partidas_by_day_%d", days)
	return cache.GetOrCompute(s.cache, key, 0, func() (PartidasTimeline, error) {
		t := PartidasTimeline{
			Dates:       make([]string, 0, days),
			Partidas:    make([]int, 0, days),
			Completadas: make([]int, 0, days),
		}
		err := forEachDay(days, s.now(), func(date string, start, end time.Time) error {
			total, err := s.store.CountPartidasEntre(start, end)
			if err != nil {
				return err
			}
			completadas, err := s.store.CountPartidasCompletadasEntre(start, end)
			if err != nil {
				return err
			}
			t.Dates = append(t.Dates, date)
			t.Partidas = append(t.Partidas, total)
			t.Completadas = append(t.Completadas, completadas)
			return nil
		})
		return t, err
	})
}

// UsuariosActivos returns the DAU/WAU/MAU timeline for the trailing window
func (s *GameplayStatsService) UsuariosActivos(days int) (ActiveUsersTimeline, error) {
	key := fmt.Sprintf("active_users_%d", days)
	return cache.GetOrCompute(s.cache, key, 0, func() (ActiveUsersTimeline, error) {
		t := ActiveUsersTimeline{
			Dates: make([]string, 0, days),
			DAU:   make([]int, 0, days),
			WAU:   make([]int, 0, days),
			MAU:   make([]int, 0, days),
		}
		err := forEachDay(days, s.now(), func(date string, start, end time.Time) error {
			dau, err := s.store.CountUsuariosActivos(start, end)
			if err != nil {
				return err
			}
			wau, err := s.store.CountUsuariosActivos(windowStart(start, 7), end)
			if err != nil {
				return err
			}
			mau, err := s.store.CountUsuariosActivos(windowStart(start, 30), end)
			if err != nil {
				return err
			}
			t.Dates = append(t.Dates, date)
			t.DAU = append(t.DAU, dau)
			t.WAU = append(t.WAU, wau)
			t.MAU = append(t.MAU, mau)
			return nil
		})
		return t, err
	})
}

// DuracionPorDia returns the average session length per day, in minutes
func (s *GameplayStatsService) DuracionPorDia(days int) (DuracionTimeline, error) {
	key := fmt.Sprintf("duration_by_day_%d", days)
	return cache.GetOrCompute(s.cache, key, 0, func() (DuracionTimeline, error) {
		t := DuracionTimeline{
			Dates:   make([]string, 0, days),
			Minutos: make([]float64, 0, days),
		}
		avgs := make([]float64, 0, days)
		err := forEachDay(days, s.now(), func(date string, start, end time.Time) error {
			avg, n, err := s.store.AvgDuracionPartidasEntre(start, end)
			if err != nil {
				return err
			}
			if n == 0 {
				avg = 0
			}
			t.Dates = append(t.Dates, date)
			avgs = append(avgs, avg)
			return nil
		})
		if err != nil {
			return t, err
		}
		for _, seconds := range NormalizeDurations(avgs) {
			t.Minutos = append(t.Minutos, secondsToMinutes(seconds))
		}
		return t, nil
	})
}

// ActividadesMasJugadas returns the top activities by attempt count
func (s *GameplayStatsService) ActividadesMasJugadas(limit int) ([]ActividadJugada, error) {
	key := fmt.Sprintf("most_played_%d", limit)
	return cache.GetOrCompute(s.cache, key, 0, func() ([]ActividadJugada, error) {
		ranking, err := s.store.ActividadesMasJugadas(limit)
		if err != nil {
			return nil, err
		}
		if ranking == nil {
			ranking = []ActividadJugada{}
		}
		return ranking, nil
	})
}

// RachaDias returns the user's consecutive-day streak ending today
func (s *GameplayStatsService) RachaDias(usuarioID string) (RachaUsuario, error) {
	key := "racha_" + usuarioID
	return cache.GetOrCompute(s.cache, key, 0, func() (RachaUsuario, error) {
		dates, err := s.store.DiasConPartida(usuarioID)
		if err != nil {
			return RachaUsuario{}, err
		}
		return RachaUsuario{
			UsuarioID: usuarioID,
			RachaDias: streakDays(dates, s.now()),
		}, nil
	})
}

// ClearCache drops every cached gameplay metric
func (s *GameplayStatsService) ClearCache() {
	s.cache.Clear()
}
