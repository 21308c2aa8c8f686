package stats

import (
	"fmt"
	"sort"
	"time"

	"gernibide/internal/cache"
	"gernibide/internal/models"
)

// Minimum sample sizes before an aggregate is considered meaningful enough
// to display.
const (
	minIntentosRanking  = 3
	minRegistrosBoxplot = 5
)

// LearningResumen is the single-row learning dashboard summary
type LearningResumen struct {
	TotalActividades       int     `json:"total_actividades"`
	ActividadesCompletadas int     `json:"actividades_completadas"`
	ActividadesEnProgreso  int     `json:"actividades_en_progreso"`
	NotaMedia              float64 `json:"nota_media"`
	TasaCompletado         float64 `json:"tasa_completado"`
}

// ScoreDistribution returns raw per-attempt scores so the frontend can bin
// them freely
type ScoreDistribution struct {
	Scores []float64 `json:"scores"`
	Mean   float64   `json:"mean"`
}

// ActividadNota is one entry of the highest-scoring ranking
type ActividadNota struct {
	ActividadID string  `json:"actividad_id"`
	Nombre      string  `json:"nombre"`
	Punto       string  `json:"punto"`
	Intentos    int     `json:"intentos"`
	NotaMedia   float64 `json:"nota_media"`
}

// PuntoCompletado is the completion rate of one punto
type PuntoCompletado struct {
	PuntoID     string  `json:"punto_id"`
	Nombre      string  `json:"nombre"`
	Total       int     `json:"total"`
	Completadas int     `json:"completadas"`
	Tasa        float64 `json:"tasa"`
}

// PuntoTiempos holds raw per-punto duration arrays (minutes) for boxplots
type PuntoTiempos struct {
	Puntos         []string    `json:"puntos"`
	TiemposMinutos [][]float64 `json:"tiempos_minutos"`
}

// ProgresoTimeline holds per-day attempt counts, oldest first
type ProgresoTimeline struct {
	Dates       []string `json:"dates"`
	Iniciadas   []int    `json:"iniciadas"`
	Completadas []int    `json:"completadas"`
}

// LearningStatsService computes activity/score metrics for the learning
// dashboard, memoised for five minutes per metric+parameters key.
type LearningStatsService struct {
	store LearningStore
	cache *cache.Cache
	now   func() time.Time
}

// NewLearningStatsService creates the learning statistics service
func NewLearningStatsService(store LearningStore) *LearningStatsService {
	return &LearningStatsService{
		store: store,
		cache: cache.New("learning", learningTTL),
		now:   time.Now,
	}
}

// Resumen returns the learning summary counters
func (s *LearningStatsService) Resumen() (LearningResumen, error) {
	return cache.GetOrCompute(s.cache, "learning_summary", 0, func() (LearningResumen, error) {
		var r LearningResumen
		var err error

		if r.TotalActividades, err = s.store.CountActividades(); err != nil {
			return r, err
		}
		if r.ActividadesCompletadas, err = s.store.CountProgresosPorEstado(models.EstadoCompletado); err != nil {
			return r, err
		}
		if r.ActividadesEnProgreso, err = s.store.CountProgresosPorEstado(models.EstadoEnProgreso); err != nil {
			return r, err
		}

		total, err := s.store.CountProgresos()
		if err != nil {
			return r, err
		}
		r.TasaCompletado = pct(float64(r.ActividadesCompletadas), float64(total))

		scores, err := s.store.PuntuacionesCompletadas()
		if err != nil {
			return r, err
		}
		r.NotaMedia = round2(mean(scores))

		return r, nil
	})
}

// DistribucionNotas returns every completed attempt's score plus the mean
func (s *LearningStatsService) DistribucionNotas() (ScoreDistribution, error) {
	return cache.GetOrCompute(s.cache, "score_distribution", 0, func() (ScoreDistribution, error) {
		scores, err := s.store.PuntuacionesCompletadas()
		if err != nil {
			return ScoreDistribution{}, err
		}
		if scores == nil {
			scores = []float64{}
		}
		return ScoreDistribution{
			Scores: scores,
			Mean:   round1(mean(scores)),
		}, nil
	})
}

// MejoresActividades ranks activities by average score. Activities with
// fewer than three completed attempts are excluded: a 10.0 average over one
// attempt is noise, not signal.
func (s *LearningStatsService) MejoresActividades(limit int) ([]ActividadNota, error) {
	key := fmt.Sprintf("top_activities_%d", limit)
	return cache.GetOrCompute(s.cache, key, 0, func() ([]ActividadNota, error) {
		rows, err := s.store.NotasPorActividad()
		if err != nil {
			return nil, err
		}

		eligible := make([]ActividadNota, 0, len(rows))
		for _, row := range rows {
			if row.Intentos >= minIntentosRanking {
				row.NotaMedia = round2(row.NotaMedia)
				eligible = append(eligible, row)
			}
		}

		sort.SliceStable(eligible, func(i, j int) bool {
			if eligible[i].NotaMedia != eligible[j].NotaMedia {
				return eligible[i].NotaMedia > eligible[j].NotaMedia
			}
			return eligible[i].Intentos > eligible[j].Intentos
		})

		if len(eligible) > limit {
			eligible = eligible[:limit]
		}
		return eligible, nil
	})
}

// TasaCompletadoPorPunto returns each punto's completion rate
func (s *LearningStatsService) TasaCompletadoPorPunto() ([]PuntoCompletado, error) {
	return cache.GetOrCompute(s.cache, "completion_by_point", 0, func() ([]PuntoCompletado, error) {
		rows, err := s.store.CompletadoPorPunto()
		if err != nil {
			return nil, err
		}
		out := make([]PuntoCompletado, 0, len(rows))
		for _, row := range rows {
			row.Tasa = pct(float64(row.Completadas), float64(row.Total))
			out = append(out, row)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Tasa > out[j].Tasa })
		return out, nil
	})
}

// BoxplotTiempoPorPunto returns raw per-punto duration arrays in minutes.
// Puntos with fewer than five qualifying attempts are dropped; a boxplot
// over four values is meaningless.
func (s *LearningStatsService) BoxplotTiempoPorPunto() (PuntoTiempos, error) {
	return cache.GetOrCompute(s.cache, "time_boxplot_by_point", 0, func() (PuntoTiempos, error) {
		rows, err := s.store.DuracionesPorPunto()
		if err != nil {
			return PuntoTiempos{}, err
		}

		grouped := make(map[string][]float64)
		names := make([]string, 0)
		for _, row := range rows {
			if _, seen := grouped[row.Punto]; !seen {
				names = append(names, row.Punto)
			}
			grouped[row.Punto] = append(grouped[row.Punto], row.Duracion)
		}
		sort.Strings(names)

		result := PuntoTiempos{
			Puntos:         []string{},
			TiemposMinutos: [][]float64{},
		}
		for _, name := range names {
			durations := grouped[name]
			if len(durations) < minRegistrosBoxplot {
				continue
			}
			minutes := make([]float64, 0, len(durations))
			for _, seconds := range NormalizeDurations(durations) {
				minutes = append(minutes, secondsToMinutes(seconds))
			}
			result.Puntos = append(result.Puntos, name)
			result.TiemposMinutos = append(result.TiemposMinutos, minutes)
		}
		return result, nil
	})
}

// ProgresoPorDia returns per-day attempt counts for the trailing window
func (s *LearningStatsService) ProgresoPorDia(days int) (ProgresoTimeline, error) {
	key := fmt.Sprintf("progress_by_day_%d", days)
	return cache.GetOrCompute(s.cache, key, 0, func() (ProgresoTimeline, error) {
		t := ProgresoTimeline{
			Dates:       make([]string, 0, days),
			Iniciadas:   make([]int, 0, days),
			Completadas: make([]int, 0, days),
		}
		err := forEachDay(days, s.now(), func(date string, start, end time.Time) error {
			iniciadas, err := s.store.CountProgresosEntre(start, end)
			if err != nil {
				return err
			}
			completadas, err := s.store.CountProgresosCompletadosEntre(start, end)
			if err != nil {
				return err
			}
			t.Dates = append(t.Dates, date)
			t.Iniciadas = append(t.Iniciadas, iniciadas)
			t.Completadas = append(t.Completadas, completadas)
			return nil
		})
		return t, err
	})
}

// ClearCache drops every cached learning metric
func (s *LearningStatsService) ClearCache() {
	s.cache.Clear()
}

// mean averages a slice, returning 0 for empty input
func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return ratio(sum, float64(len(vals)))
}
