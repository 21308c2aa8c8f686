package models

import "time"

// ProgresoActividad is one attempt at an activity within a game session.
// Multiple attempts per (partida, actividad) may exist; the statistics layer
// keeps only the most relevant one (completed beats in-progress, later start
// wins ties).
type ProgresoActividad struct {
	ID          string     `json:"id"`
	PartidaID   string     `json:"partida_id"`
	PuntoID     string     `json:"punto_id"`
	ActividadID string     `json:"actividad_id"`
	UsuarioID   string     `json:"usuario_id"`
	FechaInicio time.Time  `json:"fecha_inicio"`
	FechaFin    *time.Time `json:"fecha_fin"`
	Duracion    *int64     `json:"duracion"`
	Estado      string     `json:"estado"`
	Puntuacion  *float64   `json:"puntuacion"`
	Respuesta   *string    `json:"respuesta"`
}

// Completado reports whether the attempt was finished
func (p *ProgresoActividad) Completado() bool {
	return p.Estado == EstadoCompletado
}
