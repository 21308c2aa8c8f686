package models

import "time"

// Game session states. Abandoned sessions are marked by the cleanup logic,
// never by the statistics layer.
const (
	EstadoEnProgreso = "in_progress"
	EstadoCompletado = "completed"
	EstadoAbandonado = "abandoned"
)

// Partida represents one play-through by one user
type Partida struct {
	ID          string     `json:"id"`
	UsuarioID   string     `json:"usuario_id"`
	FechaInicio time.Time  `json:"fecha_inicio"`
	FechaFin    *time.Time `json:"fecha_fin"`
	// Duracion is whole seconds between fecha_inicio and fecha_fin. Some
	// historical rows carry milliseconds instead; the statistics layer
	// normalises them (see stats.NormalizeDurations).
	Duracion *int64 `json:"duracion"`
	Estado   string `json:"estado"`
}

// Completada reports whether the session finished normally
func (p *Partida) Completada() bool {
	return p.Estado == EstadoCompletado
}
