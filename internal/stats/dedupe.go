package stats

import "gernibide/internal/models"

// DedupeProgresos keeps the single authoritative attempt per
// (partida, actividad) pair: a completed row always outranks an in-progress
// one, and among rows of equal status the later fecha_inicio wins.
// First-seen pair order is preserved.
func DedupeProgresos(rows []models.ProgresoActividad) []models.ProgresoActividad {
	best := make(map[string]models.ProgresoActividad, len(rows))
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		key := row.PartidaID + "|" + row.ActividadID
		current, seen := best[key]
		if !seen {
			best[key] = row
			order = append(order, key)
			continue
		}
		if moreRelevant(row, current) {
			best[key] = row
		}
	}

	out := make([]models.ProgresoActividad, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func moreRelevant(a, b models.ProgresoActividad) bool {
	if a.Completado() != b.Completado() {
		return a.Completado()
	}
	return a.FechaInicio.After(b.FechaInicio)
}
