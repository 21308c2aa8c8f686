package models

// Punto is a named location/module grouping one or more activities
type Punto struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Orden       int    `json:"orden"`
}

// Actividad is a unit of work belonging to exactly one punto
type Actividad struct {
	ID      string `json:"id"`
	PuntoID string `json:"punto_id"`
	Nombre  string `json:"nombre"`
	Tipo    string `json:"tipo"`
	Orden   int    `json:"orden"`
}
