package stats

import (
	"testing"
	"time"

	"gernibide/internal/models"
)

type fakeTeacherStore struct {
	clases      []models.ClaseConAlumnos
	clase       *models.Clase
	alumnos     []models.Usuario
	actividades int
	puntos      []PuntoTotales
	progresos   map[string][]models.ProgresoActividad

	clasesCalls int
}

func (f *fakeTeacherStore) ClasesDeProfesor(profesorID string) ([]models.ClaseConAlumnos, error) {
	f.clasesCalls++
	return f.clases, nil
}

func (f *fakeTeacherStore) Clase(claseID string) (*models.Clase, error) {
	return f.clase, nil
}

func (f *fakeTeacherStore) AlumnosDeClase(claseID string) ([]models.Usuario, error) {
	return f.alumnos, nil
}

func (f *fakeTeacherStore) CountActividades() (int, error) {
	return f.actividades, nil
}

func (f *fakeTeacherStore) PuntosConTotales() ([]PuntoTotales, error) {
	return f.puntos, nil
}

func (f *fakeTeacherStore) ProgresosDeUsuario(usuarioID string) ([]models.ProgresoActividad, error) {
	return f.progresos[usuarioID], nil
}

func newTeacherService(store TeacherStore) *TeacherDashboardService {
	s := NewTeacherDashboardService(store)
	s.now = func() time.Time { return testNow }
	return s
}

func completedAttempt(usuario, partida, punto, actividad string, nota float64) models.ProgresoActividad {
	return models.ProgresoActividad{
		ID:          partida + "-" + actividad,
		PartidaID:   partida,
		PuntoID:     punto,
		ActividadID: actividad,
		UsuarioID:   usuario,
		FechaInicio: testNow.Add(-time.Hour),
		Estado:      models.EstadoCompletado,
		Puntuacion:  &nota,
	}
}

func TestPuntosDeAlumnoEnProgreso(t *testing.T) {
	progresos := make([]models.ProgresoActividad, 0, 4)
	for _, actividad := range []string{"a1", "a2", "a3", "a4"} {
		progresos = append(progresos, completedAttempt("u1", "p1", "pt1", actividad, 8))
	}

	store := &fakeTeacherStore{
		puntos:    []PuntoTotales{{PuntoID: "pt1", Nombre: "Arbol", ActividadesTotales: 10}},
		progresos: map[string][]models.ProgresoActividad{"u1": progresos},
	}
	s := newTeacherService(store)

	got, err := s.PuntosDeAlumno("u1")
	if err != nil {
		t.Fatalf("PuntosDeAlumno() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d puntos, want 1", len(got))
	}

	resumen := got[0]
	if resumen.Estado != EstadoEnProgresoUI {
		t.Errorf("Estado = %s, want %s", resumen.Estado, EstadoEnProgresoUI)
	}
	if resumen.ActividadesCompletadas != 4 {
		t.Errorf("ActividadesCompletadas = %d, want 4", resumen.ActividadesCompletadas)
	}
	if resumen.ActividadesTotales != 10 {
		t.Errorf("ActividadesTotales = %d, want 10", resumen.ActividadesTotales)
	}
}

func TestPuntosDeAlumnoEstados(t *testing.T) {
	store := &fakeTeacherStore{
		puntos: []PuntoTotales{
			{PuntoID: "pt1", Nombre: "Arbol", ActividadesTotales: 2},
			{PuntoID: "pt2", Nombre: "Mercado", ActividadesTotales: 2},
		},
		progresos: map[string][]models.ProgresoActividad{
			"u1": {
				completedAttempt("u1", "p1", "pt1", "a1", 9),
				completedAttempt("u1", "p1", "pt1", "a2", 7),
			},
		},
	}
	s := newTeacherService(store)

	got, err := s.PuntosDeAlumno("u1")
	if err != nil {
		t.Fatalf("PuntosDeAlumno() error = %v", err)
	}
	if got[0].Estado != EstadoCompletadoUI {
		t.Errorf("pt1 Estado = %s, want %s", got[0].Estado, EstadoCompletadoUI)
	}
	if got[1].Estado != EstadoSinEmpezar {
		t.Errorf("pt2 Estado = %s, want %s", got[1].Estado, EstadoSinEmpezar)
	}
}

func TestPuntosDeAlumnoDeduplicatesAttempts(t *testing.T) {
	// Two attempts at the same activity in one partida count once
	store := &fakeTeacherStore{
		puntos: []PuntoTotales{{PuntoID: "pt1", Nombre: "Arbol", ActividadesTotales: 5}},
		progresos: map[string][]models.ProgresoActividad{
			"u1": {
				completedAttempt("u1", "p1", "pt1", "a1", 6),
				completedAttempt("u1", "p1", "pt1", "a1", 9),
			},
		},
	}
	s := newTeacherService(store)

	got, err := s.PuntosDeAlumno("u1")
	if err != nil {
		t.Fatalf("PuntosDeAlumno() error = %v", err)
	}
	if got[0].ActividadesCompletadas != 1 {
		t.Errorf("ActividadesCompletadas = %d, want 1 after de-duplication", got[0].ActividadesCompletadas)
	}
}

func TestAlumnosDeClaseProgresoGlobalDenominator(t *testing.T) {
	// 4 distinct completed activities out of a global catalog of 8: 50%,
	// even though the student's punto only has 4 activities.
	progresos := []models.ProgresoActividad{
		completedAttempt("u1", "p1", "pt1", "a1", 6),
		completedAttempt("u1", "p1", "pt1", "a2", 8),
		completedAttempt("u1", "p2", "pt1", "a3", 10),
		completedAttempt("u1", "p2", "pt1", "a4", 4),
	}
	store := &fakeTeacherStore{
		alumnos:     []models.Usuario{{ID: "u1", Nombre: "Ane"}},
		actividades: 8,
		progresos:   map[string][]models.ProgresoActividad{"u1": progresos},
	}
	s := newTeacherService(store)

	got, err := s.AlumnosDeClase("c1")
	if err != nil {
		t.Fatalf("AlumnosDeClase() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d alumnos, want 1", len(got))
	}

	if got[0].Progreso != 50.0 {
		t.Errorf("Progreso = %v, want 50.0 (global catalog denominator)", got[0].Progreso)
	}
	if got[0].NotaMedia != 7.0 {
		t.Errorf("NotaMedia = %v, want 7.0", got[0].NotaMedia)
	}
	if got[0].UltimaActividad == nil {
		t.Error("UltimaActividad = nil, want timestamp")
	}
}

func TestAlumnosDeClaseProgresoCapped(t *testing.T) {
	// More distinct completions than catalog entries (stale catalog): cap at 100
	progresos := []models.ProgresoActividad{
		completedAttempt("u1", "p1", "pt1", "a1", 6),
		completedAttempt("u1", "p1", "pt1", "a2", 8),
	}
	store := &fakeTeacherStore{
		alumnos:     []models.Usuario{{ID: "u1", Nombre: "Ane"}},
		actividades: 1,
		progresos:   map[string][]models.ProgresoActividad{"u1": progresos},
	}
	s := newTeacherService(store)

	got, err := s.AlumnosDeClase("c1")
	if err != nil {
		t.Fatalf("AlumnosDeClase() error = %v", err)
	}
	if got[0].Progreso != 100.0 {
		t.Errorf("Progreso = %v, want capped 100.0", got[0].Progreso)
	}
}

func TestAlumnosSinActividad(t *testing.T) {
	store := &fakeTeacherStore{
		alumnos:     []models.Usuario{{ID: "u1", Nombre: "Ane"}},
		actividades: 0,
	}
	s := newTeacherService(store)

	got, err := s.AlumnosDeClase("c1")
	if err != nil {
		t.Fatalf("AlumnosDeClase() error = %v", err)
	}
	if got[0].Progreso != 0 || got[0].NotaMedia != 0 {
		t.Errorf("empty student = %+v, want zero metrics", got[0])
	}
	if got[0].UltimaActividad != nil {
		t.Errorf("UltimaActividad = %v, want nil", *got[0].UltimaActividad)
	}
}

func TestResumenClase(t *testing.T) {
	notaA, notaB := 8.0, 6.0
	store := &fakeTeacherStore{
		clase: &models.Clase{ID: "c1", Nombre: "DBH 2A", ProfesorID: "prof1"},
		alumnos: []models.Usuario{
			{ID: "u1", Nombre: "Ane"},
			{ID: "u2", Nombre: "Jon"},
		},
		actividades: 4,
		progresos: map[string][]models.ProgresoActividad{
			"u1": {completedAttempt("u1", "p1", "pt1", "a1", notaA)},
			"u2": {completedAttempt("u2", "p2", "pt1", "a1", notaB)},
		},
	}
	s := newTeacherService(store)

	got, err := s.ResumenClase("c1")
	if err != nil {
		t.Fatalf("ResumenClase() error = %v", err)
	}

	if got.NumAlumnos != 2 {
		t.Errorf("NumAlumnos = %d, want 2", got.NumAlumnos)
	}
	// Each student completed 1 of 4 activities: 25% each
	if got.ProgresoMedio != 25.0 {
		t.Errorf("ProgresoMedio = %v, want 25.0", got.ProgresoMedio)
	}
	if got.NotaMedia != 7.0 {
		t.Errorf("NotaMedia = %v, want 7.0", got.NotaMedia)
	}
}

func TestClasesDeProfesorCached(t *testing.T) {
	store := &fakeTeacherStore{
		clases: []models.ClaseConAlumnos{
			{Clase: models.Clase{ID: "c1", Nombre: "DBH 2A"}, NumAlumnos: 20},
		},
	}
	s := newTeacherService(store)

	for i := 0; i < 2; i++ {
		got, err := s.ClasesDeProfesor("prof1")
		if err != nil {
			t.Fatalf("ClasesDeProfesor() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d clases, want 1", len(got))
		}
	}
	if store.clasesCalls != 1 {
		t.Errorf("store queried %d times within TTL, want 1", store.clasesCalls)
	}
}
