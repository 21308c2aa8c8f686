package database

import (
	"os"
	"testing"
	"time"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_integration.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tables := []string{"clases", "usuarios", "puntos", "actividades", "partidas", "progreso_actividades"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running migrations again must be a no-op
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_transactions.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Test successful transaction
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	now := time.Now()
	_, err = tx.Exec("INSERT INTO usuarios (id, email, password_hash, nombre, rol, fecha_registro, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"u-1", "test@example.com", "hashedpass", "Test", "alumno", now, now)
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM usuarios WHERE email = ?", "test@example.com").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 usuario, got %d", count)
	}

	// Test rollback
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}

	_, err = tx2.Exec("INSERT INTO usuarios (id, email, password_hash, nombre, rol, fecha_registro, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"u-2", "test2@example.com", "hashedpass", "Test2", "alumno", now, now)
	if err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}

	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM usuarios WHERE email = ?", "test2@example.com").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 usuarios after rollback, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_concurrent.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	now := time.Now()
	_, err = db.Exec("INSERT INTO usuarios (id, email, password_hash, nombre, rol, fecha_registro, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"u-concurrent", "concurrent@example.com", "hashedpass", "Concurrent", "alumno", now, now)
	if err != nil {
		t.Fatalf("Failed to create test usuario: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			var nombre string
			err := db.QueryRow("SELECT nombre FROM usuarios WHERE email = ?", "concurrent@example.com").Scan(&nombre)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if nombre != "Concurrent" {
				t.Errorf("Expected nombre 'Concurrent', got '%s'", nombre)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
