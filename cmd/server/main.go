package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gernibide/internal/config"
	"gernibide/internal/database"
	"gernibide/internal/handlers"
	"gernibide/internal/metrics"
	"gernibide/internal/models"
	"gernibide/internal/repository"
	"gernibide/internal/security"
	"gernibide/internal/service"
	"gernibide/internal/stats"
)

// Sessions still in progress after this long are marked abandoned
const staleSessionAge = 6 * time.Hour

func main() {
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Repositories
	usuarioRepo := repository.NewUsuarioRepository(db)
	claseRepo := repository.NewClaseRepository(db)
	puntoRepo := repository.NewPuntoRepository(db)
	partidaRepo := repository.NewPartidaRepository(db)
	progresoRepo := repository.NewProgresoRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	authService := service.NewAuthService(usuarioRepo, emailService, cfg.JWTSecret, cfg.TokenDuration)
	gameService := service.NewGameService(partidaRepo, progresoRepo)

	gameplayStats := stats.NewGameplayStatsService(statsRepo)
	learningStats := stats.NewLearningStatsService(statsRepo)
	teacherStats := stats.NewTeacherDashboardService(statsRepo)

	// Handlers
	limiter := security.NewRateLimiter(30, time.Minute)
	middleware := handlers.NewMiddleware(authService, cfg.APIKeys, limiter)
	authHandler := handlers.NewAuthHandler(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppBaseURL)
	usuarioHandler := handlers.NewUsuarioHandler(usuarioRepo)
	claseHandler := handlers.NewClaseHandler(claseRepo)
	puntoHandler := handlers.NewPuntoHandler(puntoRepo)
	gameHandler := handlers.NewGameHandler(gameService, partidaRepo, progresoRepo)
	gameplayHandler := handlers.NewGameplayStatsHandler(gameplayStats)
	learningHandler := handlers.NewLearningStatsHandler(learningStats)
	teacherHandler := handlers.NewTeacherStatsHandler(teacherStats)

	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /api/auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleCallback)

	// Users
	mux.HandleFunc("GET /api/usuarios", middleware.RequireRole(models.RolAdmin, usuarioHandler.List))
	mux.HandleFunc("GET /api/usuarios/{id}", middleware.RequireAuth(usuarioHandler.Get))
	mux.HandleFunc("PUT /api/usuarios/{id}", middleware.RequireRole(models.RolAdmin, usuarioHandler.Update))
	mux.HandleFunc("DELETE /api/usuarios/{id}", middleware.RequireRole(models.RolAdmin, usuarioHandler.Delete))
	mux.HandleFunc("GET /api/usuarios/{id}/partidas", middleware.RequireAuth(gameHandler.ListPartidasByUsuario))

	// Classes
	mux.HandleFunc("GET /api/clases", middleware.RequireRole(models.RolProfesor, claseHandler.List))
	mux.HandleFunc("POST /api/clases", middleware.RequireRole(models.RolAdmin, claseHandler.Create))
	mux.HandleFunc("GET /api/clases/{id}", middleware.RequireRole(models.RolProfesor, claseHandler.Get))
	mux.HandleFunc("PUT /api/clases/{id}", middleware.RequireRole(models.RolAdmin, claseHandler.Update))
	mux.HandleFunc("DELETE /api/clases/{id}", middleware.RequireRole(models.RolAdmin, claseHandler.Delete))

	// Route catalog
	mux.HandleFunc("GET /api/puntos", middleware.RequireAuth(puntoHandler.ListPuntos))
	mux.HandleFunc("POST /api/puntos", middleware.RequireRole(models.RolAdmin, puntoHandler.CreatePunto))
	mux.HandleFunc("GET /api/puntos/{id}", middleware.RequireAuth(puntoHandler.GetPunto))
	mux.HandleFunc("PUT /api/puntos/{id}", middleware.RequireRole(models.RolAdmin, puntoHandler.UpdatePunto))
	mux.HandleFunc("DELETE /api/puntos/{id}", middleware.RequireRole(models.RolAdmin, puntoHandler.DeletePunto))
	mux.HandleFunc("GET /api/puntos/{id}/actividades", middleware.RequireAuth(puntoHandler.ListActividades))
	mux.HandleFunc("POST /api/puntos/{id}/actividades", middleware.RequireRole(models.RolAdmin, puntoHandler.CreateActividad))
	mux.HandleFunc("PUT /api/actividades/{id}", middleware.RequireRole(models.RolAdmin, puntoHandler.UpdateActividad))
	mux.HandleFunc("DELETE /api/actividades/{id}", middleware.RequireRole(models.RolAdmin, puntoHandler.DeleteActividad))

	// Game sessions and attempts
	mux.HandleFunc("POST /api/partidas", middleware.RequireAuth(gameHandler.StartPartida))
	mux.HandleFunc("GET /api/partidas/{id}", middleware.RequireAuth(gameHandler.GetPartida))
	mux.HandleFunc("POST /api/partidas/{id}/finish", middleware.RequireAuth(gameHandler.FinishPartida))
	mux.HandleFunc("POST /api/partidas/{id}/progreso", middleware.RequireAuth(gameHandler.RecordProgreso))
	mux.HandleFunc("GET /api/partidas/{id}/progreso", middleware.RequireAuth(gameHandler.ListProgresoByPartida))
	mux.HandleFunc("POST /api/progreso/{id}/complete", middleware.RequireAuth(gameHandler.CompleteProgreso))

	// Gameplay statistics
	mux.HandleFunc("GET /api/stats/gameplay/summary", middleware.RequireAuth(gameplayHandler.Summary))
	mux.HandleFunc("GET /api/stats/gameplay/partidas-timeline", middleware.RequireAuth(gameplayHandler.PartidasTimeline))
	mux.HandleFunc("GET /api/stats/gameplay/active-users", middleware.RequireAuth(gameplayHandler.ActiveUsers))
	mux.HandleFunc("GET /api/stats/gameplay/duration-timeline", middleware.RequireAuth(gameplayHandler.DurationTimeline))
	mux.HandleFunc("GET /api/stats/gameplay/most-played", middleware.RequireAuth(gameplayHandler.MostPlayed))
	mux.HandleFunc("GET /api/stats/gameplay/streak/{id}", middleware.RequireAuth(gameplayHandler.Streak))
	mux.HandleFunc("POST /api/stats/gameplay/cache/clear", middleware.RequireRole(models.RolAdmin, gameplayHandler.ClearCache))

	// Learning statistics
	mux.HandleFunc("GET /api/stats/learning/summary", middleware.RequireAuth(learningHandler.Summary))
	mux.HandleFunc("GET /api/stats/learning/score-distribution", middleware.RequireAuth(learningHandler.ScoreDistribution))
	mux.HandleFunc("GET /api/stats/learning/top-activities", middleware.RequireAuth(learningHandler.TopActivities))
	mux.HandleFunc("GET /api/stats/learning/completion-by-point", middleware.RequireAuth(learningHandler.CompletionByPoint))
	mux.HandleFunc("GET /api/stats/learning/time-boxplot", middleware.RequireAuth(learningHandler.TimeBoxplot))
	mux.HandleFunc("GET /api/stats/learning/progress-timeline", middleware.RequireAuth(learningHandler.ProgressTimeline))
	mux.HandleFunc("POST /api/stats/learning/cache/clear", middleware.RequireRole(models.RolAdmin, learningHandler.ClearCache))

	// Teacher dashboard
	mux.HandleFunc("GET /api/stats/teacher/classes", middleware.RequireRole(models.RolProfesor, teacherHandler.Classes))
	mux.HandleFunc("GET /api/stats/teacher/classes/{id}/summary", middleware.RequireRole(models.RolProfesor, teacherHandler.ClassSummary))
	mux.HandleFunc("GET /api/stats/teacher/classes/{id}/students", middleware.RequireRole(models.RolProfesor, teacherHandler.ClassStudents))
	mux.HandleFunc("GET /api/stats/teacher/students/{id}/points", middleware.RequireRole(models.RolProfesor, teacherHandler.StudentPoints))
	mux.HandleFunc("POST /api/stats/teacher/cache/clear", middleware.RequireRole(models.RolAdmin, teacherHandler.ClearCache))

	handler := handlers.Logging(handlers.Instrument(mux))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go abandonStaleSessions(partidaRepo)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// abandonStaleSessions periodically marks long-idle in-progress sessions as
// abandoned so the completion-rate metrics stay honest
func abandonStaleSessions(partidaRepo *repository.PartidaRepository) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		n, err := partidaRepo.AbandonStale(time.Now().Add(-staleSessionAge))
		if err != nil {
			log.Printf("Error abandoning stale partidas: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("Marked %d stale partidas as abandoned", n)
		}
	}
}
