// main is the entry point of the gestao-alunos API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, YAML file and/or environment)
//  2. Initialise the logger
//  3. Open the database and migrate the schema
//  4. Seed the configured courses
//  5. Register all HTTP routes
//  6. Start the HTTP server in a separate goroutine
//  7. Block until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, close the pool
//
// RUNNING THE SERVER:
//
//	go run ./cmd/gestao-alunos --config=config/local.yaml
//
// or, with the configuration in the environment only:
//
//	DATABASE_URL=postgres://... STORAGE_DRIVER=postgres go run ./cmd/gestao-alunos
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/gestao-alunos/internal/config"
	"github.com/aanand-mishra/gestao-alunos/internal/http/router"
	alunoservice "github.com/aanand-mishra/gestao-alunos/internal/service/aluno"
	cursoservice "github.com/aanand-mishra/gestao-alunos/internal/service/curso"
	"github.com/aanand-mishra/gestao-alunos/internal/storage/gormstore"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// The default logger is replaced too, so package-level slog calls in
	// the handlers share the same format and level.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting gestao-alunos",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	store, err := gormstore.New(cfg.Storage, log)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	cursos := cursoservice.New(store)
	alunos := alunoservice.New(store)

	// ── 4. Seed Courses ───────────────────────────────────────────────────
	// FindOrCreate is idempotent, so seeding on every start is harmless.
	for _, nome := range cfg.Seed.Cursos {
		c, err := cursos.FindOrCreate(context.Background(), nome)
		if err != nil {
			log.Error("failed to seed curso",
				slog.String("nome", nome),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Debug("curso seeded", slog.Int64("id", c.ID), slog.String("nome", c.Nome))
	}

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	handler := router.New(router.Deps{
		Cursos:         cursos,
		Alunos:         alunos,
		DB:             store,
		Log:            log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks, so it runs in its own goroutine and main
	// stays free to wait for the shutdown signal.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// dev: human-readable text at DEBUG. staging: JSON at DEBUG. prod: JSON at
// INFO, ready for a log aggregator.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
