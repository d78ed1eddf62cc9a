// main is the entry point of the enrollment application.
//
// STARTUP SEQUENCE:
//  1. Load configuration (optional YAML file, environment variables)
//  2. Initialise the logger
//  3. Open (and set up) the SQLite backing store
//  4. Build the repository: load persisted state or bootstrap
//  5. Wire the services and run the interactive console loop
//
// RUNNING:
//
//	go run ./cmd/enrollment
//
// or with explicit configuration:
//
//	STORAGE_PATH=data/enrollment.db go run ./cmd/enrollment
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/kmitl-se/enrollment/internal/config"
	"github.com/kmitl-se/enrollment/internal/repository"
	"github.com/kmitl-se/enrollment/internal/service"
	"github.com/kmitl-se/enrollment/internal/storage/sqlite"
	"github.com/kmitl-se/enrollment/internal/ui"
)

func main() {
	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	log.Info("starting enrollment system",
		slog.String("env", cfg.Env),
		slog.String("storage_path", cfg.StoragePath))

	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	repo, err := repository.New(store, log)
	if err != nil {
		log.Error("failed to initialise repository", slog.String("error", err.Error()))
		os.Exit(1)
	}

	session := service.NewSession()
	auth := service.NewAuth(repo, session, log)
	students := service.NewStudent(repo, session)
	admin := service.NewAdmin(repo, log)
	registration := service.NewRegistration(repo, log)

	// Every mutation persists synchronously, so there is nothing to
	// flush on the way out: when Run returns we simply exit.
	ui.New(auth, session, students, admin, registration).Run()

	log.Info("enrollment system stopped")
}

// setupLogger returns a *slog.Logger configured for the given
// environment: human-readable text at debug level for development,
// JSON at info level for production.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
