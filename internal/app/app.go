package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/stridelab/metronome/internal/config"
	"github.com/stridelab/metronome/internal/db"
	"github.com/stridelab/metronome/internal/repository"
	"github.com/stridelab/metronome/internal/service"
)

type App struct {
	Cfg *config.Config
	DB  *sqlx.DB // nil when running on the in-memory store

	AuthCodeRepository    repository.AuthCodeRepository
	EntitlementRepository repository.EntitlementRepository
	ProfileRepository     repository.ProfileRepository
	SessionRepository     repository.SessionRepository

	AuthService        *service.AuthService
	EntitlementService *service.EntitlementService
	TokenService       *service.TokenService
	EmailService       *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	// Storage backend selection happens once here: persistent if reachable,
	// in-memory only when explicitly permitted for development.
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		if !cfg.DevAllowMemory {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		slog.Warn("database unreachable, using in-memory store", "error", err)
		a.AuthCodeRepository = repository.NewMemoryAuthCodeRepository()
		a.EntitlementRepository = repository.NewMemoryEntitlementRepository()
		a.ProfileRepository = repository.NewMemoryProfileRepository()
		a.SessionRepository = repository.NewMemorySessionRepository()
	} else {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.DB = database
		a.AuthCodeRepository = repository.NewAuthCodeRepository(database)
		a.EntitlementRepository = repository.NewEntitlementRepository(database)
		a.ProfileRepository = repository.NewProfileRepository(database)
		a.SessionRepository = repository.NewSessionRepository(database)
	}

	// Services
	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	a.TokenService = service.NewTokenService(
		cfg.JWTSecret,
		cfg.JWTIssuer,
		cfg.JWTAudience,
		cfg.JWTExpiry,
	)
	a.EntitlementService = service.NewEntitlementService(a.EntitlementRepository)
	a.AuthService = service.NewAuthService(
		a.AuthCodeRepository,
		a.EntitlementService,
		a.TokenService,
		a.EmailService,
		cfg.AuthCodeExpiry,
		cfg.DebugAuthCodes,
	)

	return a, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
