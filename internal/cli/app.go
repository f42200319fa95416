// Package cli wires the dependencies shared by the command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/popframe/internal/application/usecase"
	"github.com/bnema/popframe/internal/cli/styles"
	"github.com/bnema/popframe/internal/domain/build"
	"github.com/bnema/popframe/internal/infrastructure/config"
	"github.com/bnema/popframe/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/popframe/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	db        *sqlite.LazyDB

	// Use cases
	TilingKeysUC *usecase.ManageTilingKeysUseCase

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// NewApp loads configuration and prepares the preference store. The
// database is opened on first use.
func NewApp(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Commands print styled output on stdout, so stderr logging stays
	// quiet unless asked for.
	logLevel := "warn"
	if envLevel := os.Getenv("POPFRAME_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(logLevel),
		Format:     "console",
		TimeFormat: "15:04:05",
	})
	ctx = logging.WithContext(ctx, logger)

	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		logger.Warn().Err(err).Msg("failed to load config, using defaults")
	}
	cfg := mgr.Get()

	dbFile := cfg.Database.Path
	if dbFile == "" {
		if dbFile, err = config.GetDatabaseFile(); err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}
	db := sqlite.NewLazyDB(dbFile)

	return &App{
		Config:       cfg,
		ConfigMgr:    mgr,
		Theme:        styles.NewTheme(),
		db:           db,
		TilingKeysUC: usecase.NewManageTilingKeysUseCase(sqlite.NewPreferenceRepository(db)),
		ctx:          ctx,
	}, nil
}

// LogToFile sends logs to a rotating file in the configured log
// directory, at the configured level. It returns the file path.
func (a *App) LogToFile(baseName string) (string, error) {
	rotator, err := logging.NewLogRotator(a.Config.Logging.LogDir, baseName, a.Config.Logging.MaxSizeMB, a.Config.Logging.MaxFiles)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(a.Config.Logging.Level),
		Format:     a.Config.Logging.Format,
		TimeFormat: "15:04:05",
		Output:     rotator,
	})
	a.ctx = logging.WithContext(a.ctx, logger)

	prev := a.logCleanup
	a.logCleanup = func() {
		_ = rotator.Close()
		if prev != nil {
			prev()
		}
	}
	return rotator.Path(), nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logCleanup != nil {
		a.logCleanup()
		a.logCleanup = nil
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
