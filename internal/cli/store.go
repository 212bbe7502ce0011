package cli

import (
	"context"
	"fmt"
	"os"

	"intakehub/internal/audit"
	"intakehub/internal/config"
	"intakehub/internal/logging"
	"intakehub/internal/metrics"
	"intakehub/internal/repository"
	"intakehub/internal/repository/csvlog"
	"intakehub/internal/repository/sqlite"
	"intakehub/internal/schema"
	"intakehub/internal/services"
	"intakehub/internal/services/auth"
	"intakehub/internal/validation"
)

// openStore opens the configured record store. A fresh SQLite file is
// migrated to the latest schema; an outdated one is refused. autoRepair
// only applies to the CSV backend.
func openStore(ctx context.Context, cfg *config.Config, autoRepair bool) (repository.Store, error) {
	switch cfg.Database.Backend {
	case config.BackendCSV:
		logging.Log.Infof("Using CSV log at %s", cfg.Database.CSVPath)
		l, err := csvlog.Open(ctx, cfg.Database.CSVPath, csvlog.Options{
			LegacyVersion: schema.Version(cfg.Database.LegacyVersion),
			AutoRepair:    autoRepair,
		}, logging.Log)
		if err != nil {
			return nil, err
		}
		return l, nil

	case config.BackendSQLite:
		logging.Log.Infof("Using SQLite database at %s", cfg.Database.Path)
		repo, err := sqlite.NewRepository(cfg.Database.Path, logging.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize repository: %w", err)
		}

		// --- Conditional Auto-migrate on startup ---
		if err := repo.EnsureSchemaBootstrapped(); err != nil {
			repo.Close()
			logging.Log.Errorf("Failed to bootstrap database: %v", err)
			return nil, err
		}
		if err := repo.ValidateSchema(); err != nil {
			repo.Close()
			logging.Log.Error("---------------------------------------------------------------")
			logging.Log.Errorf("CRITICAL DATABASE ERROR: %v", err)
			logging.Log.Error("---------------------------------------------------------------")
			return nil, err
		}
		return repo, nil
	}
	return nil, fmt.Errorf("invalid database backend: %s", cfg.Database.Backend)
}

// newIntakeService wires the intake service for a store.
func newIntakeService(cfg *config.Config, store repository.Store, m *metrics.Metrics) (services.IntakeService, error) {
	mode, err := validation.ParseMode(cfg.Validation.Mode)
	if err != nil {
		return nil, err
	}
	auditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)
	return services.NewIntakeService(store, validation.New(mode), auditor, m), nil
}

// operatorContext marks ctx as coming from someone at the console, so that
// admin operations are allowed and audited under their login name.
func operatorContext(ctx context.Context) (context.Context, auth.Capability) {
	capability := auth.Operator(os.Getenv("USER"))
	return auth.WithCapability(ctx, capability), capability
}
