package sqlite

import (
	"fmt"

	"intakehub/internal/db/migrations"
	"intakehub/internal/shared"

	"github.com/pressly/goose/v3"
)

// The embedded migrations directory is the root of migrations.FS.
const migrationDir = "."

func (s *SQLiteRepository) setupGoose() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(s.Logger)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// Migrate runs a goose command ("up", "down" or "status") against the database.
func (s *SQLiteRepository) Migrate(command string) error {
	if err := s.setupGoose(); err != nil {
		return err
	}

	s.Logger.Infof("Running migration command: %s", command)

	var err error
	switch command {
	case "up":
		err = goose.Up(s.DB, migrationDir)
	case "down":
		err = goose.Down(s.DB, migrationDir)
	case "status":
		err = goose.Status(s.DB, migrationDir)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	s.Logger.Info("Migration operation completed successfully.")
	return nil
}

// EnsureSchemaBootstrapped migrates a brand new database to the latest
// version. A database that already has a goose version table is left alone
// so upgrades stay an explicit 'migrate up'.
func (s *SQLiteRepository) EnsureSchemaBootstrapped() error {
	var name string
	err := s.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='goose_db_version'").Scan(&name)
	if err == nil {
		return nil
	}

	s.Logger.Info("Fresh database detected, applying all migrations.")
	if err := s.setupGoose(); err != nil {
		return err
	}
	if err := goose.Up(s.DB, migrationDir); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}

// ValidateSchema refuses to work with a database that is behind the
// embedded migrations.
func (s *SQLiteRepository) ValidateSchema() error {
	if err := s.setupGoose(); err != nil {
		return err
	}

	current, err := goose.GetDBVersion(s.DB)
	if err != nil {
		return fmt.Errorf("%w: could not read version: %v", shared.ErrOutdated, err)
	}

	all, err := goose.CollectMigrations(migrationDir, 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	latest, err := all.Last()
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}

	if current < latest.Version {
		return fmt.Errorf("%w: at version %d, latest is %d. Run 'intakehub migrate up'", shared.ErrOutdated, current, latest.Version)
	}
	return nil
}

// SchemaVersion reports the applied goose version.
func (s *SQLiteRepository) SchemaVersion() (int64, error) {
	if err := s.setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.DB)
}
