package cli

import (
	"fmt"

	"intakehub/internal/config"
	"intakehub/internal/repository/sqlite"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(globalOptions *GlobalOptions) *cobra.Command {

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage SQLite schema versions. Use subcommands 'up', 'down', or 'status'. The CSV backend is upgraded by 'repair'.`,
	}

	for _, sub := range []struct{ use, short string }{
		{"up", "Migrate the database to the most recent version"},
		{"down", "Roll back the database by one version"},
		{"status", "Dump the migration status for the current DB"},
	} {
		command := sub.use
		migrateCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigration(command, globalOptions)
			},
		})
	}

	return migrateCmd
}

func runMigration(command string, globalOptions *GlobalOptions) error {
	cfg := globalOptions.Conf
	if cfg.Database.Backend != config.BackendSQLite {
		return fmt.Errorf("migrate only applies to the sqlite backend (configured: %s)", cfg.Database.Backend)
	}

	repo, err := sqlite.NewRepository(cfg.Database.Path, globalOptions.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	return repo.Migrate(command)
}
