package cli

import (
	"fmt"
	"os"
	"time"

	"intakehub/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version of the binary, set by main.
var Version = "1.0.0"

type GlobalOptions struct {
	CfgFilePath string
	LogLevel    string

	// Store selection, shared by every command that touches records.
	Backend        string
	DBPath         string
	CSVPath        string
	LegacyVersion  int
	AutoRepair     bool
	ValidationMode string

	Version   string
	StartTime time.Time

	Logger *logrus.Logger
	Conf   *config.Config
}

func NewRootCMD() *cobra.Command {

	globalOptions := &GlobalOptions{
		Version:   Version,
		StartTime: time.Now(),
	}

	rootCMD := &cobra.Command{
		Use:   "intakehub",
		Short: "IntakeHub",
		Long:  "Household intake records for a food distribution: kiosk API, reports and maintenance tools.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return globalOptions.loadConfig(cmd)
		},
		SilenceUsage: true,
	}

	// register global flags
	globalOptions.registerFlags(rootCMD)

	// add subcommands
	rootCMD.AddCommand(NewServeCommand(globalOptions))
	rootCMD.AddCommand(NewMigrateCommand(globalOptions))
	rootCMD.AddCommand(NewRepairCommand(globalOptions))
	rootCMD.AddCommand(NewExportCommand(globalOptions))
	rootCMD.AddCommand(NewReportCommand(globalOptions))
	rootCMD.AddCommand(NewImportCommand(globalOptions))
	rootCMD.AddCommand(NewHashPasswordCommand(globalOptions))

	return rootCMD
}

func (options *GlobalOptions) registerFlags(cmd *cobra.Command) {
	// flags that can be used for each command
	cmd.PersistentFlags().StringVar(&options.CfgFilePath, "config_path", "config.toml", "Path to the base configuration file. (Env: INTAKE_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&options.LogLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: INTAKE_LOGGING_LEVEL)")
	cmd.PersistentFlags().StringVar(&options.Backend, "backend", "", "Record store: sqlite or csv. (Env: INTAKE_DATABASE_BACKEND)")
	cmd.PersistentFlags().StringVar(&options.DBPath, "db-path", "", "SQLite database file. (Env: INTAKE_DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&options.CSVPath, "csv-path", "", "Delimited submissions log. (Env: INTAKE_DATABASE_CSV_PATH)")
	cmd.PersistentFlags().IntVar(&options.LegacyVersion, "legacy-version", 0, "Layout (1-5) assumed for a CSV log without header. (Env: INTAKE_DATABASE_LEGACY_VERSION)")
	cmd.PersistentFlags().BoolVar(&options.AutoRepair, "auto-repair", true, "Repair schema drift when the CSV log is opened. (Env: INTAKE_DATABASE_AUTO_REPAIR)")
	cmd.PersistentFlags().StringVar(&options.ValidationMode, "validation-mode", "", "Contact field rules: strict or lenient. (Env: INTAKE_VALIDATION_MODE)")
}

func Execute() {

	rootCmd := NewRootCMD()

	// Run the command based on os.Args
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
