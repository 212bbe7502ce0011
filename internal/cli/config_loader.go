// filepath: internal/cli/config_loader.go
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"intakehub/internal/config"
	"intakehub/internal/logging"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// INTAKE_SERVER_PORT for server.port.
const EnvPrefix = "INTAKE"

// setting maps one config key to the flag that can override it.
type setting struct {
	key   string
	flag  string
	apply func(c *config.Config, v *viper.Viper, key string)
}

var settings = []setting{
	{"server.host", "host", func(c *config.Config, v *viper.Viper, k string) { c.Server.Host = v.GetString(k) }},
	{"server.port", "port", func(c *config.Config, v *viper.Viper, k string) { c.Server.Port = v.GetInt(k) }},
	{"database.backend", "backend", func(c *config.Config, v *viper.Viper, k string) { c.Database.Backend = v.GetString(k) }},
	{"database.path", "db-path", func(c *config.Config, v *viper.Viper, k string) { c.Database.Path = v.GetString(k) }},
	{"database.csv_path", "csv-path", func(c *config.Config, v *viper.Viper, k string) { c.Database.CSVPath = v.GetString(k) }},
	{"database.legacy_version", "legacy-version", func(c *config.Config, v *viper.Viper, k string) { c.Database.LegacyVersion = v.GetInt(k) }},
	{"database.auto_repair", "auto-repair", func(c *config.Config, v *viper.Viper, k string) {
		b := v.GetBool(k)
		c.Database.AutoRepair = &b
	}},
	{"logging.level", "log-level", func(c *config.Config, v *viper.Viper, k string) { c.Logging.Level = v.GetString(k) }},
	{"logging.audit_enabled", "audit-enabled", func(c *config.Config, v *viper.Viper, k string) { c.Logging.AuditEnabled = v.GetBool(k) }},
	{"validation.mode", "validation-mode", func(c *config.Config, v *viper.Viper, k string) { c.Validation.Mode = v.GetString(k) }},
	{"auth.jwt_secret", "jwt-secret", func(c *config.Config, v *viper.Viper, k string) { c.Auth.JWTSecret = v.GetString(k) }},
	{"auth.admin_password_hash", "", func(c *config.Config, v *viper.Viper, k string) { c.Auth.AdminPasswordHash = v.GetString(k) }},
	{"auth.access_duration_min", "", func(c *config.Config, v *viper.Viper, k string) { c.Auth.AccessDurationMin = v.GetInt(k) }},
	{"housekeeping.drift_check_interval", "drift-check-interval", func(c *config.Config, v *viper.Viper, k string) {
		c.Housekeeping.DriftCheckInterval = v.GetString(k)
	}},
}

// bindFlag lets an explicitly set flag win over the environment. Commands
// that do not define the flag pass nil.
func bindFlag(v *viper.Viper, key string, f *pflag.Flag) error {
	if f == nil {
		return nil
	}
	if err := v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
	}
	return nil
}

// loadConfig reads the TOML file and layers environment variables and
// explicitly set flags on top, in that order of precedence.
func (options *GlobalOptions) loadConfig(cmd *cobra.Command) error {
	// 1. Check environment variable for config path first
	if envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH"); envPath != "" && !cmd.Flags().Changed("config_path") {
		options.CfgFilePath = envPath
	}

	cfg, err := config.LoadConfig(options.CfgFilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Create empty config if not found, rely on defaults/flags
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", options.CfgFilePath, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, s := range settings {
		if err := bindFlag(v, s.key, cmd.Flags().Lookup(s.flag)); err != nil {
			return err
		}
		if v.IsSet(s.key) {
			s.apply(cfg, v, s.key)
		}
	}

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)
	if cmd.Name() != "serve" {
		// Keep stdout free for command output.
		logging.Log.SetOutput(cmd.ErrOrStderr())
	}
	goose.SetLogger(logging.Log)

	options.Conf = cfg
	options.Logger = logging.Log
	return nil
}
