// filepath: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"intakehub/internal/shared"

	"github.com/BurntSushi/toml"
)

// Config holds the application's configuration.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logging      LoggingConfig      `toml:"logging"`
	Validation   ValidationConfig   `toml:"validation"`
	Auth         AuthConfig         `toml:"auth"`
	Housekeeping HousekeepingConfig `toml:"housekeeping"`

	DriftCheckInterval time.Duration `toml:"-"` // Runtime computed value
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig selects and locates the record store.
type DatabaseConfig struct {
	Backend       string `toml:"backend"`        // "sqlite" or "csv"
	Path          string `toml:"path"`           // SQLite file
	CSVPath       string `toml:"csv_path"`       // delimited log file
	LegacyVersion int    `toml:"legacy_version"` // layout assumed for a headerless CSV
	AutoRepair    *bool  `toml:"auto_repair"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// ValidationConfig selects the contact-field rule set.
type ValidationConfig struct {
	Mode string `toml:"mode"` // "strict" or "lenient"
}

// AuthConfig holds the admin credential and token settings.
type AuthConfig struct {
	AdminPasswordHash string `toml:"admin_password_hash"` // bcrypt, see 'intakehub hash-password'
	JWTSecret         string `toml:"jwt_secret"`          // Persisted secret
	AccessDurationMin int    `toml:"access_duration_min"`
}

// HousekeepingConfig controls the background drift checker.
type HousekeepingConfig struct {
	DriftCheckInterval string `toml:"drift_check_interval"` // e.g. "1h", "1d", "0" disables
}

const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
// Used to persist the auto-generated JWT secret.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trying to save the config: %w", shared.ErrorCreateFile)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("trying to save the config: %w", shared.ErrorEncodeFile)
	}
	return nil
}

// SetDefaults fills every unset value.
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Backend == "" {
		c.Database.Backend = BackendSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "intake.db"
	}
	if c.Database.CSVPath == "" {
		c.Database.CSVPath = "submissions.csv"
	}
	if c.Database.LegacyVersion == 0 {
		c.Database.LegacyVersion = 1
	}
	if c.Database.AutoRepair == nil {
		autoRepair := true
		c.Database.AutoRepair = &autoRepair
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Validation.Mode == "" {
		c.Validation.Mode = "strict"
	}
	if c.Auth.AccessDurationMin == 0 {
		c.Auth.AccessDurationMin = 30
	}
	if c.Housekeeping.DriftCheckInterval == "" {
		c.Housekeeping.DriftCheckInterval = "1h"
	}
}

// AutoRepairEnabled reports the effective auto_repair setting.
func (c *Config) AutoRepairEnabled() bool {
	return c.Database.AutoRepair == nil || *c.Database.AutoRepair
}

// ParseAndValidate processes configuration strings into runtime values
// and rejects unknown enumerations.
func (c *Config) ParseAndValidate() error {
	c.SetDefaults()

	switch strings.ToLower(c.Database.Backend) {
	case BackendSQLite, BackendCSV:
		c.Database.Backend = strings.ToLower(c.Database.Backend)
	default:
		return fmt.Errorf("invalid database backend: %s", c.Database.Backend)
	}

	if c.Database.LegacyVersion < 1 || c.Database.LegacyVersion > 5 {
		return fmt.Errorf("invalid legacy_version: %d", c.Database.LegacyVersion)
	}

	switch strings.ToLower(c.Validation.Mode) {
	case "strict", "lenient":
	default:
		return fmt.Errorf("invalid validation mode: %s", c.Validation.Mode)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Auth.AccessDurationMin < 0 {
		return fmt.Errorf("invalid access_duration_min: %d", c.Auth.AccessDurationMin)
	}

	interval, err := shared.ParseDuration(c.Housekeeping.DriftCheckInterval)
	if err != nil {
		return fmt.Errorf("invalid drift_check_interval: %w", err)
	}
	c.DriftCheckInterval = interval

	return nil
}
