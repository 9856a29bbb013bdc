// Package config loads taxheaven settings from an optional YAML file,
// an optional .env file and the environment, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/store"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// DefaultDatabasePath is the SQLite file used when nothing else is set.
const DefaultDatabasePath = "taxheaven.db"

// Config is the complete application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	View     ViewConfig     `yaml:"view"`
}

// DatabaseConfig selects the record store backend.
type DatabaseConfig struct {
	Driver string       `yaml:"driver"`
	Path   string       `yaml:"path"`
	Oracle OracleConfig `yaml:"oracle"`
}

// OracleConfig mirrors store.OracleConfig with YAML names.
type OracleConfig struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	Service        string `yaml:"service"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	WalletLocation string `yaml:"wallet_location"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// ViewConfig holds table defaults.
type ViewConfig struct {
	PageSize   int    `yaml:"page_size"`
	SortBy     string `yaml:"sort_by"`
	Descending bool   `yaml:"descending"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: store.DriverSQLite,
			Path:   DefaultDatabasePath,
			Oracle: OracleConfig{Port: "1521"},
		},
		Log:  LogConfig{Level: "info", Format: "text"},
		View: ViewConfig{PageSize: 10, SortBy: string(taxpayer.ColumnTID)},
	}
}

// Load builds the configuration. path names an optional YAML file; an
// empty path skips it, a missing named file is an error. envFile names an
// optional dotenv file whose variables never override ones already set.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Reject unknown fields so typos don't silently fall back to defaults.
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Database.Driver, "TAXHEAVEN_DB_DRIVER")
	setFromEnv(&cfg.Database.Path, "TAXHEAVEN_DB_PATH")
	setFromEnv(&cfg.Log.Level, "TAXHEAVEN_LOG_LEVEL")

	setFromEnv(&cfg.Database.Oracle.Host, "DB_HOST")
	setFromEnv(&cfg.Database.Oracle.Port, "DB_PORT")
	setFromEnv(&cfg.Database.Oracle.Service, "DB_SERVICE")
	setFromEnv(&cfg.Database.Oracle.Username, "DB_USERNAME")
	setFromEnv(&cfg.Database.Oracle.Password, "DB_PASSWORD")
	setFromEnv(&cfg.Database.Oracle.WalletLocation, "DB_WALLET_LOCATION")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case store.DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for %s", store.DriverSQLite)
		}
	case store.DriverOracle:
	default:
		return fmt.Errorf("database.driver %q: must be %q or %q", c.Database.Driver, store.DriverSQLite, store.DriverOracle)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", c.Log.Format)
	}

	if c.View.PageSize <= 0 {
		return fmt.Errorf("view.page_size must be positive, got %d", c.View.PageSize)
	}
	if _, err := taxpayer.ParseColumn(c.View.SortBy); err != nil {
		return fmt.Errorf("view.sort_by: %w", err)
	}
	return nil
}

// StoreConfig converts the database settings for store.Open.
func (c Config) StoreConfig() store.Config {
	o := c.Database.Oracle
	return store.Config{
		Driver: c.Database.Driver,
		Path:   c.Database.Path,
		Oracle: store.OracleConfig{
			Host:           o.Host,
			Port:           o.Port,
			Service:        o.Service,
			Username:       o.Username,
			Password:       o.Password,
			WalletLocation: o.WalletLocation,
		},
	}
}
