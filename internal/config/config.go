// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv()
//	port := cfg.Server.Port
//	cols := cfg.Ledger.Columns
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"rent-reconciliation/internal/domain"
	"rent-reconciliation/internal/usecase"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Ledger        LedgerConfig        `yaml:"ledger"`
	Matching      usecase.MatchConfig `yaml:"matching"`
	Report        ReportConfig        `yaml:"report"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP boundary settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	MaxUploadMB    int      `yaml:"max_upload_mb"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LedgerConfig names the ledger header cells
type LedgerConfig struct {
	Columns domain.LedgerColumns `yaml:"columns"`
}

// ReportConfig controls report output
type ReportConfig struct {
	Language string `yaml:"language"` // "en" or "ru"
	Format   string `yaml:"format"`   // "xlsx", "csv" or "json"
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			MaxUploadMB: 32,
		},
		Ledger:   LedgerConfig{Columns: domain.DefaultLedgerColumns()},
		Matching: usecase.DefaultMatchConfig(),
		Report: ReportConfig{
			Language: "ru",
			Format:   "xlsx",
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// Load reads and parses the config file. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECON_PORT})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
// Unparsable numbers keep their defaults; the result is validated.
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	cfg.Server.Port = getEnvInt("RECON_PORT", cfg.Server.Port)
	cfg.Server.MaxUploadMB = getEnvInt("RECON_MAX_UPLOAD_MB", cfg.Server.MaxUploadMB)
	cfg.Ledger.Columns.Identifier = getEnv("LEDGER_IDENTIFIER_COLUMN", cfg.Ledger.Columns.Identifier)
	cfg.Ledger.Columns.Amount = getEnv("LEDGER_AMOUNT_COLUMN", cfg.Ledger.Columns.Amount)
	cfg.Ledger.Columns.AnchorDate = getEnv("LEDGER_ANCHOR_DATE_COLUMN", cfg.Ledger.Columns.AnchorDate)
	cfg.Matching.AmountTolerance = getEnvFloat("MATCH_AMOUNT_TOLERANCE", cfg.Matching.AmountTolerance)
	cfg.Matching.DateWindowDays = getEnvInt("MATCH_DATE_WINDOW_DAYS", cfg.Matching.DateWindowDays)
	cfg.Matching.GraceDays = getEnvInt("MATCH_GRACE_DAYS", cfg.Matching.GraceDays)
	cfg.Report.Language = getEnv("REPORT_LANGUAGE", cfg.Report.Language)
	cfg.Report.Format = getEnv("REPORT_FORMAT", cfg.Report.Format)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment config: %w", err)
	}
	return cfg, nil
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() (*Config, error) {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath loads path when it exists and falls back to environment
// variables only when it does not. A file that exists but is broken or
// invalid is an error.
func LoadOrEnvWithPath(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot work with.
func (c *Config) Validate() error {
	if c.Matching.AmountTolerance <= 0 {
		return fmt.Errorf("matching.amount_tolerance must be positive, got %v", c.Matching.AmountTolerance)
	}
	if c.Matching.DateWindowDays < 0 || c.Matching.GraceDays < 0 {
		return fmt.Errorf("matching windows must not be negative")
	}
	cols := c.Ledger.Columns
	if cols.Identifier == "" || cols.Amount == "" || cols.AnchorDate == "" {
		return fmt.Errorf("ledger.columns must name all three columns")
	}
	return nil
}

// UseCaseConfig extracts the settings the reconciliation core needs.
func (c *Config) UseCaseConfig() usecase.Config {
	return usecase.Config{
		Columns:  c.Ledger.Columns,
		Matching: c.Matching,
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.Atoi(val); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseFloat(val, 64); err == nil {
			return result
		}
	}
	return fallback
}
