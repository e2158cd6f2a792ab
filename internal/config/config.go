// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath         string        `validate:"required"`
	DatasetPath          string        `validate:"required"`
	ConfigDir            string        `validate:"required"`
	EnvFile              string        `validate:"-"`
	SyntheticYears       int           `validate:"gte=0,lte=20"`
	SyntheticSeed        uint64        `validate:"-"`
	ListenAddr           string        `validate:"required"`
	CORSOrigins          []string      `validate:"dive,required"`
	GrowthAlertThreshold float64       `validate:"gte=0"`
	ReloadDebounce       time.Duration `validate:"gt=0"`
	ShutdownTimeout      time.Duration `validate:"gt=0"`
	LogLevel             string        `validate:"oneof=debug info warn error"`
	LogFormat            string        `validate:"oneof=text json"`
}

// Configuration keys. Each maps to the upper-cased environment variable.
const (
	KeyDatabasePath         = "database_path"
	KeyDatasetPath          = "dataset_path"
	KeySyntheticYears       = "synthetic_years"
	KeySyntheticSeed        = "synthetic_seed"
	KeyListenAddr           = "listen_addr"
	KeyCORSOrigins          = "cors_origins"
	KeyGrowthAlertThreshold = "growth_alert_threshold"
	KeyReloadDebounce       = "reload_debounce"
	KeyShutdownTimeout      = "shutdown_timeout"
	KeyLogLevel             = "log_level"
	KeyLogFormat            = "log_format"
)

// Default values
const (
	defaultSyntheticYears       = 3
	defaultListenAddr           = ":8080"
	defaultCORSOrigin           = "http://localhost:3000"
	defaultGrowthAlertThreshold = 10.0
	defaultReloadDebounce       = 250 * time.Millisecond
	defaultShutdownTimeout      = 10 * time.Second
	defaultLogLevel             = "info"
	defaultLogFormat            = "text"
)

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"database":   KeyDatabasePath,
	"dataset":    KeyDatasetPath,
	"addr":       KeyListenAddr,
	"log-level":  KeyLogLevel,
	"log-format": KeyLogFormat,
}

// Load reads configuration from .env files, an optional config.yaml and
// environment variables.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with command line flags layered on top. Only flags
// that were set explicitly override other sources.
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	envFile := loadEnvFile()

	dir := configDir()
	v := viper.New()
	setDefaults(v, dir)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		DatabasePath:         expandHome(v.GetString(KeyDatabasePath)),
		DatasetPath:          expandHome(v.GetString(KeyDatasetPath)),
		ConfigDir:            dir,
		EnvFile:              envFile,
		SyntheticYears:       v.GetInt(KeySyntheticYears),
		SyntheticSeed:        v.GetUint64(KeySyntheticSeed),
		ListenAddr:           v.GetString(KeyListenAddr),
		CORSOrigins:          splitList(v.GetStringSlice(KeyCORSOrigins)),
		GrowthAlertThreshold: v.GetFloat64(KeyGrowthAlertThreshold),
		ReloadDebounce:       parseDuration(v.GetString(KeyReloadDebounce), defaultReloadDebounce),
		ShutdownTimeout:      parseDuration(v.GetString(KeyShutdownTimeout), defaultShutdownTimeout),
		LogLevel:             strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:            strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Dir(cfg.DatasetPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyDatabasePath, filepath.Join(dir, "vahan.db"))
	v.SetDefault(KeyDatasetPath, filepath.Join(dir, "registrations.csv"))
	v.SetDefault(KeySyntheticYears, defaultSyntheticYears)
	v.SetDefault(KeySyntheticSeed, 0)
	v.SetDefault(KeyListenAddr, defaultListenAddr)
	v.SetDefault(KeyCORSOrigins, []string{defaultCORSOrigin})
	v.SetDefault(KeyGrowthAlertThreshold, defaultGrowthAlertThreshold)
	v.SetDefault(KeyReloadDebounce, defaultReloadDebounce.String())
	v.SetDefault(KeyShutdownTimeout, defaultShutdownTimeout.String())
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFormat, defaultLogFormat)
}

// loadEnvFile loads the first .env found and returns its path.
func loadEnvFile() string {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return path
		}
	}
	return ""
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "vahan-dashboard", ".env"),
			filepath.Join(home, ".vahan", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// configDir returns the directory holding the database, dataset and config.yaml.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "vahan-dashboard")
}

// parseDuration accepts Go durations like "30s", "1m", "500ms", or a bare
// number of seconds.
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	// Try parsing as seconds if no unit specified
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// splitList flattens comma separated entries.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
