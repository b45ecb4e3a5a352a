package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the cinedex configuration shared by the serve and sync commands.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Postgres PostgresConfig `yaml:"postgres"`
	ETL      ETLConfig      `yaml:"etl"`
	Retry    RetryConfig    `yaml:"retry"`
	Cache    CacheConfig    `yaml:"cache"`
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // optional rotating log file, in addition to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
	// PublicPaths are served without a token. Defaults to /health and /metrics.
	PublicPaths []string `yaml:"public_paths"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings (search index, cache, watermarks).
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// PostgresConfig holds the relational source settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
}

// ETLConfig holds sync pipeline settings.
type ETLConfig struct {
	IntervalSec    int `yaml:"interval_sec"`
	DetectPageSize int `yaml:"detect_page_size"`
	FetchChunkSize int `yaml:"fetch_chunk_size"`
	LoadBatchSize  int `yaml:"load_batch_size"`
}

// Interval is the pause between pipeline runs.
func (c ETLConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSec) * time.Second
}

// RetryConfig holds the backoff policy for external calls.
type RetryConfig struct {
	InitialIntervalMs int     `yaml:"initial_interval_ms"`
	MaxIntervalSec    int     `yaml:"max_interval_sec"`
	Multiplier        float64 `yaml:"multiplier"`
	MaxAttempts       int     `yaml:"max_attempts"` // 0 = unlimited
}

// CacheConfig holds read-through cache settings.
type CacheConfig struct {
	Disabled bool `yaml:"disabled"`
	TTLSec   int  `yaml:"ttl_sec"`
}

// TTL is the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// APIConfig holds pagination settings of the query API.
type APIConfig struct {
	DefaultPageSize       int `yaml:"default_page_size"`
	MaxPageSize           int `yaml:"max_page_size"`
	PersonSearchPageSize  int `yaml:"person_search_page_size"`
	GenreListPageSize     int `yaml:"genre_list_page_size"`
	PersonFilmsMaxResults int `yaml:"person_films_max_results"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// MetricsConfig holds the standalone metrics listener used by sync.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Postgres.MaxConns <= 0 {
		c.Postgres.MaxConns = 4
	}
	if c.ETL.IntervalSec <= 0 {
		c.ETL.IntervalSec = 10
	}
	if c.ETL.DetectPageSize <= 0 {
		c.ETL.DetectPageSize = 100
	}
	if c.ETL.FetchChunkSize <= 0 {
		c.ETL.FetchChunkSize = 10
	}
	if c.ETL.LoadBatchSize <= 0 {
		c.ETL.LoadBatchSize = 100
	}
	if c.Retry.InitialIntervalMs <= 0 {
		c.Retry.InitialIntervalMs = 100
	}
	if c.Retry.MaxIntervalSec <= 0 {
		c.Retry.MaxIntervalSec = 30
	}
	if c.Retry.Multiplier <= 1 {
		c.Retry.Multiplier = 2
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.API.DefaultPageSize <= 0 {
		c.API.DefaultPageSize = 10
	}
	if c.API.MaxPageSize <= 0 {
		c.API.MaxPageSize = 100
	}
	if c.API.PersonSearchPageSize <= 0 {
		c.API.PersonSearchPageSize = 50
	}
	if c.API.GenreListPageSize <= 0 {
		c.API.GenreListPageSize = 26
	}
	if c.API.PersonFilmsMaxResults <= 0 {
		c.API.PersonFilmsMaxResults = 1000
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "cinedex:"
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB <= 0 {
			c.Logging.MaxSizeMB = 100
		}
		if c.Logging.MaxBackups <= 0 {
			c.Logging.MaxBackups = 3
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size (%d) exceeds api.max_page_size (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts must be >= 0, got %d", c.Retry.MaxAttempts)
	}
	if !strings.HasSuffix(c.Storage.KeyPrefix, ":") {
		return fmt.Errorf("storage.key_prefix must end with ':', got %q", c.Storage.KeyPrefix)
	}
	return nil
}

// ValidateSync checks the settings only the sync command needs.
func (c *Config) ValidateSync() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
