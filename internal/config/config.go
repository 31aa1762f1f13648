// Package config loads the service configuration.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// environment variables. Later layers win.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Supported storage drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds the full configuration for the API server
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Store     StoreConfig     `toml:"store"`
	Log       LogConfig       `toml:"log"`
	CORS      CORSConfig      `toml:"cors"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Security  SecurityConfig  `toml:"security"`
	API       APIConfig       `toml:"api"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port                   string    `toml:"port"`
	ReadTimeoutSeconds     int       `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int       `toml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int       `toml:"shutdown_timeout_seconds"`
	TLS                    TLSConfig `toml:"tls"`
}

// TLSConfig holds HTTPS settings
type TLSConfig struct {
	Enabled      bool   `toml:"enabled"`
	CertFile     string `toml:"cert_file"`
	KeyFile      string `toml:"key_file"`
	MinVersion   string `toml:"min_version"`
	RedirectHTTP bool   `toml:"redirect_http"` // Serve an HTTP listener that redirects to HTTPS
	RedirectPort string `toml:"redirect_port"`
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Driver                string `toml:"driver"`
	MongoURI              string `toml:"mongo_uri"`
	MongoDatabase         string `toml:"mongo_database"`
	DSN                   string `toml:"dsn"` // Used by the SQL drivers
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
	MaxOpenConns          int    `toml:"max_open_conns"`
	AutoInit              bool   `toml:"auto_init"` // Create tables/indexes on startup
}

// LogConfig holds configuration for logging
type LogConfig struct {
	FileEnabled bool   `toml:"file_enabled"`
	FilePath    string `toml:"file_path"`
	MaxSize     int    `toml:"max_size_mb"`
	MaxBackups  int    `toml:"max_backups"`
	MaxAge      int    `toml:"max_age_days"`
	Compress    bool   `toml:"compress"`
	Level       string `toml:"level"`
	JSONFormat  bool   `toml:"json_format"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	AllowedOrigins   []string `toml:"allowed_origins"` // ["*"] allows every origin
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	ExposeHeaders    []string `toml:"expose_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"` // Preflight cache duration in seconds
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool  `toml:"enabled"`
	RequestsPerMin int64 `toml:"requests_per_min"`
}

// SecurityConfig holds request hardening settings
type SecurityConfig struct {
	MaxRequestBodySize int64    `toml:"max_request_body_size"`
	TrustedProxies     []string `toml:"trusted_proxies"`
}

// APIConfig holds behavior switches for the REST surface
type APIConfig struct {
	// StrictNotFound answers 404 when a single-entity read, update or delete
	// matches nothing. When false the API answers 200 with an empty body.
	StrictNotFound bool `toml:"strict_not_found"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   "3000",
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    15,
			ShutdownTimeoutSeconds: 10,
			TLS: TLSConfig{
				CertFile:     "./certs/server.crt",
				KeyFile:      "./certs/server.key",
				MinVersion:   "1.2",
				RedirectHTTP: true,
				RedirectPort: "8080",
			},
		},
		Store: StoreConfig{
			Driver:                DriverMongo,
			MongoURI:              "mongodb://localhost:27017",
			MongoDatabase:         "TaskManager",
			ConnectTimeoutSeconds: 10,
			MaxOpenConns:          25,
			AutoInit:              true,
		},
		Log: LogConfig{
			FileEnabled: false,
			FilePath:    "./logs/taskmanager-api.log",
			MaxSize:     100,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
			Level:       "info",
		},
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:  []string{"Content-Length", "Content-Type"},
			MaxAge:         3600,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 120,
		},
		Security: SecurityConfig{
			MaxRequestBodySize: 1 << 20,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (skipped
// when path is empty) and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for driver %q", c.Store.Driver)
		}
		if c.Store.MongoDatabase == "" {
			return fmt.Errorf("store.mongo_database is required for driver %q", c.Store.Driver)
		}
	case DriverPostgres, DriverMySQL, DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.TLS.Enabled && (c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "") {
		return fmt.Errorf("server.tls requires cert_file and key_file")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMin < 2 {
		return fmt.Errorf("rate_limit.requests_per_min must be at least 2, got %d", c.RateLimit.RequestsPerMin)
	}
	if c.Security.MaxRequestBodySize <= 0 {
		return fmt.Errorf("security.max_request_body_size must be positive")
	}
	return nil
}
