package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnv overrides cfg with any environment variables that are set
func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeoutSeconds = getEnvInt("SERVER_READ_TIMEOUT_SECONDS", cfg.Server.ReadTimeoutSeconds)
	cfg.Server.WriteTimeoutSeconds = getEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", cfg.Server.WriteTimeoutSeconds)
	cfg.Server.ShutdownTimeoutSeconds = getEnvInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", cfg.Server.ShutdownTimeoutSeconds)

	cfg.Server.TLS.Enabled = getEnvBool("TLS_ENABLED", cfg.Server.TLS.Enabled)
	cfg.Server.TLS.CertFile = getEnv("TLS_CERT_FILE", cfg.Server.TLS.CertFile)
	cfg.Server.TLS.KeyFile = getEnv("TLS_KEY_FILE", cfg.Server.TLS.KeyFile)
	cfg.Server.TLS.MinVersion = getEnv("TLS_MIN_VERSION", cfg.Server.TLS.MinVersion)
	cfg.Server.TLS.RedirectHTTP = getEnvBool("TLS_REDIRECT_HTTP", cfg.Server.TLS.RedirectHTTP)
	cfg.Server.TLS.RedirectPort = getEnv("HTTP_PORT", cfg.Server.TLS.RedirectPort)

	// USE_MEMORY_STORAGE is kept as a shortcut for local development
	if getEnvBool("USE_MEMORY_STORAGE", false) {
		cfg.Store.Driver = DriverMemory
	}
	cfg.Store.Driver = getEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.MongoURI = getEnv("MONGO_URI", cfg.Store.MongoURI)
	cfg.Store.MongoDatabase = getEnv("MONGO_DATABASE", cfg.Store.MongoDatabase)
	cfg.Store.DSN = getEnv("DATABASE_DSN", cfg.Store.DSN)
	if cfg.Store.DSN == "" && cfg.Store.Driver == DriverPostgres && os.Getenv("DB_HOST") != "" {
		cfg.Store.DSN = buildPostgresDSN()
	}
	cfg.Store.ConnectTimeoutSeconds = getEnvInt("STORE_CONNECT_TIMEOUT_SECONDS", cfg.Store.ConnectTimeoutSeconds)
	cfg.Store.MaxOpenConns = getEnvInt("STORE_MAX_OPEN_CONNS", cfg.Store.MaxOpenConns)
	cfg.Store.AutoInit = getEnvBool("STORE_AUTO_INIT", cfg.Store.AutoInit)

	cfg.Log.FileEnabled = getEnvBool("LOG_FILE_ENABLED", cfg.Log.FileEnabled)
	cfg.Log.FilePath = getEnv("LOG_FILE_PATH", cfg.Log.FilePath)
	cfg.Log.MaxSize = getEnvInt("LOG_MAX_SIZE_MB", cfg.Log.MaxSize)
	cfg.Log.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", cfg.Log.MaxBackups)
	cfg.Log.MaxAge = getEnvInt("LOG_MAX_AGE_DAYS", cfg.Log.MaxAge)
	cfg.Log.Compress = getEnvBool("LOG_COMPRESS", cfg.Log.Compress)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.JSONFormat = getEnvBool("LOG_JSON_FORMAT", cfg.Log.JSONFormat)

	cfg.CORS.Enabled = getEnvBool("CORS_ENABLED", cfg.CORS.Enabled)
	cfg.CORS.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)
	cfg.CORS.AllowedMethods = getEnvList("CORS_ALLOWED_METHODS", cfg.CORS.AllowedMethods)
	cfg.CORS.AllowedHeaders = getEnvList("CORS_ALLOWED_HEADERS", cfg.CORS.AllowedHeaders)
	cfg.CORS.ExposeHeaders = getEnvList("CORS_EXPOSE_HEADERS", cfg.CORS.ExposeHeaders)
	cfg.CORS.AllowCredentials = getEnvBool("CORS_ALLOW_CREDENTIALS", cfg.CORS.AllowCredentials)
	cfg.CORS.MaxAge = getEnvInt("CORS_MAX_AGE", cfg.CORS.MaxAge)

	cfg.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.RequestsPerMin = int64(getEnvInt("RATE_LIMIT_REQUESTS_PER_MIN", int(cfg.RateLimit.RequestsPerMin)))

	cfg.Security.MaxRequestBodySize = int64(getEnvInt("MAX_REQUEST_BODY_SIZE", int(cfg.Security.MaxRequestBodySize)))
	cfg.Security.TrustedProxies = getEnvList("TRUSTED_PROXIES", cfg.Security.TrustedProxies)

	cfg.API.StrictNotFound = getEnvBool("STRICT_NOT_FOUND", cfg.API.StrictNotFound)
}

// buildPostgresDSN constructs a postgres URL from the DB_* variables
func buildPostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "taskmanager"),
		getEnv("DB_SSL_MODE", "disable"),
	)
}

// Helper functions for environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
