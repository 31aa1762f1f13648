package logging

import (
	"io"
	"os"

	"taskmanager-api/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It logs to stdout at info level until
// InitLogger configures it.
var Logger = logrus.New()

// InitLogger configures the global logger and returns it
func InitLogger(cfg config.LogConfig) *logrus.Logger {
	Logger = logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		Logger.Warnf("Invalid log level '%s', using 'info'", cfg.Level)
	}
	Logger.SetLevel(level)

	if cfg.JSONFormat {
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Logger.SetOutput(newOutput(cfg))
	if cfg.FileEnabled && cfg.FilePath != "" {
		Logger.Infof("File logging enabled: %s (max size: %dMB, max backups: %d, max age: %d days)",
			cfg.FilePath, cfg.MaxSize, cfg.MaxBackups, cfg.MaxAge)
	}

	return Logger
}

// newOutput returns stdout, or stdout plus a rotating file when file logging is on
func newOutput(cfg config.LogConfig) io.Writer {
	if !cfg.FileEnabled || cfg.FilePath == "" {
		return os.Stdout
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	return io.MultiWriter(os.Stdout, rotator)
}

// WithStore returns an entry tagged with the storage driver
func WithStore(driver string) *logrus.Entry {
	return Logger.WithField("store", driver)
}
