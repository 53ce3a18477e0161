package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string
	// ServiceName is attached to every entry.
	ServiceName string
	// Development switches to the human-readable console encoder.
	Development bool
}

// Logger wraps zap.Logger.
type Logger struct {
	*zap.Logger
}

var (
	global *Logger
	mu     sync.RWMutex
)

// Init builds the global logger.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{Level: "info"}
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			level = zapcore.InfoLevel
		}
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	base, err := zapCfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	if cfg.ServiceName != "" {
		base = base.With(zap.String("service", cfg.ServiceName))
	}

	mu.Lock()
	global = &Logger{Logger: base}
	mu.Unlock()
	return nil
}

// Get returns the global logger, initializing a no-op fallback if Init was
// never called.
func Get() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = &Logger{Logger: zap.NewNop()}
	}
	return global
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		_ = l.Logger.Sync()
	}
}
