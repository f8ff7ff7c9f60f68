package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	level  = zap.NewAtomicLevel()
	once   sync.Once
)

// GetLogger returns the process wide zap.Logger, created once. The development
// config is used unless APP_ENV=production.
func GetLogger() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		if os.Getenv("APP_ENV") == "production" {
			cfg = zap.NewProductionConfig()
		}
		level.SetLevel(cfg.Level.Level())
		cfg.Level = level

		var err error
		logger, err = cfg.Build()
		if err != nil {
			panic("failed logger setup : " + err.Error())
		}
	})
	return logger
}

// SetLevel changes the level of the shared logger at runtime, e.g. once the
// configuration has been read. An empty value keeps the current level.
func SetLevel(text string) error {
	if text == "" {
		return nil
	}
	lvl, err := zapcore.ParseLevel(text)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}
