// Package logger builds the service-wide zap logger.
package logger

import (
	"go.uber.org/zap"
)

// New builds a logger for the given environment: JSON output in production,
// console output with debug level otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return cfg.Build()
}
