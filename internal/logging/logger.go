// Package logging wraps zap with the small set of constructors the rest of
// the engine uses: one construction point per process plus cheap
// per-component named loggers.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide logger. In production mode it emits JSON;
// otherwise a human-readable console encoder.
func New(production bool) *zap.Logger {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op-safe logger; this should never happen with
		// the static configs above.
		return zap.NewNop()
	}
	return logger
}

// NewFromEnv picks production vs development encoding from APP_ENV.
func NewFromEnv() *zap.Logger {
	return New(os.Getenv("APP_ENV") == "production")
}
