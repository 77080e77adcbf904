package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New builds a zap logger. Mode "prod" or "production" selects JSON output;
// anything else is the development console encoder. Level is a zap level
// name and defaults to info when empty. Both configs write to stderr.
func New(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg.Level = lvl

	return cfg.Build()
}
