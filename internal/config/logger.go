package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a development logger in offline mode and a JSON
// production logger otherwise.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Offline.Enabled {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
