package factory

import (
	"fmt"

	"github.com/mikey/grammar-relay/internal/adapters/t5"
	"github.com/mikey/grammar-relay/internal/config"
	"github.com/mikey/grammar-relay/internal/core"
	"go.uber.org/zap"
)

// EngineFactory creates correction engine clients
type EngineFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEngineFactory creates a new engine factory
func NewEngineFactory(cfg *config.Config, logger *zap.Logger) *EngineFactory {
	return &EngineFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCorrectionEngine creates a new correction engine client
func (f *EngineFactory) CreateCorrectionEngine() (core.CorrectionEngine, error) {
	engineCfg := f.cfg.GetEngine()
	timeout, err := f.cfg.GetDuration("engine.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid engine timeout: %w", err)
	}

	return t5.NewClient(
		engineCfg.Endpoint,
		engineCfg.APIKey,
		engineCfg.NumBeams,
		engineCfg.MinLength,
		timeout,
		f.logger,
	), nil
}
