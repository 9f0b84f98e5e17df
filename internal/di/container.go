package di

import (
	"fmt"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/grammar-relay/internal/config"
	"github.com/mikey/grammar-relay/internal/core"
	"github.com/mikey/grammar-relay/internal/factory"
	"github.com/mikey/grammar-relay/internal/gateway"
	"github.com/mikey/grammar-relay/internal/logging"
)

// BuildContainer creates and configures a dependency injection container.
// Every adapter is constructed once here and handed to the gateway
// explicitly; there is no hidden shared state besides the cache itself.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewEngineFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFormalizerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSenderFactory); err != nil {
		return nil, err
	}

	// Register backend ports
	if err := container.Provide(func(f *factory.EngineFactory) (core.CorrectionEngine, error) {
		return f.CreateCorrectionEngine()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FormalizerFactory) (core.FormalizeClient, error) {
		return f.CreateFormalizeClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.SenderFactory) (core.EmailSender, error) {
		return f.CreateEmailSender()
	}); err != nil {
		return nil, err
	}

	// Register core services
	if err := container.Provide(func(
		engine core.CorrectionEngine,
		cache core.CacheRepository,
		logger *zap.Logger,
		f *factory.CacheFactory,
	) (*core.Corrector, error) {
		ttl, err := f.GetCacheTTL()
		if err != nil {
			return nil, fmt.Errorf("invalid cache TTL: %w", err)
		}
		return core.NewCorrector(engine, cache, logger, f.IsCacheEnabled(), ttl), nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewFormalizer); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewDispatcher); err != nil {
		return nil, err
	}

	// Register gateway
	if err := container.Provide(gateway.NewHandlers); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		handlers *gateway.Handlers,
		cfg *config.Config,
		logger *zap.Logger,
	) (*gateway.Server, error) {
		callTimeout, err := cfg.GetDuration("server.call_timeout")
		if err != nil {
			callTimeout = 30 * time.Second
		}
		return gateway.NewServer(
			handlers,
			logger,
			cfg.GetString("server.listen_address"),
			cfg.GetString("server.ws_path"),
			callTimeout,
		), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}
