package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/adapters/httpapi"
	"github.com/scamshield/honeypot/internal/agent"
	"github.com/scamshield/honeypot/internal/config"
	"github.com/scamshield/honeypot/internal/core"
	"github.com/scamshield/honeypot/internal/factory"
	"github.com/scamshield/honeypot/internal/intel"
	"github.com/scamshield/honeypot/internal/logging"
)

// BuildContainer creates and configures a dependency injection container
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
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register the selected LLM backend
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.SelectClient()
	}); err != nil {
		return nil, err
	}

	// Register detector
	if err := container.Provide(core.NewDetector); err != nil {
		return nil, err
	}

	// Register the responder agent
	if err := container.Provide(func(client core.LLMClient, logger *zap.Logger) core.ResponderAgent {
		return agent.New(client, logger, nil)
	}); err != nil {
		return nil, err
	}

	// Register verdict cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.VerdictCache, error) {
		return f.CreateVerdictCache()
	}); err != nil {
		return nil, err
	}

	// Register honeypot service
	if err := container.Provide(func(
		detector *core.Detector,
		responder core.ResponderAgent,
		cache core.VerdictCache,
		cacheFactory *factory.CacheFactory,
		logger *zap.Logger,
	) (*core.HoneypotService, error) {
		ttl, err := cacheFactory.GetCacheTTL()
		if err != nil {
			ttl = time.Hour
		}
		return core.NewHoneypotService(
			detector,
			responder,
			cache,
			intel.ExtractAll,
			logger,
			cacheFactory.IsCacheEnabled(),
			ttl,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(service *core.HoneypotService, cfg *config.Config, logger *zap.Logger) *httpapi.Server {
		serverCfg := cfg.GetServer()
		return httpapi.NewServer(service, serverCfg.ListenAddress, serverCfg.APIKey, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
