package factory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/adapters/bedrock"
	"github.com/scamshield/honeypot/internal/adapters/gemini"
	"github.com/scamshield/honeypot/internal/adapters/groq"
	"github.com/scamshield/honeypot/internal/adapters/openai"
	"github.com/scamshield/honeypot/internal/adapters/rulebased"
	"github.com/scamshield/honeypot/internal/config"
	"github.com/scamshield/honeypot/internal/core"
)

// LLMFactory builds the backend chain and selects the first available one.
// The selection is made at most once per process and cached; Reset exists for
// test isolation. A mid-process outage of the selected backend is not healed.
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger

	mu       sync.Mutex
	selected core.LLMClient
	chain    []core.LLMClient
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// NewLLMFactoryWithChain builds a factory over a fixed, pre-built chain.
// Used by tests to control availability.
func NewLLMFactoryWithChain(logger *zap.Logger, chain []core.LLMClient) *LLMFactory {
	return &LLMFactory{
		logger: logger,
		chain:  chain,
	}
}

// SelectClient returns the cached backend, probing the priority chain on
// first use. The rule-based classifier terminates the chain and always
// reports available, so selection cannot fail.
func (f *LLMFactory) SelectClient() (core.LLMClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.selected != nil {
		return f.selected, nil
	}

	chain := f.chain
	if chain == nil {
		built, err := f.buildChain()
		if err != nil {
			return nil, err
		}
		chain = built
	}

	for _, client := range chain {
		if client.IsAvailable() {
			f.logger.Info("Selected LLM backend", zap.String("backend", client.Name()))
			f.selected = client
			return client, nil
		}
		f.logger.Debug("LLM backend unavailable, trying next", zap.String("backend", client.Name()))
	}

	// Unreachable: the terminal fallback is always available.
	fallback := rulebased.New(f.logger, nil)
	f.selected = fallback
	return fallback, nil
}

// Reset discards the cached selection so the next call re-probes the chain.
func (f *LLMFactory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = nil
}

// buildChain constructs all backends in fixed priority order.
func (f *LLMFactory) buildChain() ([]core.LLMClient, error) {
	groqCfg := f.cfg.GetGroq()
	openaiCfg := f.cfg.GetOpenAI()
	geminiCfg := f.cfg.GetGemini()

	geminiClient, err := gemini.NewClient(context.Background(),
		geminiCfg.APIKey, geminiCfg.ModelName, geminiCfg.MaxTokens, f.logger)
	if err != nil {
		return nil, err
	}

	bedrockClient, err := bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	if err != nil {
		return nil, err
	}

	return []core.LLMClient{
		groq.NewClient(groqCfg.APIKey, groqCfg.BaseURL, groqCfg.ModelName, groqCfg.MaxTokens, f.logger),
		openai.NewClient(openaiCfg.APIKey, openaiCfg.ModelName, openaiCfg.MaxTokens, f.logger),
		geminiClient,
		bedrockClient,
		rulebased.New(f.logger, nil),
	}, nil
}
