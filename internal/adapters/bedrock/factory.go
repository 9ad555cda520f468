package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/config"
)

// Factory creates Bedrock clients
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new Bedrock factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new Bedrock client. When the backend is disabled the
// AWS credential chain is not touched at all.
func (f *Factory) CreateClient() (*Client, error) {
	bedrockCfg := f.cfg.GetBedrock()

	if !bedrockCfg.Enabled {
		return NewClient(nil, false, bedrockCfg.ModelID, bedrockCfg.MaxTokens, bedrockCfg.TopP, f.logger), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)

	return NewClient(
		client,
		true,
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.TopP,
		f.logger,
	), nil
}
