package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/grammar-relay/internal/adapters/bedrock"
	"github.com/mikey/grammar-relay/internal/adapters/gemini"
	openaiadapter "github.com/mikey/grammar-relay/internal/adapters/openai"
	"github.com/mikey/grammar-relay/internal/config"
	"github.com/mikey/grammar-relay/internal/core"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// FormalizerFactory creates formalization clients based on configuration
type FormalizerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFormalizerFactory creates a new formalizer factory
func NewFormalizerFactory(cfg *config.Config, logger *zap.Logger) *FormalizerFactory {
	return &FormalizerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFormalizeClient creates a formalization client based on the configuration
func (f *FormalizerFactory) CreateFormalizeClient() (core.FormalizeClient, error) {
	provider := f.cfg.GetString("formalizer.provider")

	switch provider {
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		client := openai.NewClient(openaiCfg.APIKey)
		return openaiadapter.NewClient(
			client,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			f.logger,
		), nil
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		return gemini.NewClient(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			f.logger,
		)
	case "bedrock":
		bedrockCfg := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(bedrockCfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return bedrock.NewClient(
			bedrockruntime.NewFromConfig(awsCfg),
			bedrockCfg.ModelID,
			bedrockCfg.MaxTokens,
			bedrockCfg.Temperature,
			bedrockCfg.TopP,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported formalizer provider: %s", provider)
	}
}
