package interpreter

import (
	"context"
	"fmt"

	"fjacquet/statement-parser/internal/logging"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderGenAI  = "genai"
	ProviderOpenAI = "openai"
)

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string // openai only
	Backend  string // genai only
	Project  string // genai Vertex AI only
	Location string // genai Vertex AI only
}

// NewGenerator builds the Generator named by cfg.Provider.
func NewGenerator(ctx context.Context, cfg ProviderConfig) (Generator, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	case ProviderGenAI:
		return NewGenAIGenerator(ctx, GenAIOptions{
			APIKey:   cfg.APIKey,
			Model:    cfg.Model,
			Backend:  cfg.Backend,
			Project:  cfg.Project,
			Location: cfg.Location,
		})
	case ProviderOpenAI:
		return NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown interpreter provider %q", cfg.Provider)
	}
}

// New builds an LLMInterpreter for the configured provider.
func New(ctx context.Context, cfg ProviderConfig, logger logging.Logger) (*LLMInterpreter, error) {
	generator, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: generator.Name()},
		logging.Field{Key: logging.FieldModel, Value: cfg.Model},
	).Debug("Interpreter provider initialized")
	return NewLLMInterpreter(generator, logger), nil
}
