package interpreter

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGenAIModel is used when no model is configured for the genai provider.
const DefaultGenAIModel = "gemini-2.5-flash"

// Backends accepted by the genai provider.
const (
	BackendGeminiAPI = "gemini"
	BackendVertexAI  = "vertex"
)

// GenAIOptions configures a GenAIGenerator.
type GenAIOptions struct {
	APIKey   string
	Model    string
	Backend  string // BackendGeminiAPI or BackendVertexAI
	Project  string // Vertex AI only
	Location string // Vertex AI only
}

// GenAIGenerator talks to Gemini through the unified google.golang.org/genai
// SDK, against either the Gemini API or Vertex AI.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a client for the configured backend.
func NewGenAIGenerator(ctx context.Context, opts GenAIOptions) (*GenAIGenerator, error) {
	cfg := &genai.ClientConfig{}
	switch opts.Backend {
	case "", BackendGeminiAPI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("genai provider requires an API key for the Gemini API backend")
		}
		cfg.APIKey = opts.APIKey
		cfg.Backend = genai.BackendGeminiAPI
	case BackendVertexAI:
		if opts.Project == "" || opts.Location == "" {
			return nil, fmt.Errorf("genai provider requires project and location for the Vertex AI backend")
		}
		cfg.Project = opts.Project
		cfg.Location = opts.Location
		cfg.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("unknown genai backend %q", opts.Backend)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultGenAIModel
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

// Name implements Generator.
func (g *GenAIGenerator) Name() string {
	return "genai"
}

// Generate implements Generator, requesting a JSON response.
func (g *GenAIGenerator) Generate(ctx context.Context, prompt string, doc *Document) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	if doc != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data},
		})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response from model", ErrMalformedOutput)
	}
	return text, nil
}
