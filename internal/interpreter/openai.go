package interpreter

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured for the openai provider.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIGenerator talks to an OpenAI-compatible chat completion endpoint. Only
// text documents (CSV) can be sent; chat completions do not accept PDFs inline.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a client. baseURL overrides the API endpoint for
// compatible servers.
func NewOpenAIGenerator(apiKey, baseURL, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai provider requires an API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Name implements Generator.
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Generate implements Generator using the JSON-object response format.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, doc *Document) (string, error) {
	content := prompt
	if doc != nil {
		if !strings.HasPrefix(doc.MIMEType, "text/") {
			return "", fmt.Errorf("%w: openai provider cannot read %s", ErrUnsupportedDocument, doc.MIMEType)
		}
		content = fmt.Sprintf("%s\n\nStatement (%s):\n%s", prompt, doc.MIMEType, doc.Data)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: content,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrMalformedOutput)
	}
	return resp.Choices[0].Message.Content, nil
}
