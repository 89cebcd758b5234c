// Package openai provides an OpenAI API implementation of the Completer interface.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is the default model used by the OpenAI provider.
const DefaultModel = string(openai.ChatModelGPT4o)

// Provider implements interpret.Completer using the OpenAI API.
type Provider struct {
	client *openai.Client
	model  string
}

// Config contains configuration for the OpenAI provider.
type Config struct {
	// APIKey for OpenAI (defaults to OPENAI_API_KEY env var)
	APIKey string
	// Model overrides the default chat model.
	Model string
}

// New creates a new OpenAI provider.
func New(config Config) (*Provider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &Provider{
		client: &client,
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// Complete sends a system and user prompt and returns the response text.
func (p *Provider) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", p.model)
	}

	return resp.Choices[0].Message.Content, nil
}
