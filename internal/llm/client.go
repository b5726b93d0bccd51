package llm

import (
	"context"
	"fmt"

	"companion_bot/pkg"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"
)

// Client wraps a provider chat model behind the narrow Generate surface the
// conversation engine and summarizer need.
type Client struct {
	chat model.BaseChatModel
}

// NewClient builds the configured provider. Sampling parameters from the
// settings file are passed through opaquely.
func NewClient(ctx context.Context, cfg pkg.ModelConfig, apiKey string) (*Client, error) {
	switch cfg.Provider {
	case "", "openai":
		return newOpenAIClient(ctx, cfg, apiKey)
	case "ollama":
		return newOllamaClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newOpenAIClient(ctx context.Context, cfg pkg.ModelConfig, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)
	topP := float32(cfg.TopP)
	frequencyPenalty := float32(cfg.FrequencyPenalty)
	presencePenalty := float32(cfg.PresencePenalty)

	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:           apiKey,
		BaseURL:          cfg.BaseURL,
		Model:            cfg.Model,
		MaxTokens:        &maxTokens,
		Temperature:      &temperature,
		TopP:             &topP,
		FrequencyPenalty: &frequencyPenalty,
		PresencePenalty:  &presencePenalty,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}
	return &Client{chat: chat}, nil
}

func newOllamaClient(ctx context.Context, cfg pkg.ModelConfig) (*Client, error) {
	chat, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Options: &api.Options{
			Temperature:      float32(cfg.Temperature),
			NumPredict:       cfg.MaxTokens,
			TopP:             float32(cfg.TopP),
			FrequencyPenalty: float32(cfg.FrequencyPenalty),
			PresencePenalty:  float32(cfg.PresencePenalty),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ollama chat model: %w", err)
	}
	return &Client{chat: chat}, nil
}

// Generate runs one chat completion.
func (c *Client) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	return c.chat.Generate(ctx, messages)
}
