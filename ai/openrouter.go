package ai

import (
	"context"

	"github.com/Soypete/roastbot/config"
	"github.com/Soypete/roastbot/logging"
	"github.com/revrost/go-openrouter"
)

// OpenRouter is a completer backed by the go-openrouter client. It always targets openrouter.ai.
type OpenRouter struct {
	client *openrouter.Client
	model  string
	logger *logging.Logger
}

// NewOpenRouter creates the go-openrouter client for cfg.
func NewOpenRouter(cfg config.AIConfig, logger *logging.Logger) *OpenRouter {
	if logger == nil {
		logger = logging.Default()
	}
	return &OpenRouter{
		client: openrouter.NewClient(
			cfg.APIKey,
			openrouter.WithXTitle("roastbot"),
		),
		model:  cfg.Model,
		logger: logger,
	}
}

// Backend implements Completer.
func (o *OpenRouter) Backend() string {
	return config.BackendOpenRouter
}

// Complete implements Completer.
func (o *OpenRouter) Complete(ctx context.Context, req Request) Result {
	resp, err := o.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model: o.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{Text: req.System},
			},
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: req.Prompt},
			},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return finish(ctx, o.Backend(), "", err, o.logger)
	}
	if len(resp.Choices) == 0 {
		return finish(ctx, o.Backend(), "", ErrNoChoices, o.logger)
	}
	return finish(ctx, o.Backend(), resp.Choices[0].Message.Content.Text, nil, o.logger)
}
