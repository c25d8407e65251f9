package ai

import (
	"context"
	"errors"
	"net/http"

	"github.com/Soypete/roastbot/config"
	"github.com/Soypete/roastbot/logging"
	"github.com/sashabaranov/go-openai"
)

// OpenAI is a completer backed by the go-openai client.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *logging.Logger
}

// NewOpenAI creates the go-openai client for cfg.
func NewOpenAI(cfg config.AIConfig, httpClient *http.Client, logger *logging.Logger) *OpenAI {
	if logger == nil {
		logger = logging.Default()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Backend implements Completer.
func (o *OpenAI) Backend() string {
	return config.BackendOpenAI
}

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, req Request) Result {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
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
	return finish(ctx, o.Backend(), resp.Choices[0].Message.Content, nil, o.logger)
}

// classifyBackend maps client specific error types onto a Reason.
func classifyBackend(err error) Reason {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		return ReasonStatus
	case errors.As(err, &reqErr):
		if reqErr.HTTPStatusCode != 0 && reqErr.HTTPStatusCode != http.StatusOK {
			return ReasonStatus
		}
		return ReasonMalformed
	default:
		return ReasonTransport
	}
}
