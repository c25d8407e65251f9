package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Soypete/roastbot/config"
	"github.com/Soypete/roastbot/logging"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Langchain is a completer backed by the langchaingo OpenAI client. Any endpoint that speaks
// the OpenAI chat completions schema works, including OpenRouter and llama.cpp.
type Langchain struct {
	llm    llms.Model
	logger *logging.Logger
}

// NewLangchain creates the langchaingo client for cfg.
func NewLangchain(cfg config.AIConfig, httpClient *http.Client, logger *logging.Logger) (*Langchain, error) {
	if logger == nil {
		logger = logging.Default()
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(statusDoer{client: httpClient}),
	}
	llm, err := openai.New(opts...)
	if err != nil {
		logger.Error("failed to create OpenAI LLM", "error", err.Error())
		return nil, fmt.Errorf("failed to create OpenAI LLM: %w", err)
	}
	return &Langchain{llm: llm, logger: logger}, nil
}

// Backend implements Completer.
func (l *Langchain) Backend() string {
	return config.BackendLangchain
}

// Complete implements Completer.
func (l *Langchain) Complete(ctx context.Context, req Request) Result {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}

	resp, err := l.llm.GenerateContent(ctx, messages,
		llms.WithCandidateCount(1),
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	)
	if err != nil {
		return finish(ctx, l.Backend(), "", err, l.logger)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return finish(ctx, l.Backend(), "", ErrNoChoices, l.logger)
	}
	return finish(ctx, l.Backend(), resp.Choices[0].Content, nil, l.logger)
}

// statusDoer turns non-200 answers into a *StatusError before langchaingo parses the body.
type statusDoer struct {
	client *http.Client
}

func (d statusDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return resp, nil
}
