// package ai defines the completion contract used by the roast provider and the clients that implement it.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Soypete/roastbot/config"
	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/metrics"
)

// Request is a single chat completion: one system instruction and one user prompt.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Reason names why a completion did not produce usable text.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonDisabled  Reason = "disabled"
	ReasonTimeout   Reason = "timeout"
	ReasonCanceled  Reason = "canceled"
	ReasonStatus    Reason = "status"
	ReasonTransport Reason = "transport"
	ReasonMalformed Reason = "malformed"
	ReasonEmpty     Reason = "empty"
)

// Result is either success(Text) or failure(Reason). Err carries the underlying cause for logging.
type Result struct {
	Text   string
	Reason Reason
	Err    error
}

// OK reports whether the result carries completion text.
func (r Result) OK() bool {
	return r.Reason == ReasonNone
}

// Success builds a successful result.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure builds a failed result.
func Failure(reason Reason, err error) Result {
	return Result{Reason: reason, Err: err}
}

// Completer is implemented by every completion backend. Complete never panics and never
// returns a partially filled success.
type Completer interface {
	Complete(ctx context.Context, req Request) Result
	Backend() string
}

var (
	// ErrNoChoices is returned when a response carries no completion choices.
	ErrNoChoices = errors.New("no choices returned from API")
)

// StatusError is a non-200 answer from the completion endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion endpoint returned HTTP %d", e.Code)
}

// NewCompleter builds the backend selected by cfg. It returns nil when no credential is
// configured, which puts the roast provider permanently in fallback-only mode.
func NewCompleter(cfg config.AIConfig, logger *logging.Logger) (Completer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.Enabled() {
		logger.Warn("no AI credential configured, using built-in fallback content")
		return nil, nil
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	logger.Info("setting up completion backend", "backend", cfg.Backend, "model", cfg.Model, "url", cfg.BaseURL)
	switch cfg.Backend {
	case config.BackendOpenAI:
		return NewOpenAI(cfg, httpClient, logger), nil
	case config.BackendOpenRouter:
		return NewOpenRouter(cfg, logger), nil
	case config.BackendLangchain, "":
		return NewLangchain(cfg, httpClient, logger)
	default:
		return nil, fmt.Errorf("unknown completion backend %q", cfg.Backend)
	}
}

// finish turns the raw outcome of a backend call into a Result and records it.
func finish(ctx context.Context, backend string, text string, err error, logger *logging.Logger) Result {
	var res Result
	switch {
	case err != nil:
		res = Failure(classify(ctx, err), err)
	default:
		text = CleanResponse(text)
		if text == "" {
			res = Failure(ReasonEmpty, errors.New("completion text is empty"))
		} else {
			res = Success(text)
		}
	}

	outcome := "success"
	if !res.OK() {
		outcome = string(res.Reason)
		logger.Warn("completion failed", "backend", backend, "reason", outcome, "error", res.Err.Error())
	} else {
		logger.Debug("completion succeeded", "backend", backend, "length", len(res.Text))
	}
	metrics.CompletionTotal.WithLabelValues(backend, outcome).Inc()
	return res
}

func classify(ctx context.Context, err error) Reason {
	var statusErr *StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return ReasonCanceled
	case errors.As(err, &statusErr):
		return ReasonStatus
	case errors.Is(err, ErrNoChoices):
		return ReasonMalformed
	default:
		return classifyBackend(err)
	}
}
