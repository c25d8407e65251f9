package roast

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Soypete/roastbot/ai"
	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/metrics"
)

// Source tells where a Result's text came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// DefaultTimeout bounds one completion call.
const DefaultTimeout = 10 * time.Second

// Result is the text produced for one request. Answer is only set for riddles.
// Reason is set when the fallback table was used.
type Result struct {
	Text   string
	Answer string
	Source Source
	Reason ai.Reason
}

const unknownFlavorFallback = "{target}, I'm speechless. And that's saying something."

// Provider produces flavored text for a target label.
type Provider struct {
	catalog   *Catalog
	completer ai.Completer
	timeout   time.Duration
	rng       Rand
	logger    *logging.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRand sets the random source used for fallback selection.
func WithRand(r Rand) Option {
	return func(p *Provider) {
		p.rng = r
	}
}

// WithLogger sets the provider logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// NewProvider creates a provider. A nil completer means fallback-only mode.
func NewProvider(catalog *Catalog, completer ai.Completer, opts ...Option) *Provider {
	p := &Provider{
		catalog:   catalog,
		completer: completer,
		timeout:   DefaultTimeout,
		rng:       DefaultRand(),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AIEnabled reports whether the provider will attempt completion calls.
func (p *Provider) AIEnabled() bool {
	return p.completer != nil
}

// Catalog returns the flavor catalog.
func (p *Provider) Catalog() *Catalog {
	return p.catalog
}

// Produce returns text for flavor about target. other is the second label of two-party
// flavors and ignored otherwise. It makes at most one completion call and never fails.
func (p *Provider) Produce(ctx context.Context, flavor Flavor, target, other string) Result {
	spec, ok := p.catalog.Get(flavor)
	if !ok {
		p.logger.Warn("unknown flavor, using generic fallback", "flavor", flavor)
		metrics.FallbackTotal.WithLabelValues(string(flavor), "unknown_flavor").Inc()
		return Result{Text: fill(unknownFlavorFallback, target, other), Source: SourceFallback}
	}

	if p.completer == nil {
		return p.fallback(spec, target, other, ai.ReasonDisabled)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res := p.completer.Complete(callCtx, spec.Request(target, other))
	if !res.OK() {
		return p.fallback(spec, target, other, res.Reason)
	}

	if flavor == Riddle {
		riddle, answer, ok := ParseRiddle(res.Text)
		if !ok {
			return p.fallback(spec, target, other, ai.ReasonMalformed)
		}
		return Result{Text: riddle, Answer: answer, Source: SourceAI}
	}
	return Result{Text: res.Text, Source: SourceAI}
}

// fallback picks one entry uniformly at random, with replacement.
func (p *Provider) fallback(spec FlavorSpec, target, other string, reason ai.Reason) Result {
	entry := spec.Fallbacks[p.rng.IntN(len(spec.Fallbacks))]
	p.logger.Debug("using fallback content", "flavor", spec.Flavor, "reason", reason)
	metrics.FallbackTotal.WithLabelValues(string(spec.Flavor), string(reason)).Inc()
	return Result{
		Text:   fill(entry.Text, target, other),
		Answer: entry.Answer,
		Source: SourceFallback,
		Reason: reason,
	}
}

var riddlePattern = regexp.MustCompile(`(?is)riddle:\s*(.+?)\s*answer:\s*(.+)`)

// ParseRiddle splits a "RIDDLE: ... ANSWER: ..." completion.
func ParseRiddle(text string) (riddle, answer string, ok bool) {
	m := riddlePattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	riddle = strings.TrimSpace(m[1])
	answer = strings.TrimSpace(m[2])
	if riddle == "" || answer == "" {
		return "", "", false
	}
	return riddle, answer, true
}
