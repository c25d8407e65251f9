package commands

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Soypete/roastbot/ai"
	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/roast"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	mu      sync.Mutex
	replies []Reply
	typing  int
	sendErr error
}

func (f *fakeResponder) Send(ctx context.Context, reply Reply) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.replies = append(f.replies, reply)
	return fmt.Sprintf("msg-%d", len(f.replies)), nil
}

func (f *fakeResponder) Typing(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return nil
}

func (f *fakeResponder) Replies() []Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Reply(nil), f.replies...)
}

type fakeReactor struct {
	*fakeResponder
	outcome   WaitOutcome
	waitErr   error
	reactions []string
	waitedFor []string
}

func newFakeReactor(outcome WaitOutcome) *fakeReactor {
	return &fakeReactor{fakeResponder: &fakeResponder{}, outcome: outcome}
}

func (f *fakeReactor) React(ctx context.Context, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, messageID+" "+emoji)
	return nil
}

func (f *fakeReactor) WaitForReaction(ctx context.Context, messageID, emoji string, timeout time.Duration) (WaitOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waitedFor = append(f.waitedFor, messageID+" "+emoji)
	return f.outcome, f.waitErr
}

type stubCompleter struct {
	calls atomic.Int32
	text  string
	mu    sync.Mutex
	reqs  []ai.Request
}

func (s *stubCompleter) Complete(ctx context.Context, req ai.Request) ai.Result {
	s.calls.Add(1)
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	return ai.Success(s.text)
}

func (s *stubCompleter) Backend() string {
	return "stub"
}

func (s *stubCompleter) Requests() []ai.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ai.Request(nil), s.reqs...)
}

// newTestRouter wires the built-in commands to a provider backed by completer. A nil
// completer runs the provider in fallback-only mode.
func newTestRouter(t *testing.T, completer ai.Completer, s Settings) *Router {
	t.Helper()
	catalog, err := roast.DefaultCatalog()
	require.NoError(t, err)

	provider := roast.NewProvider(catalog, completer, roast.WithLogger(logging.Discard()), roast.WithRand(roast.NewRand(3)))

	if s.Rand == nil {
		s.Rand = roast.NewRand(11)
	}
	if s.Logger == nil {
		s.Logger = logging.Discard()
	}
	router := NewRouter(",", logging.Discard())
	require.NoError(t, NewBot(provider, s).Register(router))
	return router
}

var (
	pete   = User{ID: "1", DisplayName: "Pete", Mention: "<@1>"}
	miriah = User{ID: "2", DisplayName: "Miriah", Mention: "<@2>"}
	nico   = User{ID: "3", DisplayName: "Nico", Mention: "<@3>"}
)

func invocation(name, args string, mentions ...User) Invocation {
	inv := NewInvocation(PlatformDiscord, name, args, pete)
	inv.Mentions = mentions
	return inv
}
