package commands

import (
	"context"
	"time"
)

// Responder sends replies to the channel an invocation came from.
type Responder interface {
	// Send posts the reply and returns the platform message id, empty when the platform
	// has none.
	Send(ctx context.Context, reply Reply) (string, error)
	// Typing shows the composing indicator. It is advisory and errors may be ignored.
	Typing(ctx context.Context) error
}

// WaitOutcome is the result of a bounded reaction wait.
type WaitOutcome int

const (
	WaitTimedOut WaitOutcome = iota
	WaitReceived
)

func (o WaitOutcome) String() string {
	if o == WaitReceived {
		return "received"
	}
	return "timed out"
}

// Reactor is implemented by responders on platforms with message reactions.
type Reactor interface {
	React(ctx context.Context, messageID, emoji string) error
	// WaitForReaction blocks until a non-bot user adds emoji to messageID, the timeout
	// elapses or ctx is done. Only the first matching reaction counts.
	WaitForReaction(ctx context.Context, messageID, emoji string, timeout time.Duration) (WaitOutcome, error)
}
