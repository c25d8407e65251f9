package twitchirc

import (
	"context"
	"sync"

	"github.com/Soypete/roastbot/logging"
	v2 "github.com/gempir/go-twitch-irc/v2"
)

// Queue defaults.
const (
	defaultQueueSize = 100
	defaultWorkers   = 4
)

// queue hands chat messages from the IRC read loop to a fixed set of workers, so a slow
// command such as a riddle wait never stalls the connection.
type queue struct {
	msgs    chan v2.PrivateMessage
	workers int
	handle  func(ctx context.Context, msg v2.PrivateMessage)
	logger  *logging.Logger
}

func newQueue(size, workers int, handle func(context.Context, v2.PrivateMessage), logger *logging.Logger) *queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &queue{
		msgs:    make(chan v2.PrivateMessage, size),
		workers: workers,
		handle:  handle,
		logger:  logger,
	}
}

// Publish enqueues msg without blocking. It reports false when the queue is full and the
// message was dropped.
func (q *queue) Publish(msg v2.PrivateMessage) bool {
	select {
	case q.msgs <- msg:
		return true
	default:
		q.logger.Warn("message queue full, dropping message", "user", msg.User.Name)
		return false
	}
}

// Start runs the workers until ctx is done.
func (q *queue) Start(ctx context.Context, wg *sync.WaitGroup) {
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-q.msgs:
					q.handle(ctx, msg)
				}
			}
		}()
	}
	q.logger.Debug("message queue started", "workers", q.workers)
}

// Len returns the current queue depth.
func (q *queue) Len() int {
	return len(q.msgs)
}
