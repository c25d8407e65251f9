package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/metrics"
	"github.com/google/uuid"
)

// HandlerFunc runs one command. Returned errors are answered by the router.
type HandlerFunc func(ctx context.Context, inv Invocation, resp Responder) error

// Command describes a registered command.
type Command struct {
	Name    string
	Aliases []string
	// Usage is the argument synopsis shown by help and usage hints, without the prefix.
	Usage       string
	Description string
	Handler     HandlerFunc
}

const apology = "🔥 Something went wrong on my end. Even I'm embarrassed by this failure, try again in a moment."

// Router maps command names and aliases to handlers.
type Router struct {
	prefix   string
	logger   *logging.Logger
	byName   map[string]*Command
	commands []*Command
}

// NewRouter creates an empty router for the given command prefix.
func NewRouter(prefix string, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{
		prefix: prefix,
		logger: logger,
		byName: make(map[string]*Command),
	}
}

// Prefix returns the command prefix.
func (r *Router) Prefix() string {
	return r.prefix
}

// Register adds cmd. Names and aliases are case insensitive and must be unique.
func (r *Router) Register(cmd Command) error {
	if cmd.Name == "" || cmd.Handler == nil {
		return fmt.Errorf("command requires a name and a handler")
	}
	c := cmd
	names := append([]string{c.Name}, c.Aliases...)
	for _, n := range names {
		if _, ok := r.byName[strings.ToLower(n)]; ok {
			return fmt.Errorf("command %q is already registered", n)
		}
	}
	for _, n := range names {
		r.byName[strings.ToLower(n)] = &c
	}
	r.commands = append(r.commands, &c)
	return nil
}

// Lookup finds a command by name or alias.
func (r *Router) Lookup(name string) (*Command, bool) {
	c, ok := r.byName[strings.ToLower(name)]
	return c, ok
}

// Commands returns the registered commands sorted by name.
func (r *Router) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch runs the handler for inv. Unknown commands are ignored and reported as not
// handled. Handler errors and panics never escape: usage errors get a hint, anything else
// is logged and answered with an apology.
func (r *Router) Dispatch(ctx context.Context, inv Invocation, resp Responder) bool {
	cmd, ok := r.Lookup(inv.Name)
	if !ok {
		r.logger.Debug("ignoring unknown command", "command", inv.Name, "platform", inv.Platform)
		return false
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	logger := r.logger.With(
		"invocationID", inv.ID.String(),
		"command", cmd.Name,
		"platform", string(inv.Platform),
		"invoker", inv.Invoker.DisplayName,
	)
	logger.Info("dispatching command")
	metrics.MessageReceivedCount.Add(1)
	metrics.CommandTotal.WithLabelValues(string(inv.Platform), cmd.Name).Inc()

	start := time.Now()
	defer func() {
		metrics.CommandDuration.WithLabelValues(cmd.Name).Observe(time.Since(start).Seconds())
	}()

	err := run(ctx, cmd, inv, resp)
	if err == nil {
		return true
	}

	var (
		usageErr *UsageError
		pErr     *panicError
		reply    Reply
	)
	switch {
	case errors.As(err, &usageErr):
		metrics.CommandErrors.WithLabelValues(cmd.Name, "usage").Inc()
		logger.Debug("usage error", "error", err.Error())
		reply = Text(fmt.Sprintf("🔥 %s Usage: `%s%s`", usageErr.Msg, r.prefix, cmd.Usage))
	case errors.As(err, &pErr):
		metrics.CommandErrors.WithLabelValues(cmd.Name, "panic").Inc()
		logger.Error("command panicked", "error", err.Error(), "stack", string(pErr.stack))
		reply = Text(apology)
	default:
		metrics.CommandErrors.WithLabelValues(cmd.Name, "internal").Inc()
		logger.Error("command failed", "error", err.Error())
		reply = Text(apology)
	}

	if _, sendErr := resp.Send(ctx, reply); sendErr != nil {
		metrics.CommandErrors.WithLabelValues(cmd.Name, "send").Inc()
		logger.Error("failed to send error reply", "error", sendErr.Error())
	}
	return true
}

func run(ctx context.Context, cmd *Command, inv Invocation, resp Responder) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec, stack: debug.Stack()}
		}
	}()
	return cmd.Handler(ctx, inv, resp)
}
