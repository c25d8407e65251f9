// Package commands routes prefixed chat commands to their handlers. It knows nothing about
// the platform the invocation came from: adapters translate platform events into an
// Invocation and provide a Responder for the reply.
package commands

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Platform names the adapter an invocation arrived on.
type Platform string

const (
	PlatformDiscord Platform = "discord"
	PlatformTwitch  Platform = "twitch"
)

// User is a chat identity as seen by the command layer.
type User struct {
	ID          string
	DisplayName string
	// Mention is the platform tag that pings the user, e.g. "<@123>" or "@name".
	Mention string
	Bot     bool
}

// Invocation is one command message. It lives for a single dispatch.
type Invocation struct {
	ID       uuid.UUID
	Name     string
	Invoker  User
	Mentions []User
	// Args is the raw text after the command name, mention tokens included.
	Args     string
	Platform Platform
	// Self is the bot's own identity on the platform.
	Self User
}

// NewInvocation builds an invocation with a fresh id.
func NewInvocation(platform Platform, name, args string, invoker User) Invocation {
	return Invocation{
		ID:       uuid.New(),
		Name:     strings.ToLower(name),
		Invoker:  invoker,
		Args:     args,
		Platform: platform,
	}
}

// ParseCommand splits content into a lowercased command name and its arguments. ok is false
// when content does not start with prefix immediately followed by a name.
func ParseCommand(content, prefix string) (name, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := content[len(prefix):]
	first, _ := utf8.DecodeRuneInString(rest)
	if rest == "" || unicode.IsSpace(first) {
		return "", "", false
	}
	i := strings.IndexFunc(rest, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(rest), "", true
	}
	return strings.ToLower(rest[:i]), strings.TrimSpace(rest[i:]), true
}

// distinctMentions drops repeated mentions of the same user, keeping order.
func distinctMentions(users []User) []User {
	seen := make(map[string]struct{}, len(users))
	out := make([]User, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}
