package twitchirc

import (
	"context"
	"strings"

	"github.com/Soypete/roastbot/ai"
	"github.com/Soypete/roastbot/commands"
	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/metrics"
	v2 "github.com/gempir/go-twitch-irc/v2"
)

// maxMessageLength is the twitch chat message limit.
const maxMessageLength = 500

// HandleChat dispatches one chat message when it is a command.
func (irc *IRC) HandleChat(ctx context.Context, msg v2.PrivateMessage) {
	inv, ok := irc.invocation(msg)
	if !ok {
		return
	}
	irc.router.Dispatch(ctx, inv, &responder{client: irc.client, channel: irc.channel, logger: irc.logger})
}

func (irc *IRC) invocation(msg v2.PrivateMessage) (commands.Invocation, bool) {
	if strings.EqualFold(msg.User.Name, irc.self.ID) {
		return commands.Invocation{}, false
	}
	name, args, ok := commands.ParseCommand(strings.TrimSpace(msg.Message), irc.router.Prefix())
	if !ok {
		return commands.Invocation{}, false
	}

	inv := commands.NewInvocation(commands.PlatformTwitch, name, args, chatUser(msg.User.Name, msg.User.DisplayName))
	inv.Mentions = irc.mentions(args)
	inv.Self = irc.self
	return inv, true
}

// mentions collects "@name" tokens in order. Twitch logins are case insensitive, so the
// lowercased login is the identity.
func (irc *IRC) mentions(args string) []commands.User {
	var users []commands.User
	for _, tok := range strings.Fields(args) {
		if !strings.HasPrefix(tok, "@") {
			continue
		}
		name := strings.TrimRight(tok[1:], ",.!?:;")
		if name == "" {
			continue
		}
		u := chatUser(name, name)
		u.Bot = u.ID == irc.self.ID
		users = append(users, u)
	}
	return users
}

func chatUser(login, display string) commands.User {
	if display == "" {
		display = login
	}
	return commands.User{
		ID:          strings.ToLower(login),
		DisplayName: display,
		Mention:     "@" + display,
	}
}

// responder sends one line per reply. Twitch has no embeds, typing indicator or reactions.
type responder struct {
	client  Client
	channel string
	logger  *logging.Logger
}

func (r *responder) Send(ctx context.Context, reply commands.Reply) (string, error) {
	text := formatMessage(reply)
	if text == "" {
		return "", nil
	}
	r.client.Say(r.channel, text)
	metrics.MessageSentCount.Add(1)
	r.logger.Debug("sent message", "length", len(text))
	return "", nil
}

func (r *responder) Typing(ctx context.Context) error {
	return nil
}

// formatMessage flattens reply to a single line within the chat limit.
func formatMessage(reply commands.Reply) string {
	text := ai.Flatten(reply.PlainText())
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "`", "")
	runes := []rune(text)
	if len(runes) > maxMessageLength {
		text = string(runes[:maxMessageLength-3]) + "..."
	}
	return text
}
