package discord

import (
	"context"
	"sort"
	"strings"

	"github.com/Soypete/roastbot/commands"
	"github.com/bwmarrin/discordgo"
)

// handleMessage turns a prefixed message into an invocation and dispatches it. Messages
// from bots are ignored so the bot can never answer itself.
func (c *Client) handleMessage(ctx context.Context, msg *discordgo.Message) {
	inv, ok := c.invocation(msg)
	if !ok {
		return
	}
	resp := &responder{
		api:       c.api,
		channelID: msg.ChannelID,
		selfID:    inv.Self.ID,
		logger:    c.logger,
	}
	c.router.Dispatch(ctx, inv, resp)
}

func (c *Client) invocation(msg *discordgo.Message) (commands.Invocation, bool) {
	if msg.Author == nil || msg.Author.Bot {
		return commands.Invocation{}, false
	}
	name, args, ok := commands.ParseCommand(msg.Content, c.router.Prefix())
	if !ok {
		return commands.Invocation{}, false
	}
	if _, known := c.router.Lookup(name); !known {
		c.logger.Debug("ignoring unknown command", "command", name, "channelID", msg.ChannelID)
		return commands.Invocation{}, false
	}

	member := msg.Member
	if member == nil {
		member = c.members(msg.GuildID, msg.Author.ID)
	}
	inv := commands.NewInvocation(commands.PlatformDiscord, name, args, toUser(msg.Author, member))
	for _, u := range orderMentions(msg.Content, msg.Mentions) {
		inv.Mentions = append(inv.Mentions, toUser(u, c.members(msg.GuildID, u.ID)))
	}
	if self := c.self.Load(); self != nil {
		inv.Self = toUser(self, nil)
	}
	return inv, true
}

// toUser prefers the guild nickname, then the global name, then the username.
func toUser(u *discordgo.User, m *discordgo.Member) commands.User {
	name := u.Username
	switch {
	case m != nil && m.Nick != "":
		name = m.Nick
	case u.GlobalName != "":
		name = u.GlobalName
	}
	return commands.User{
		ID:          u.ID,
		DisplayName: name,
		Mention:     u.Mention(),
		Bot:         u.Bot,
	}
}

// orderMentions sorts mentions by where they appear in content. The gateway does not
// guarantee the order of the mentions array.
func orderMentions(content string, mentions []*discordgo.User) []*discordgo.User {
	pos := func(u *discordgo.User) int {
		best := -1
		for _, tag := range []string{"<@" + u.ID + ">", "<@!" + u.ID + ">"} {
			if i := strings.Index(content, tag); i >= 0 && (best < 0 || i < best) {
				best = i
			}
		}
		if best < 0 {
			return len(content)
		}
		return best
	}
	out := make([]*discordgo.User, 0, len(mentions))
	for _, u := range mentions {
		if u != nil {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return pos(out[i]) < pos(out[j]) })
	return out
}
