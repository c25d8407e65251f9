package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/Soypete/roastbot/commands"
	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/metrics"
	"github.com/bwmarrin/discordgo"
)

// discord message limits
const (
	maxContent          = 2000
	maxEmbedTitle       = 256
	maxEmbedDescription = 4096
	maxFieldName        = 256
	maxFieldValue       = 1024
	maxFields           = 25
)

// responder replies in one channel. It implements commands.Responder and commands.Reactor.
type responder struct {
	api       Session
	channelID string
	selfID    string
	logger    *logging.Logger
}

func (r *responder) Send(ctx context.Context, reply commands.Reply) (string, error) {
	msg, err := r.api.ChannelMessageSendComplex(r.channelID, toMessageSend(reply), discordgo.WithContext(ctx))
	if err != nil {
		r.logger.Error("error sending message to channel", "error", err.Error(), "channelID", r.channelID)
		return "", fmt.Errorf("error sending discord message: %w", err)
	}
	metrics.MessageSentCount.Add(1)
	if msg == nil {
		return "", nil
	}
	return msg.ID, nil
}

func (r *responder) Typing(ctx context.Context) error {
	return r.api.ChannelTyping(r.channelID, discordgo.WithContext(ctx))
}

func (r *responder) React(ctx context.Context, messageID, emoji string) error {
	if err := r.api.MessageReactionAdd(r.channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error adding reaction: %w", err)
	}
	return nil
}

// WaitForReaction registers a temporary reaction handler and removes it when the wait ends.
func (r *responder) WaitForReaction(ctx context.Context, messageID, emoji string, timeout time.Duration) (commands.WaitOutcome, error) {
	got := make(chan string, 1)
	remove := r.api.AddHandler(func(_ *discordgo.Session, ev *discordgo.MessageReactionAdd) {
		if ev == nil || ev.MessageReaction == nil {
			return
		}
		if ev.MessageID != messageID || ev.Emoji.Name != emoji || ev.UserID == r.selfID {
			return
		}
		if ev.Member != nil && ev.Member.User != nil && ev.Member.User.Bot {
			return
		}
		select {
		case got <- ev.UserID:
		default:
		}
	})
	defer remove()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case userID := <-got:
		r.logger.Debug("reaction received", "messageID", messageID, "userID", userID)
		return commands.WaitReceived, nil
	case <-timer.C:
		return commands.WaitTimedOut, nil
	case <-ctx.Done():
		return commands.WaitTimedOut, nil
	}
}

func toMessageSend(reply commands.Reply) *discordgo.MessageSend {
	ms := &discordgo.MessageSend{Content: truncate(reply.Text, maxContent)}
	e := reply.Embed
	if e == nil {
		return ms
	}

	embed := &discordgo.MessageEmbed{
		Title:       truncate(e.Title, maxEmbedTitle),
		Description: truncate(e.Description, maxEmbedDescription),
		Color:       e.Color,
	}
	for i, f := range e.Fields {
		if i == maxFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   truncate(f.Name, maxFieldName),
			Value:  truncate(f.Value, maxFieldValue),
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	ms.Embeds = []*discordgo.MessageEmbed{embed}
	return ms
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
