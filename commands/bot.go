package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/roast"
)

// DefaultRiddleTimeout is used when Settings leaves RiddleTimeout empty.
const DefaultRiddleTimeout = 60 * time.Second

// RevealEmoji is the reaction that reveals a riddle answer.
const RevealEmoji = "💡"

// selfLabel is the target label used when the bot roasts itself.
const selfLabel = "myself (this bot)"

// Settings tunes the built-in commands.
type Settings struct {
	// SelfRoastChance is the probability that roast targets the bot instead. Zero is
	// a valid setting.
	SelfRoastChance float64
	RiddleTimeout   time.Duration
	Rand            roast.Rand
	Logger          *logging.Logger
}

// Bot holds the built-in command handlers.
type Bot struct {
	provider        *roast.Provider
	router          *Router
	selfRoastChance float64
	riddleTimeout   time.Duration
	rng             roast.Rand
	logger          *logging.Logger
}

// NewBot creates the built-in handlers on top of provider.
func NewBot(provider *roast.Provider, s Settings) *Bot {
	b := &Bot{
		provider:        provider,
		selfRoastChance: s.SelfRoastChance,
		riddleTimeout:   s.RiddleTimeout,
		rng:             s.Rand,
		logger:          s.Logger,
	}
	if b.riddleTimeout <= 0 {
		b.riddleTimeout = DefaultRiddleTimeout
	}
	if b.rng == nil {
		b.rng = roast.DefaultRand()
	}
	if b.logger == nil {
		b.logger = logging.Default()
	}
	return b
}

// Register adds every built-in command to r.
func (b *Bot) Register(r *Router) error {
	b.router = r
	for _, cmd := range b.commands() {
		if err := r.Register(cmd); err != nil {
			return fmt.Errorf("failed to register %s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) commands() []Command {
	return []Command{
		{Name: "roast", Usage: "roast [@user|name]", Description: "Savage roast of a user, a name or yourself.", Handler: b.roast},
		{Name: "compliment", Usage: "compliment [@user|name]", Description: "Over the top compliment.", Handler: b.single(roast.Compliment)},
		{Name: "truth", Usage: "truth [@user|name]", Description: "A brutal but funny truth.", Handler: b.single(roast.Truth)},
		{Name: "fortune", Usage: "fortune [@user|name]", Description: "Read someone's absurd future.", Handler: b.single(roast.Fortune)},
		{Name: "joke", Usage: "joke [@user|name]", Description: "A short joke starring someone.", Handler: b.single(roast.Joke)},
		{Name: "story", Usage: "story [@user|name]", Description: "A tiny absurd adventure story.", Handler: b.single(roast.Story)},
		{Name: "advice", Usage: "advice [@user|name]", Description: "Confidently terrible life advice.", Handler: b.single(roast.Advice)},
		{Name: "therapy", Usage: "therapy [@user|name]", Description: "A deadpan therapy session.", Handler: b.single(roast.Therapy)},
		{Name: "verse", Aliases: []string{"rap"}, Usage: "verse [@user|name]", Description: "A four line diss verse.", Handler: b.single(roast.Verse)},
		{Name: "battle", Usage: "battle @user1 @user2", Description: "Roast battle between two users with a random winner.", Handler: b.battle},
		{Name: "compare", Usage: "compare @user [@user2]", Description: "Compare you and a user, or two users.", Handler: b.compare},
		{Name: "riddle", Usage: "riddle [@user|name]", Description: "A riddle. React with " + RevealEmoji + " to reveal the answer.", Handler: b.riddle},
		{Name: "coinflip", Aliases: []string{"flip"}, Usage: "coinflip", Description: "Heads or tails.", Handler: b.coinflip},
		{Name: "dice", Aliases: []string{"roll"}, Usage: "dice [NdM]", Description: fmt.Sprintf("Roll dice, default %s, up to %dd%d.", DefaultDice, MaxDice, MaxSides), Handler: b.dice},
		{Name: "choose", Usage: "choose a | b | c", Description: "Pick one of the options.", Handler: b.choose},
		{Name: "poll", Usage: "poll question | option1 | option2 ...", Description: fmt.Sprintf("Start a poll with %d to %d options.", MinPollOptions, MaxPollOptions), Handler: b.poll},
		{Name: "help", Usage: "help", Description: "List every command.", Handler: b.help},
		{Name: "ping", Aliases: []string{"test"}, Usage: "ping", Description: "Check the bot is alive.", Handler: b.ping},
	}
}

// spec returns the catalog entry for f. Every flavor exists in a validated catalog.
func (b *Bot) spec(f roast.Flavor) roast.FlavorSpec {
	s, _ := b.provider.Catalog().Get(f)
	return s
}

func (b *Bot) embed(f roast.Flavor, description string, inv Invocation) *Embed {
	s := b.spec(f)
	return &Embed{
		Title:       s.Emoji + " " + s.Title,
		Description: description,
		Color:       s.Color,
		Footer:      "Requested by " + inv.Invoker.DisplayName,
	}
}

func send(ctx context.Context, resp Responder, reply Reply) (string, error) {
	id, err := resp.Send(ctx, reply)
	if err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}
	return id, nil
}

// typing signals the composing state. Failures only get logged.
func (b *Bot) typing(ctx context.Context, resp Responder) {
	if err := resp.Typing(ctx); err != nil {
		b.logger.Debug("failed to send typing indicator", "error", err.Error())
	}
}
