package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/Soypete/roastbot/roast"
	"golang.org/x/sync/errgroup"
)

func (b *Bot) roast(ctx context.Context, inv Invocation, resp Responder) error {
	if b.selfRoastChance > 0 && b.rng.Float64() < b.selfRoastChance {
		b.typing(ctx, resp)
		res := b.provider.Produce(ctx, roast.Roast, selfLabel, "")
		b.logger.Info("bot roasted itself", "invocationID", inv.ID.String(), "source", res.Source)
		_, err := send(ctx, resp, Text("🔥 **Self-Roast Special:** "+res.Text))
		return err
	}

	t := resolveTarget(inv)
	if t.Explicit && t.Self {
		if _, err := send(ctx, resp, Text("🔥 Roasting yourself? Bold move. Let's see if you can take it.")); err != nil {
			return err
		}
	}

	b.typing(ctx, resp)
	res := b.provider.Produce(ctx, roast.Roast, t.Label, "")
	text := "🔥 " + res.Text
	if t.Explicit && t.User != nil && t.User.Mention != "" {
		text = "🔥 " + t.User.Mention + " " + res.Text
	}
	b.logger.Debug("roasted target", "invocationID", inv.ID.String(), "target", t.Label, "source", res.Source, "reason", res.Reason)
	_, err := send(ctx, resp, Text(text))
	return err
}

// single handles the one-target flavors that reply with a titled embed.
func (b *Bot) single(f roast.Flavor) HandlerFunc {
	return func(ctx context.Context, inv Invocation, resp Responder) error {
		t := resolveTarget(inv)
		b.typing(ctx, resp)
		res := b.provider.Produce(ctx, f, t.Label, "")

		reply := Reply{Embed: b.embed(f, res.Text, inv)}
		if t.Explicit && t.User != nil {
			reply.Text = t.User.Mention
		}
		_, err := send(ctx, resp, reply)
		return err
	}
}

func (b *Bot) battle(ctx context.Context, inv Invocation, resp Responder) error {
	if len(inv.Mentions) < 2 {
		return Usagef("A battle needs two fighters.")
	}
	fighters := distinctMentions(inv.Mentions)
	if len(fighters) < 2 {
		return Usagef("Nobody can battle themselves.")
	}
	first, second := fighters[0], fighters[1]

	b.typing(ctx, resp)
	var burns [2]roast.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		burns[0] = b.provider.Produce(gctx, roast.Battle, first.DisplayName, second.DisplayName)
		return nil
	})
	g.Go(func() error {
		burns[1] = b.provider.Produce(gctx, roast.Battle, second.DisplayName, first.DisplayName)
		return nil
	})
	_ = g.Wait()

	winner := first
	if b.rng.IntN(2) == 1 {
		winner = second
	}

	e := b.embed(roast.Battle, fmt.Sprintf("%s vs %s", first.DisplayName, second.DisplayName), inv)
	e.Fields = []Field{
		{Name: "🥊 " + second.DisplayName + " roasts " + first.DisplayName, Value: burns[0].Text},
		{Name: "🥊 " + first.DisplayName + " roasts " + second.DisplayName, Value: burns[1].Text},
		{Name: "🏆 Winner", Value: winner.DisplayName},
	}
	_, err := send(ctx, resp, Reply{Text: first.Mention + " vs " + second.Mention, Embed: e})
	return err
}

func (b *Bot) compare(ctx context.Context, inv Invocation, resp Responder) error {
	var left, right User
	switch len(inv.Mentions) {
	case 0:
		return Usagef("Mention someone to compare with.")
	case 1:
		left, right = inv.Invoker, inv.Mentions[0]
	default:
		left, right = inv.Mentions[0], inv.Mentions[1]
	}
	if left.ID == right.ID {
		return Usagef("Comparing someone with themselves is a tie.")
	}

	b.typing(ctx, resp)
	res := b.provider.Produce(ctx, roast.Comparison, left.DisplayName, right.DisplayName)
	_, err := send(ctx, resp, Reply{Embed: b.embed(roast.Comparison, res.Text, inv)})
	return err
}

func (b *Bot) riddle(ctx context.Context, inv Invocation, resp Responder) error {
	t := resolveTarget(inv)
	b.typing(ctx, resp)
	res := b.provider.Produce(ctx, roast.Riddle, t.Label, "")

	reactor, canReact := resp.(Reactor)
	seconds := int(b.riddleTimeout.Round(time.Second) / time.Second)
	e := b.embed(roast.Riddle, res.Text, inv)
	if canReact {
		e.Footer = fmt.Sprintf("React with %s within %ds to reveal the answer.", RevealEmoji, seconds)
	} else {
		e.Footer = fmt.Sprintf("The answer is revealed in %ds.", seconds)
	}

	msgID, err := send(ctx, resp, Reply{Embed: e})
	if err != nil {
		return err
	}

	logger := b.logger.With("invocationID", inv.ID.String())
	if canReact {
		if err := reactor.React(ctx, msgID, RevealEmoji); err != nil {
			logger.Warn("failed to add reveal reaction", "error", err.Error())
		}
		outcome, err := reactor.WaitForReaction(ctx, msgID, RevealEmoji, b.riddleTimeout)
		if err != nil {
			return fmt.Errorf("failed to wait for reveal reaction: %w", err)
		}
		logger.Debug("riddle reveal wait finished", "outcome", outcome.String())
		if outcome != WaitReceived {
			return nil
		}
	} else {
		timer := time.NewTimer(b.riddleTimeout)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil
		}
	}

	_, err = send(ctx, resp, Text(fmt.Sprintf("%s The answer is: **%s**", RevealEmoji, res.Answer)))
	return err
}
