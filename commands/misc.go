package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const pollColor = 0x00BFFF

func (b *Bot) coinflip(ctx context.Context, inv Invocation, resp Responder) error {
	side := "Heads"
	if b.rng.IntN(2) == 1 {
		side = "Tails"
	}
	_, err := send(ctx, resp, Text("🪙 "+side+"!"))
	return err
}

func (b *Bot) dice(ctx context.Context, inv Invocation, resp Responder) error {
	roll, err := RollDice(inv.Args, b.rng)
	if err != nil {
		return err
	}
	rolls := make([]string, len(roll.Rolls))
	for i, r := range roll.Rolls {
		rolls[i] = strconv.Itoa(r)
	}
	text := fmt.Sprintf("🎲 %s rolled %dd%d: %s (total **%d**)",
		inv.Invoker.DisplayName, roll.Count, roll.Sides, strings.Join(rolls, ", "), roll.Total)
	_, err = send(ctx, resp, Text(text))
	return err
}

func (b *Bot) choose(ctx context.Context, inv Invocation, resp Responder) error {
	choice, err := Choose(inv.Args, b.rng)
	if err != nil {
		return err
	}
	_, err = send(ctx, resp, Text("🤔 I choose: **"+choice+"**"))
	return err
}

func (b *Bot) poll(ctx context.Context, inv Invocation, resp Responder) error {
	question, options, err := ParsePoll(inv.Args)
	if err != nil {
		return err
	}

	lines := make([]string, len(options))
	for i, o := range options {
		lines[i] = NumberEmojis[i] + " " + o
	}
	e := &Embed{
		Title:       "📊 " + question,
		Description: strings.Join(lines, "\n"),
		Color:       pollColor,
		Footer:      "Poll by " + inv.Invoker.DisplayName,
	}
	msgID, err := send(ctx, resp, Reply{Embed: e})
	if err != nil {
		return err
	}

	reactor, ok := resp.(Reactor)
	if !ok {
		return nil
	}
	for i := range options {
		if err := reactor.React(ctx, msgID, NumberEmojis[i]); err != nil {
			b.logger.Warn("failed to add poll reaction", "invocationID", inv.ID.String(), "error", err.Error())
			break
		}
	}
	return nil
}

func (b *Bot) help(ctx context.Context, inv Invocation, resp Responder) error {
	prefix := ""
	var cmds []Command
	if b.router != nil {
		prefix = b.router.Prefix()
		cmds = b.router.Commands()
	}

	fields := make([]Field, 0, len(cmds))
	for _, c := range cmds {
		desc := c.Description
		if len(c.Aliases) > 0 {
			desc += " Aliases: " + prefix + strings.Join(c.Aliases, ", "+prefix)
		}
		fields = append(fields, Field{Name: prefix + c.Usage, Value: desc})
	}
	e := &Embed{
		Title:       "🔥 Roast Bot Commands",
		Description: fmt.Sprintf("Every command starts with `%s`.", prefix),
		Color:       0xFF4500,
		Fields:      fields,
	}
	_, err := send(ctx, resp, Reply{Embed: e})
	return err
}

func (b *Bot) ping(ctx context.Context, inv Invocation, resp Responder) error {
	mode := "built-in roasts only"
	if b.provider.AIEnabled() {
		mode = "AI roasts enabled"
	}
	prefix := ","
	if b.router != nil {
		prefix = b.router.Prefix()
	}
	_, err := send(ctx, resp, Text(fmt.Sprintf("🔥 Bot is working (%s)! Use `%sroast` to get roasted!", mode, prefix)))
	return err
}
