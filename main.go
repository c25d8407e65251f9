package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Soypete/roastbot/ai"
	"github.com/Soypete/roastbot/commands"
	"github.com/Soypete/roastbot/config"
	"github.com/Soypete/roastbot/discord"
	"github.com/Soypete/roastbot/logging"
	"github.com/Soypete/roastbot/metrics"
	"github.com/Soypete/roastbot/roast"
	twitchirc "github.com/Soypete/roastbot/twitch"
	"golang.org/x/sync/errgroup"
)

func main() {
	var envFile string
	var startDiscord bool
	var startTwitch bool
	flag.StringVar(&envFile, "env", ".env", "Path to an optional .env file")
	flag.BoolVar(&startDiscord, "discordMode", true, "Start the discord bot")
	flag.BoolVar(&startTwitch, "twitchMode", false, "Start the twitch bot (also started when TWITCH_CHANNEL is set)")
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.LogLevel(cfg.LogLevel), logging.Format(cfg.LogFormat), os.Stdout)
	if err := run(cfg, startDiscord, startTwitch || cfg.Twitch.Enabled(), logger); err != nil {
		logger.Error("roastbot stopped", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("roastbot shut down")
}

func run(cfg *config.Config, startDiscord, startTwitch bool, logger *logging.Logger) error {
	catalog, err := roast.LoadCatalog(cfg.FlavorsPath)
	if err != nil {
		return err
	}

	completer, err := ai.NewCompleter(cfg.AI, logger)
	if err != nil {
		return err
	}
	provider := roast.NewProvider(catalog, completer,
		roast.WithTimeout(cfg.AI.Timeout),
		roast.WithLogger(logger.With("component", "roast")),
	)

	router := commands.NewRouter(cfg.Prefix, logger.With("component", "commands"))
	bot := commands.NewBot(provider, commands.Settings{
		SelfRoastChance: cfg.SelfRoastChance,
		RiddleTimeout:   cfg.RiddleTimeout,
		Logger:          logger.With("component", "commands"),
	})
	if err := bot.Register(router); err != nil {
		return err
	}

	// setup the platform clients before anything connects so credential errors exit early
	var dc *discord.Client
	if startDiscord {
		dc, err = discord.Setup(cfg.Discord, router, logger.With("component", "discord"))
		if err != nil {
			return err
		}
	}
	var irc *twitchirc.IRC
	if startTwitch {
		irc, err = twitchirc.SetupTwitchIRC(cfg.Twitch, router, logger.With("component", "twitch"))
		if err != nil {
			return err
		}
	}
	if dc == nil && irc == nil {
		return fmt.Errorf("no platform enabled, set -discordMode or -twitchMode")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	server := metrics.SetupServer(cfg.MetricsAddr)
	g.Go(func() error {
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
		return server.Run(ctx)
	})
	if dc != nil {
		g.Go(func() error { return dc.Run(ctx) })
	}
	if irc != nil {
		g.Go(func() error { return irc.Run(ctx) })
	}

	logger.Info("roastbot started",
		"prefix", cfg.Prefix,
		"ai", completer != nil,
		"discord", dc != nil,
		"twitch", irc != nil,
	)
	return g.Wait()
}
