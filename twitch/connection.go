// Package twitchirc runs the command router on a twitch channel over IRC.
package twitchirc

import (
	"context"
	"strings"
	"sync"

	"github.com/Soypete/roastbot/commands"
	"github.com/Soypete/roastbot/config"
	"github.com/Soypete/roastbot/logging"
	v2 "github.com/gempir/go-twitch-irc/v2"
	"github.com/pkg/errors"
)

// Client is the subset of the IRC client the adapter uses.
type Client interface {
	Say(channel, text string)
	Join(channels ...string)
	OnConnect(callback func())
	OnPrivateMessage(callback func(message v2.PrivateMessage))
	Connect() error
	Disconnect() error
}

// IRC connection to the twitch IRC server.
type IRC struct {
	client  Client
	channel string
	self    commands.User
	router  *commands.Router
	logger  *logging.Logger
	queue   *queue
}

// SetupTwitchIRC creates the IRC client for cfg. The connection is opened by Run.
func SetupTwitchIRC(cfg config.TwitchConfig, router *commands.Router, logger *logging.Logger) (*IRC, error) {
	if !cfg.Enabled() {
		return nil, errors.New("twitch channel is not configured")
	}
	if cfg.Username == "" || cfg.OAuthToken == "" {
		return nil, errors.New("twitch username and oauth token are required")
	}
	token := cfg.OAuthToken
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	return newIRC(v2.NewClient(cfg.Username, token), cfg, router, logger), nil
}

func newIRC(client Client, cfg config.TwitchConfig, router *commands.Router, logger *logging.Logger) *IRC {
	if logger == nil {
		logger = logging.Default()
	}
	irc := &IRC{
		client:  client,
		channel: cfg.Channel,
		self: commands.User{
			ID:          strings.ToLower(cfg.Username),
			DisplayName: cfg.Username,
			Mention:     "@" + cfg.Username,
			Bot:         true,
		},
		router: router,
		logger: logger.With("channel", cfg.Channel),
	}
	irc.queue = newQueue(defaultQueueSize, defaultWorkers, irc.HandleChat, irc.logger)
	return irc
}

// Run connects to the channel and blocks until ctx is done or the connection fails.
func (irc *IRC) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	irc.queue.Start(ctx, &wg)

	irc.client.Join(irc.channel)
	irc.client.OnConnect(func() {
		irc.logger.Info("connection to twitch IRC established")
	})
	irc.client.OnPrivateMessage(func(msg v2.PrivateMessage) {
		irc.queue.Publish(msg)
	})

	irc.logger.Info("connecting to twitch IRC")
	errCh := make(chan error, 1)
	go func() {
		errCh <- irc.client.Connect()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, v2.ErrClientDisconnected) {
			return nil
		}
		irc.logger.Error("twitch IRC connection failed", "error", err.Error())
		return errors.Wrap(err, "twitch IRC connection failed")
	case <-ctx.Done():
		irc.logger.Info("disconnecting from twitch IRC")
		if err := irc.client.Disconnect(); err != nil {
			return errors.Wrap(err, "failed to disconnect from twitch IRC")
		}
		<-errCh
		return nil
	}
}
