package discord

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Soypete/roastbot/commands"
	"github.com/Soypete/roastbot/config"
	"github.com/Soypete/roastbot/logging"
	"github.com/bwmarrin/discordgo"
)

// Intents are the gateway intents the bot needs to read prefixed commands and reactions.
const Intents = discordgo.IntentGuildMessages | discordgo.IntentGuildMessageReactions | discordgo.IntentMessageContent

// Session is the subset of *discordgo.Session the adapter uses.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	AddHandler(handler interface{}) func()
}

// memberLookup returns the cached guild member, or nil.
type memberLookup func(guildID, userID string) *discordgo.Member

// Client connects the command router to a discord gateway session.
type Client struct {
	session *discordgo.Session
	api     Session
	router  *commands.Router
	logger  *logging.Logger
	members memberLookup
	self    atomic.Pointer[discordgo.User]
	ctx     atomic.Pointer[context.Context]
}

// Setup creates the discord session and registers the event handlers. The gateway
// connection is opened by Run.
func Setup(cfg config.DiscordConfig, router *commands.Router, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	session.Identify.Intents = Intents

	c := newClient(session, router, logger)
	c.session = session
	c.members = func(guildID, userID string) *discordgo.Member {
		if guildID == "" || session.State == nil {
			return nil
		}
		m, err := session.State.Member(guildID, userID)
		if err != nil {
			return nil
		}
		return m
	}

	session.AddHandler(c.onReady)
	session.AddHandler(c.onMessageCreate)
	return c, nil
}

func newClient(api Session, router *commands.Router, logger *logging.Logger) *Client {
	return &Client{
		api:     api,
		router:  router,
		logger:  logger,
		members: func(string, string) *discordgo.Member { return nil },
	}
}

// Run opens the gateway connection and blocks until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	c.ctx.Store(&ctx)
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("error opening connection to discord: %w", err)
	}
	c.logger.Info("connected to discord", "prefix", c.router.Prefix())

	<-ctx.Done()
	c.logger.Info("closing discord connection")
	if err := c.session.Close(); err != nil {
		return fmt.Errorf("error closing discord connection: %w", err)
	}
	return nil
}

func (c *Client) baseContext() context.Context {
	if p := c.ctx.Load(); p != nil {
		return *p
	}
	return context.Background()
}

func (c *Client) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User == nil {
		return
	}
	c.self.Store(r.User)
	c.logger.Info("discord session ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (c *Client) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil {
		return
	}
	c.handleMessage(c.baseContext(), m.Message)
}
