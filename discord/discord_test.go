package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Soypete/roastbot/commands"
	"github.com/Soypete/roastbot/logging"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu        sync.Mutex
	sent      []*discordgo.MessageSend
	typing    int
	reactions []string
	handlers  map[int]interface{}
	nextID    int
	sendErr   error
}

func newFakeSession() *fakeSession {
	return &fakeSession{handlers: map[int]interface{}{}}
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: fmt.Sprintf("m%d", len(f.sent)), ChannelID: channelID}, nil
}

func (f *fakeSession) ChannelTyping(channelID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return nil
}

func (f *fakeSession) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, messageID+" "+emojiID)
	return nil
}

func (f *fakeSession) AddHandler(handler interface{}) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, id)
	}
}

// react delivers a reaction event to every registered reaction handler.
func (f *fakeSession) react(ev *discordgo.MessageReactionAdd) {
	f.mu.Lock()
	var hs []func(*discordgo.Session, *discordgo.MessageReactionAdd)
	for _, h := range f.handlers {
		if fn, ok := h.(func(*discordgo.Session, *discordgo.MessageReactionAdd)); ok {
			hs = append(hs, fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range hs {
		fn(nil, ev)
	}
}

func (f *fakeSession) handlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

func (f *fakeSession) Sent() []*discordgo.MessageSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.MessageSend(nil), f.sent...)
}

func reaction(messageID, userID, emoji string) *discordgo.MessageReactionAdd {
	return &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    userID,
			MessageID: messageID,
			Emoji:     discordgo.Emoji{Name: emoji},
		},
	}
}

func testClient(t *testing.T, sess *fakeSession) (*Client, *[]commands.Invocation) {
	t.Helper()
	var got []commands.Invocation
	router := commands.NewRouter(",", logging.Discard())
	record := func(ctx context.Context, inv commands.Invocation, resp commands.Responder) error {
		got = append(got, inv)
		_, err := resp.Send(ctx, commands.Text("ok"))
		return err
	}
	require.NoError(t, router.Register(commands.Command{Name: "roast", Handler: record}))
	c := newClient(sess, router, logging.Discard())
	c.self.Store(&discordgo.User{ID: "bot", Username: "roastbot", Bot: true})
	return c, &got
}

func TestHandleMessage(t *testing.T) {
	pete := &discordgo.User{ID: "1", Username: "pete", GlobalName: "Soypete"}
	miriah := &discordgo.User{ID: "2", Username: "miriah"}
	nico := &discordgo.User{ID: "3", Username: "nico", GlobalName: "Nico G"}

	tests := []struct {
		name         string
		msg          *discordgo.Message
		wantDispatch bool
		check        func(t *testing.T, inv commands.Invocation)
	}{
		{
			name:         "bots are ignored",
			msg:          &discordgo.Message{Content: ",roast", Author: &discordgo.User{ID: "9", Bot: true}},
			wantDispatch: false,
		},
		{
			name:         "missing prefix",
			msg:          &discordgo.Message{Content: "roast me", Author: pete},
			wantDispatch: false,
		},
		{
			name:         "unknown command",
			msg:          &discordgo.Message{Content: ",dance", Author: pete},
			wantDispatch: false,
		},
		{
			name:         "nick wins",
			msg:          &discordgo.Message{Content: ",ROAST hello there", Author: pete, Member: &discordgo.Member{Nick: "Pete the Great"}},
			wantDispatch: true,
			check: func(t *testing.T, inv commands.Invocation) {
				assert.Equal(t, "roast", inv.Name)
				assert.Equal(t, "hello there", inv.Args)
				assert.Equal(t, "Pete the Great", inv.Invoker.DisplayName)
				assert.Equal(t, "<@1>", inv.Invoker.Mention)
				assert.Equal(t, commands.PlatformDiscord, inv.Platform)
				assert.Equal(t, "bot", inv.Self.ID)
			},
		},
		{
			name:         "global name then username",
			msg:          &discordgo.Message{Content: ",roast", Author: pete},
			wantDispatch: true,
			check: func(t *testing.T, inv commands.Invocation) {
				assert.Equal(t, "Soypete", inv.Invoker.DisplayName)
			},
		},
		{
			name: "mentions follow content order",
			msg: &discordgo.Message{
				Content:  ",roast <@!3> and <@2>",
				Author:   pete,
				Mentions: []*discordgo.User{miriah, nico},
			},
			wantDispatch: true,
			check: func(t *testing.T, inv commands.Invocation) {
				require.Len(t, inv.Mentions, 2)
				assert.Equal(t, "Nico G", inv.Mentions[0].DisplayName)
				assert.Equal(t, "miriah", inv.Mentions[1].DisplayName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newFakeSession()
			c, got := testClient(t, sess)

			c.handleMessage(context.Background(), tt.msg)

			if !tt.wantDispatch {
				assert.Empty(t, *got)
				assert.Empty(t, sess.Sent())
				return
			}
			require.Len(t, *got, 1)
			require.Len(t, sess.Sent(), 1)
			tt.check(t, (*got)[0])
		})
	}
}

func TestResponder_Send(t *testing.T) {
	sess := newFakeSession()
	r := &responder{api: sess, channelID: "c1", logger: logging.Discard()}

	id, err := r.Send(context.Background(), commands.Reply{
		Text: "<@2>",
		Embed: &commands.Embed{
			Title:       "🔥 Roast",
			Description: "so bland",
			Color:       0xFF4500,
			Fields:      []commands.Field{{Name: "Winner", Value: "Pete", Inline: true}},
			Footer:      "Requested by Pete",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", id)

	sent := sess.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "<@2>", sent[0].Content)
	require.Len(t, sent[0].Embeds, 1)
	e := sent[0].Embeds[0]
	assert.Equal(t, "🔥 Roast", e.Title)
	assert.Equal(t, 0xFF4500, e.Color)
	require.Len(t, e.Fields, 1)
	assert.True(t, e.Fields[0].Inline)
	assert.Equal(t, "Requested by Pete", e.Footer.Text)

	sess.sendErr = errors.New("rate limited")
	_, err = r.Send(context.Background(), commands.Text("again"))
	assert.Error(t, err)
}

func TestToMessageSend_Truncates(t *testing.T) {
	long := make([]rune, 5000)
	for i := range long {
		long[i] = 'a'
	}
	ms := toMessageSend(commands.Reply{Text: string(long), Embed: &commands.Embed{Description: string(long)}})
	assert.Len(t, []rune(ms.Content), maxContent)
	assert.Len(t, []rune(ms.Embeds[0].Description), maxEmbedDescription)
	assert.Nil(t, ms.Embeds[0].Footer)
}

func TestResponder_WaitForReaction(t *testing.T) {
	t.Run("received from a user", func(t *testing.T) {
		sess := newFakeSession()
		r := &responder{api: sess, channelID: "c1", selfID: "bot", logger: logging.Discard()}

		done := make(chan commands.WaitOutcome, 1)
		go func() {
			outcome, err := r.WaitForReaction(context.Background(), "m1", "💡", 5*time.Second)
			assert.NoError(t, err)
			done <- outcome
		}()

		require.Eventually(t, func() bool { return sess.handlerCount() == 1 }, time.Second, 5*time.Millisecond)
		sess.react(reaction("m1", "bot", "💡"))
		sess.react(reaction("m2", "7", "💡"))
		sess.react(reaction("m1", "7", "🔥"))
		sess.react(reaction("m1", "7", "💡"))

		select {
		case outcome := <-done:
			assert.Equal(t, commands.WaitReceived, outcome)
		case <-time.After(2 * time.Second):
			t.Fatal("wait did not finish")
		}
		assert.Equal(t, 0, sess.handlerCount())
	})

	t.Run("bot reactions are ignored", func(t *testing.T) {
		sess := newFakeSession()
		r := &responder{api: sess, channelID: "c1", selfID: "bot", logger: logging.Discard()}

		done := make(chan commands.WaitOutcome, 1)
		go func() {
			outcome, _ := r.WaitForReaction(context.Background(), "m1", "💡", 100*time.Millisecond)
			done <- outcome
		}()
		require.Eventually(t, func() bool { return sess.handlerCount() == 1 }, time.Second, 5*time.Millisecond)
		ev := reaction("m1", "8", "💡")
		ev.Member = &discordgo.Member{User: &discordgo.User{ID: "8", Bot: true}}
		sess.react(ev)

		assert.Equal(t, commands.WaitTimedOut, <-done)
		assert.Equal(t, 0, sess.handlerCount())
	})

	t.Run("timeout", func(t *testing.T) {
		sess := newFakeSession()
		r := &responder{api: sess, channelID: "c1", logger: logging.Discard()}

		outcome, err := r.WaitForReaction(context.Background(), "m1", "💡", 20*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, commands.WaitTimedOut, outcome)
		assert.Equal(t, 0, sess.handlerCount())
	})

	t.Run("context cancelled", func(t *testing.T) {
		sess := newFakeSession()
		r := &responder{api: sess, channelID: "c1", logger: logging.Discard()}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		outcome, err := r.WaitForReaction(ctx, "m1", "💡", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, commands.WaitTimedOut, outcome)
	})
}

func TestResponder_ReactAndTyping(t *testing.T) {
	sess := newFakeSession()
	r := &responder{api: sess, channelID: "c1", logger: logging.Discard()}

	require.NoError(t, r.Typing(context.Background()))
	require.NoError(t, r.React(context.Background(), "m1", "1️⃣"))
	assert.Equal(t, 1, sess.typing)
	assert.Equal(t, []string{"m1 1️⃣"}, sess.reactions)
}
