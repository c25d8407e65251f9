package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/Soypete/roastbot/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Register(t *testing.T) {
	r := NewRouter(",", logging.Discard())
	noop := func(ctx context.Context, inv Invocation, resp Responder) error { return nil }

	require.NoError(t, r.Register(Command{Name: "dice", Aliases: []string{"roll"}, Handler: noop}))
	assert.Error(t, r.Register(Command{Name: "ROLL", Handler: noop}))
	assert.Error(t, r.Register(Command{Name: "other", Aliases: []string{"dice"}, Handler: noop}))
	assert.Error(t, r.Register(Command{Name: "", Handler: noop}))
	assert.Error(t, r.Register(Command{Name: "nohandler"}))

	cmd, ok := r.Lookup("Roll")
	require.True(t, ok)
	assert.Equal(t, "dice", cmd.Name)

	// a failed registration must not leave partial aliases behind
	_, ok = r.Lookup("other")
	assert.False(t, ok)
	assert.Len(t, r.Commands(), 1)
}

func TestRouter_Dispatch(t *testing.T) {
	tests := []struct {
		name        string
		handler     HandlerFunc
		wantText    string
		wantReplies int
	}{
		{
			name: "success",
			handler: func(ctx context.Context, inv Invocation, resp Responder) error {
				_, err := resp.Send(ctx, Text("done"))
				return err
			},
			wantText:    "done",
			wantReplies: 1,
		},
		{
			name: "usage error gets hint",
			handler: func(ctx context.Context, inv Invocation, resp Responder) error {
				return Usagef("Bad dice.")
			},
			wantText:    "🔥 Bad dice. Usage: `,thing [NdM]`",
			wantReplies: 1,
		},
		{
			name: "wrapped usage error gets hint",
			handler: func(ctx context.Context, inv Invocation, resp Responder) error {
				return errors.Join(errors.New("context"), Usagef("Bad dice."))
			},
			wantText:    "🔥 Bad dice. Usage: `,thing [NdM]`",
			wantReplies: 1,
		},
		{
			name: "unexpected error gets apology",
			handler: func(ctx context.Context, inv Invocation, resp Responder) error {
				return errors.New("database on fire")
			},
			wantText:    apology,
			wantReplies: 1,
		},
		{
			name: "panic gets apology",
			handler: func(ctx context.Context, inv Invocation, resp Responder) error {
				var m map[string]int
				m["boom"]++
				return nil
			},
			wantText:    apology,
			wantReplies: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(",", logging.Discard())
			require.NoError(t, r.Register(Command{Name: "thing", Usage: "thing [NdM]", Handler: tt.handler}))

			resp := &fakeResponder{}
			var handled bool
			require.NotPanics(t, func() {
				handled = r.Dispatch(context.Background(), invocation("thing", ""), resp)
			})
			assert.True(t, handled)

			replies := resp.Replies()
			require.Len(t, replies, tt.wantReplies)
			assert.Equal(t, tt.wantText, replies[0].Text)
		})
	}
}

func TestRouter_DispatchUnknownIsIgnored(t *testing.T) {
	r := NewRouter(",", logging.Discard())
	resp := &fakeResponder{}
	assert.False(t, r.Dispatch(context.Background(), invocation("nope", ""), resp))
	assert.Empty(t, resp.Replies())
}

func TestRouter_DispatchAssignsID(t *testing.T) {
	r := NewRouter(",", logging.Discard())
	var seen uuid.UUID
	require.NoError(t, r.Register(Command{Name: "id", Handler: func(ctx context.Context, inv Invocation, resp Responder) error {
		seen = inv.ID
		return nil
	}}))

	inv := invocation("id", "")
	inv.ID = uuid.Nil
	r.Dispatch(context.Background(), inv, &fakeResponder{})
	assert.NotEqual(t, uuid.Nil, seen)
}

func TestRouter_DispatchSendFailure(t *testing.T) {
	r := NewRouter(",", logging.Discard())
	require.NoError(t, r.Register(Command{Name: "fail", Handler: func(ctx context.Context, inv Invocation, resp Responder) error {
		return errors.New("nope")
	}}))
	resp := &fakeResponder{sendErr: errors.New("offline")}
	assert.NotPanics(t, func() {
		r.Dispatch(context.Background(), invocation("fail", ""), resp)
	})
}
