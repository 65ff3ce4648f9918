package domain

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingSender) SendRaw(_ context.Context, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	return nil
}

func (r *recordingSender) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func TestEvent_Respond(t *testing.T) {
	ctx := context.Background()
	alice := Hostmask{Nick: "alice", Login: "al", Host: "example.org"}

	testCases := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "Channel Message Addresses The Sender",
			event: NewMessageEvent(nil, "#go", alice, "hi"),
			want:  "PRIVMSG #go :alice: ok",
		},
		{
			name:  "Private Message Replies In Private",
			event: NewPrivateMessageEvent(nil, alice, "hi"),
			want:  "PRIVMSG alice :ok",
		},
		{
			name:  "Notice Replies With A Notice",
			event: NewNoticeEvent(nil, "bot", alice, "hi"),
			want:  "NOTICE alice :ok",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// 1. Setup: a live session the event can reach
			sender := &recordingSender{}
			session := NewSession("bot", sender)
			event := rebind(tc.event, session)

			// 2. Execute
			err := event.Respond(ctx, "ok")

			// 3. Assert
			require.NoError(t, err)
			assert.Equal(t, []string{tc.want}, sender.Lines())
			runtime.KeepAlive(session)
		})
	}
}

// rebind recreates e against session; the table above is built before the
// session exists.
func rebind(e Event, s *Session) Event {
	switch ev := e.(type) {
	case *MessageEvent:
		return NewMessageEvent(s, ev.Channel(), ev.User(), ev.Message())
	case *PrivateMessageEvent:
		return NewPrivateMessageEvent(s, ev.User(), ev.Message())
	case *NoticeEvent:
		return NewNoticeEvent(s, ev.Target(), ev.User(), ev.Message())
	}
	return e
}

func TestQuitEvent_RespondDisabled(t *testing.T) {
	sender := &recordingSender{}
	session := NewSession("bot", sender)
	quit := NewQuitEvent(session, DaoSnapshot{}, Hostmask{Nick: "alice"}, UserSnapshot{}, "bye")

	err := quit.Respond(context.Background(), "come back")

	assert.ErrorIs(t, err, ErrRespondDisabled)
	assert.Empty(t, sender.Lines(), "nothing may be sent for a quit")
	runtime.KeepAlive(session)
}

func TestQuitEvent_CarriesSnapshots(t *testing.T) {
	alice := Hostmask{Nick: "alice", Login: "al", Host: "example.org"}
	userSnap := NewUserSnapshot(alice, "Alice A.", "lunch")
	members := []Member{{Nick: "alice", Level: LevelOp}, {Nick: "bob"}}
	dao := NewDaoSnapshot(time.Now(), []UserSnapshot{userSnap}, []ChannelSnapshot{
		NewChannelSnapshot("#go", "gophers", "bob", members),
	})

	quit := NewQuitEvent(nil, dao, alice, userSnap, "bye")

	// Mutating the slice the snapshot was built from must not show through.
	members[0] = Member{Nick: "mallory"}

	assert.Equal(t, VariantQuit, quit.Variant())
	assert.Equal(t, "bye", quit.Reason())
	assert.Equal(t, alice, quit.User())
	assert.Equal(t, "Alice A.", quit.UserSnapshot().RealName())
	assert.True(t, quit.UserSnapshot().IsAway())

	ch, ok := quit.DaoSnapshot().Channel("#GO")
	require.True(t, ok)
	assert.True(t, ch.HasMember("alice"))
	assert.False(t, ch.HasMember("mallory"))
	lvl, ok := ch.Level("Alice")
	require.True(t, ok)
	assert.Equal(t, LevelOp, lvl)
	assert.Equal(t, []string{"#go"}, quit.DaoSnapshot().ChannelsOf("ALICE"))
}

func TestEvent_IdentityAndTimestamp(t *testing.T) {
	before := time.Now()
	a := NewJoinEvent(nil, "#go", Hostmask{Nick: "alice"})
	b := NewJoinEvent(nil, "#go", Hostmask{Nick: "alice"})

	assert.NotEqual(t, a.ID(), b.ID())
	assert.False(t, a.Timestamp().Before(before))
	assert.Nil(t, a.Session())
}

func TestEvent_RespondWithoutSession(t *testing.T) {
	event := NewMessageEvent(nil, "#go", Hostmask{Nick: "alice"}, "hi")
	assert.ErrorIs(t, event.Respond(context.Background(), "ok"), ErrSessionGone)
}

func TestEvent_DoesNotKeepSessionAlive(t *testing.T) {
	event := NewMessageEvent(NewSession("bot", &recordingSender{}), "#go", Hostmask{Nick: "alice"}, "hi")

	require.Eventually(t, func() bool {
		runtime.GC()
		return event.Session() == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, event.Respond(context.Background(), "ok"), ErrSessionGone)
}

func TestEvent_RespondWithoutTarget(t *testing.T) {
	session := NewSession("bot", &recordingSender{})
	ping := NewServerPingEvent(session, "token")

	assert.ErrorIs(t, ping.Respond(context.Background(), "pong"), ErrNoTarget)
	runtime.KeepAlive(session)
}

func TestSession_SendRawStripsLineBreaks(t *testing.T) {
	sender := &recordingSender{}
	session := NewSession("bot", sender)

	require.NoError(t, session.SendMessage(context.Background(), "#go", "one\r\nQUIT :two"))

	assert.Equal(t, []string{"PRIVMSG #go :one QUIT :two"}, sender.Lines())
	assert.True(t, session.IsSelf("BOT"))
}

func TestSession_IsSelfUsesRFC1459Folding(t *testing.T) {
	session := NewSession("[bot]", &recordingSender{})

	assert.True(t, session.IsSelf("{BOT}"))
	assert.True(t, session.IsSelf("[bot]"))
	assert.False(t, session.IsSelf("bot"))
}
