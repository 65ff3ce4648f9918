package tracker

import (
	"IRCHooks/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = domain.Hostmask{Nick: "alice", Login: "al", Host: "example.org"}
	bob   = domain.Hostmask{Nick: "bob", Login: "b", Host: "example.net"}
)

func TestUserChannelDao_JoinAndSnapshot(t *testing.T) {
	dao := New()
	dao.Join("#go", alice)
	dao.Join("#go", bob)
	dao.Join("#rust", alice)

	assert.True(t, dao.Contains("ALICE"))

	u, ok := dao.SnapshotUser("alice")
	require.True(t, ok)
	assert.Equal(t, alice, u.Hostmask())

	ch, ok := dao.SnapshotChannel("#GO")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"alice", "bob"}, ch.Nicks())

	assert.ElementsMatch(t, []string{"#go", "#rust"}, dao.Snapshot().ChannelsOf("alice"))
}

func TestUserChannelDao_PartForgetsLonelyUsers(t *testing.T) {
	dao := New()
	dao.Join("#go", alice)
	dao.Join("#rust", alice)
	dao.Join("#go", bob)

	dao.Part("#go", "alice")
	assert.True(t, dao.Contains("alice"), "still shares #rust")

	dao.Part("#go", "bob")
	assert.False(t, dao.Contains("bob"))
}

func TestUserChannelDao_RemoveChannel(t *testing.T) {
	dao := New()
	dao.Join("#go", alice)
	dao.Join("#go", bob)
	dao.Join("#rust", bob)

	dao.RemoveChannel("#go")

	_, ok := dao.SnapshotChannel("#go")
	assert.False(t, ok)
	assert.False(t, dao.Contains("alice"))
	assert.True(t, dao.Contains("bob"))
}

func TestUserChannelDao_QuitAfterSnapshot(t *testing.T) {
	// 1. Setup
	dao := New()
	dao.Join("#go", alice)
	dao.Join("#go", bob)
	dao.SetAway("alice", "lunch")

	// 2. Execute: snapshot first, then remove
	before := dao.Snapshot()
	dao.Quit("alice")

	// 3. Assert: the snapshot is unaffected by the removal
	u, ok := before.User("alice")
	require.True(t, ok)
	assert.Equal(t, "lunch", u.AwayMessage())
	ch, ok := before.Channel("#go")
	require.True(t, ok)
	assert.True(t, ch.HasMember("alice"))

	assert.False(t, dao.Contains("alice"))
	live, _ := dao.SnapshotChannel("#go")
	assert.Equal(t, []string{"bob"}, live.Nicks())
}

func TestUserChannelDao_Rename(t *testing.T) {
	dao := New()
	dao.Join("#go", alice)
	dao.SetLevel("#go", "alice", domain.LevelOp)

	dao.Rename("alice", "alice2")

	assert.False(t, dao.Contains("alice"))
	u, ok := dao.SnapshotUser("alice2")
	require.True(t, ok)
	assert.Equal(t, "al", u.Login())

	ch, _ := dao.SnapshotChannel("#go")
	lvl, ok := ch.Level("alice2")
	require.True(t, ok)
	assert.Equal(t, domain.LevelOp, lvl)
}

func TestUserChannelDao_NamesAndIdentity(t *testing.T) {
	dao := New()
	dao.SetNames("#go", []domain.Member{
		{Nick: "alice", Level: domain.LevelVoice},
		{Nick: "bob"},
	})
	dao.UpdateIdentity(alice)
	dao.SetRealName("alice", "Alice A.")

	u, ok := dao.SnapshotUser("alice")
	require.True(t, ok)
	assert.Equal(t, "example.org", u.Host())
	assert.Equal(t, "Alice A.", u.RealName())

	ch, _ := dao.SnapshotChannel("#go")
	lvl, _ := ch.Level("alice")
	assert.Equal(t, domain.LevelVoice, lvl)
}

func TestUserChannelDao_Topic(t *testing.T) {
	dao := New()
	assert.Empty(t, dao.SetTopic("#go", "first", "alice"))
	assert.Equal(t, "first", dao.SetTopic("#go", "second", "bob"))

	ch, _ := dao.SnapshotChannel("#go")
	assert.Equal(t, "second", ch.Topic())
	assert.Equal(t, "bob", ch.TopicSetBy())
}

func TestUserChannelDao_UnknownLookups(t *testing.T) {
	dao := New()

	u, ok := dao.SnapshotUser("ghost")
	assert.False(t, ok)
	assert.Equal(t, "ghost", u.Nick())

	_, ok = dao.SnapshotChannel("#nowhere")
	assert.False(t, ok)
}

func TestUserChannelDao_Reset(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	dao := New()
	dao.now = func() time.Time { return fixed }
	dao.Join("#go", alice)

	snap := dao.Snapshot()
	dao.Reset()

	assert.Equal(t, fixed, snap.TakenAt())
	assert.Len(t, snap.Users(), 1)
	assert.Empty(t, dao.Snapshot().Users())
	assert.Empty(t, dao.Snapshot().Channels())
}
