package postgres

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenRepository_RecordAndLastSeen(t *testing.T) {
	db := requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewSeenRepository(db, &nopLogger)
	ctx := t.Context()

	nick := fmt.Sprintf("Tester%d", time.Now().UnixNano())
	t.Cleanup(func() { cleanupSeen(t, domain.FoldNick(nick)) })

	first := ports.SeenRecord{
		Nick:    nick,
		Action:  "message",
		Channel: "#go",
		Detail:  "hello",
		SeenAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Record(ctx, first))

	second := first
	second.Action = "quit"
	second.Channel = ""
	second.Detail = "Ping timeout"
	second.SeenAt = first.SeenAt.Add(time.Minute)
	require.NoError(t, repo.Record(ctx, second))

	// Lookup is case-insensitive and returns the latest record
	got, err := repo.LastSeen(ctx, strings.ToUpper(nick))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, nick, got.Nick)
	assert.Equal(t, "quit", got.Action)
	assert.Equal(t, "Ping timeout", got.Detail)
	assert.True(t, second.SeenAt.Equal(got.SeenAt))
}

func TestSeenRepository_LastSeen_Unknown(t *testing.T) {
	db := requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewSeenRepository(db, &nopLogger)

	got, err := repo.LastSeen(t.Context(), "nobody-ever-seen-here")
	require.NoError(t, err)
	assert.Nil(t, got)
}
