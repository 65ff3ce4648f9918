package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHostmask(t *testing.T) {
	testCases := []struct {
		prefix string
		want   Hostmask
	}{
		{prefix: "alice!al@example.org", want: Hostmask{Nick: "alice", Login: "al", Host: "example.org"}},
		{prefix: "alice@example.org", want: Hostmask{Nick: "alice", Host: "example.org"}},
		{prefix: "irc.example.net", want: Hostmask{Nick: "irc.example.net"}},
		{prefix: "", want: Hostmask{}},
	}

	for _, tc := range testCases {
		t.Run(tc.prefix, func(t *testing.T) {
			got := ParseHostmask(tc.prefix)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.prefix, got.String())
		})
	}

	assert.True(t, ParseHostmask("").IsZero())
}

func TestFoldNick(t *testing.T) {
	assert.Equal(t, FoldNick("Nick[away]"), FoldNick("nick{AWAY}"))
	assert.Equal(t, FoldNick(`a\b~`), FoldNick("A|B^"))
	assert.NotEqual(t, FoldNick("alice"), FoldNick("bob"))
}
