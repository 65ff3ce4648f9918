package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Level is a member's privilege in a channel.
type Level int

const (
	LevelNone Level = iota
	LevelVoice
	LevelOp
)

// Member is one user's presence in a channel.
type Member struct {
	Nick  string
	Level Level
}

// FoldNick maps a nick or channel name to its rfc1459 case-folded key.
func FoldNick(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '[':
			return '{'
		case ']':
			return '}'
		case '\\':
			return '|'
		case '~':
			return '^'
		}
		return r
	}, strings.ToLower(name))
}

// UserSnapshot is an immutable copy of a user's attributes.
type UserSnapshot struct {
	hostmask Hostmask
	realName string
	away     string
}

// NewUserSnapshot freezes the given user attributes.
func NewUserSnapshot(hm Hostmask, realName, away string) UserSnapshot {
	return UserSnapshot{hostmask: hm, realName: realName, away: away}
}

func (u UserSnapshot) Nick() string        { return u.hostmask.Nick }
func (u UserSnapshot) Login() string       { return u.hostmask.Login }
func (u UserSnapshot) Host() string        { return u.hostmask.Host }
func (u UserSnapshot) Hostmask() Hostmask  { return u.hostmask }
func (u UserSnapshot) RealName() string    { return u.realName }
func (u UserSnapshot) AwayMessage() string { return u.away }
func (u UserSnapshot) IsAway() bool        { return u.away != "" }

// ChannelSnapshot is an immutable copy of a channel and its members.
type ChannelSnapshot struct {
	name       string
	topic      string
	topicSetBy string
	members    map[string]Member
}

// NewChannelSnapshot copies members so later changes to the caller's slice
// do not leak into the snapshot.
func NewChannelSnapshot(name, topic, topicSetBy string, members []Member) ChannelSnapshot {
	return ChannelSnapshot{
		name:       name,
		topic:      topic,
		topicSetBy: topicSetBy,
		members: lo.SliceToMap(members, func(m Member) (string, Member) {
			return FoldNick(m.Nick), m
		}),
	}
}

func (c ChannelSnapshot) Name() string       { return c.name }
func (c ChannelSnapshot) Topic() string      { return c.topic }
func (c ChannelSnapshot) TopicSetBy() string { return c.topicSetBy }

// Members returns the members sorted by folded nick.
func (c ChannelSnapshot) Members() []Member {
	keys := lo.Keys(c.members)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) Member { return c.members[k] })
}

// Nicks returns the member nicks sorted by folded nick.
func (c ChannelSnapshot) Nicks() []string {
	return lo.Map(c.Members(), func(m Member, _ int) string { return m.Nick })
}

// Level returns the member's level and whether nick was in the channel.
func (c ChannelSnapshot) Level(nick string) (Level, bool) {
	m, ok := c.members[FoldNick(nick)]
	return m.Level, ok
}

// HasMember reports whether nick was in the channel.
func (c ChannelSnapshot) HasMember(nick string) bool {
	_, ok := c.members[FoldNick(nick)]
	return ok
}

// DaoSnapshot is an immutable copy of the whole user/channel graph.
type DaoSnapshot struct {
	takenAt  time.Time
	users    map[string]UserSnapshot
	channels map[string]ChannelSnapshot
}

// NewDaoSnapshot indexes the given users and channels.
func NewDaoSnapshot(takenAt time.Time, users []UserSnapshot, channels []ChannelSnapshot) DaoSnapshot {
	return DaoSnapshot{
		takenAt: takenAt,
		users: lo.SliceToMap(users, func(u UserSnapshot) (string, UserSnapshot) {
			return FoldNick(u.Nick()), u
		}),
		channels: lo.SliceToMap(channels, func(c ChannelSnapshot) (string, ChannelSnapshot) {
			return FoldNick(c.Name()), c
		}),
	}
}

// TakenAt is when the snapshot was captured.
func (d DaoSnapshot) TakenAt() time.Time { return d.takenAt }

// User looks up a user by nick.
func (d DaoSnapshot) User(nick string) (UserSnapshot, bool) {
	u, ok := d.users[FoldNick(nick)]
	return u, ok
}

// Channel looks up a channel by name.
func (d DaoSnapshot) Channel(name string) (ChannelSnapshot, bool) {
	c, ok := d.channels[FoldNick(name)]
	return c, ok
}

// Users returns every user sorted by folded nick.
func (d DaoSnapshot) Users() []UserSnapshot {
	keys := lo.Keys(d.users)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) UserSnapshot { return d.users[k] })
}

// Channels returns every channel sorted by folded name.
func (d DaoSnapshot) Channels() []ChannelSnapshot {
	keys := lo.Keys(d.channels)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) ChannelSnapshot { return d.channels[k] })
}

// ChannelsOf lists the names of the channels nick was in.
func (d DaoSnapshot) ChannelsOf(nick string) []string {
	in := lo.Filter(d.Channels(), func(c ChannelSnapshot, _ int) bool {
		return c.HasMember(nick)
	})
	return lo.Map(in, func(c ChannelSnapshot, _ int) string { return c.Name() })
}
