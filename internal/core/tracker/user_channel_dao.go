// Package tracker keeps the live graph of users and the channels they share
// with the bot.
package tracker

import (
	"IRCHooks/internal/core/domain"
	"sync"
	"time"

	"github.com/samber/lo"
)

type user struct {
	hostmask domain.Hostmask
	realName string
	away     string
}

type channel struct {
	name       string
	topic      string
	topicSetBy string
	members    map[string]domain.Level // folded nick -> level
}

// UserChannelDao is the mutable user/channel graph. All methods are safe
// for concurrent use. Users that share no channel with the bot are
// forgotten.
type UserChannelDao struct {
	mu       sync.RWMutex
	users    map[string]*user
	channels map[string]*channel
	now      func() time.Time
}

// New creates an empty tracker.
func New() *UserChannelDao {
	return &UserChannelDao{
		users:    make(map[string]*user),
		channels: make(map[string]*channel),
		now:      time.Now,
	}
}

// Join records hm as a member of channelName, creating either as needed.
func (d *UserChannelDao) Join(channelName string, hm domain.Hostmask) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.upsertUser(hm)
	c := d.upsertChannel(channelName)
	key := domain.FoldNick(u.hostmask.Nick)
	if _, ok := c.members[key]; !ok {
		c.members[key] = domain.LevelNone
	}
}

// SetNames replaces the members of a channel from a NAMES reply.
func (d *UserChannelDao) SetNames(channelName string, members []domain.Member) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.upsertChannel(channelName)
	for _, m := range members {
		d.upsertUser(domain.Hostmask{Nick: m.Nick})
		c.members[domain.FoldNick(m.Nick)] = m.Level
	}
}

// Part removes nick from a channel. Leaving the bot's last channel with
// that user forgets the user.
func (d *UserChannelDao) Part(channelName, nick string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.channels[domain.FoldNick(channelName)]; ok {
		delete(c.members, domain.FoldNick(nick))
	}
	d.forgetIfAlone(nick)
}

// RemoveChannel forgets a channel, used when the bot itself leaves it.
func (d *UserChannelDao) RemoveChannel(channelName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.channels[domain.FoldNick(channelName)]
	if !ok {
		return
	}
	delete(d.channels, domain.FoldNick(channelName))
	for key := range c.members {
		d.forgetIfAlone(key)
	}
}

// Quit removes nick from every channel and forgets it.
func (d *UserChannelDao) Quit(nick string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := domain.FoldNick(nick)
	for _, c := range d.channels {
		delete(c.members, key)
	}
	delete(d.users, key)
}

// Rename moves a user and its memberships to a new nick.
func (d *UserChannelDao) Rename(oldNick, newNick string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	oldKey, newKey := domain.FoldNick(oldNick), domain.FoldNick(newNick)
	u, ok := d.users[oldKey]
	if !ok {
		return
	}
	delete(d.users, oldKey)
	u.hostmask.Nick = newNick
	d.users[newKey] = u

	for _, c := range d.channels {
		if lvl, ok := c.members[oldKey]; ok {
			delete(c.members, oldKey)
			c.members[newKey] = lvl
		}
	}
}

// SetTopic stores a channel topic and returns the previous one.
func (d *UserChannelDao) SetTopic(channelName, topic, setBy string) (old string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.upsertChannel(channelName)
	old = c.topic
	c.topic = topic
	c.topicSetBy = setBy
	return old
}

// SetLevel changes a member's level. Unknown members are ignored.
func (d *UserChannelDao) SetLevel(channelName, nick string, level domain.Level) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.channels[domain.FoldNick(channelName)]
	if !ok {
		return
	}
	key := domain.FoldNick(nick)
	if _, ok := c.members[key]; ok {
		c.members[key] = level
	}
}

// UpdateIdentity fills in login and host learned from a message prefix.
func (d *UserChannelDao) UpdateIdentity(hm domain.Hostmask) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if u, ok := d.users[domain.FoldNick(hm.Nick)]; ok {
		mergeHostmask(u, hm)
	}
}

// SetRealName records a user's real name.
func (d *UserChannelDao) SetRealName(nick, realName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if u, ok := d.users[domain.FoldNick(nick)]; ok {
		u.realName = realName
	}
}

// SetAway records an away message; an empty message clears it.
func (d *UserChannelDao) SetAway(nick, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if u, ok := d.users[domain.FoldNick(nick)]; ok {
		u.away = message
	}
}

// Contains reports whether nick is tracked.
func (d *UserChannelDao) Contains(nick string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.users[domain.FoldNick(nick)]
	return ok
}

// SnapshotUser copies one user. The hostmask is returned with only Nick
// set when the user is unknown.
func (d *UserChannelDao) SnapshotUser(nick string) (domain.UserSnapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[domain.FoldNick(nick)]
	if !ok {
		return domain.NewUserSnapshot(domain.Hostmask{Nick: nick}, "", ""), false
	}
	return snapshotUser(u), true
}

// SnapshotChannel copies one channel.
func (d *UserChannelDao) SnapshotChannel(name string) (domain.ChannelSnapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.channels[domain.FoldNick(name)]
	if !ok {
		return domain.NewChannelSnapshot(name, "", "", nil), false
	}
	return d.snapshotChannel(c), true
}

// Snapshot copies the whole graph.
func (d *UserChannelDao) Snapshot() domain.DaoSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := lo.MapToSlice(d.users, func(_ string, u *user) domain.UserSnapshot {
		return snapshotUser(u)
	})
	channels := lo.MapToSlice(d.channels, func(_ string, c *channel) domain.ChannelSnapshot {
		return d.snapshotChannel(c)
	})
	return domain.NewDaoSnapshot(d.now(), users, channels)
}

// Reset forgets everything, used after a disconnect.
func (d *UserChannelDao) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = make(map[string]*user)
	d.channels = make(map[string]*channel)
}

// --- helpers, mu must be held ---

func (d *UserChannelDao) upsertUser(hm domain.Hostmask) *user {
	key := domain.FoldNick(hm.Nick)
	u, ok := d.users[key]
	if !ok {
		u = &user{hostmask: domain.Hostmask{Nick: hm.Nick}}
		d.users[key] = u
	}
	mergeHostmask(u, hm)
	return u
}

func (d *UserChannelDao) upsertChannel(name string) *channel {
	key := domain.FoldNick(name)
	c, ok := d.channels[key]
	if !ok {
		c = &channel{name: name, members: make(map[string]domain.Level)}
		d.channels[key] = c
	}
	return c
}

func (d *UserChannelDao) forgetIfAlone(nick string) {
	key := domain.FoldNick(nick)
	shared := lo.SomeBy(lo.Values(d.channels), func(c *channel) bool {
		_, ok := c.members[key]
		return ok
	})
	if !shared {
		delete(d.users, key)
	}
}

func (d *UserChannelDao) snapshotChannel(c *channel) domain.ChannelSnapshot {
	members := lo.MapToSlice(c.members, func(key string, lvl domain.Level) domain.Member {
		nick := key
		if u, ok := d.users[key]; ok {
			nick = u.hostmask.Nick
		}
		return domain.Member{Nick: nick, Level: lvl}
	})
	return domain.NewChannelSnapshot(c.name, c.topic, c.topicSetBy, members)
}

func snapshotUser(u *user) domain.UserSnapshot {
	return domain.NewUserSnapshot(u.hostmask, u.realName, u.away)
}

func mergeHostmask(u *user, hm domain.Hostmask) {
	if hm.Login != "" {
		u.hostmask.Login = hm.Login
	}
	if hm.Host != "" {
		u.hostmask.Host = hm.Host
	}
}
