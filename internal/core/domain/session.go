package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// LineSender writes one raw protocol line to the server.
type LineSender interface {
	SendRaw(ctx context.Context, line string) error
}

// Session is the connection context events are created in.
// Events only hold a weak reference to it.
type Session struct {
	mu   sync.RWMutex
	nick string
	out  LineSender
}

// NewSession creates a session that writes through out.
func NewSession(nick string, out LineSender) *Session {
	return &Session{nick: nick, out: out}
}

// Nick returns the nick the bot currently holds.
func (s *Session) Nick() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nick
}

// SetNick records a nick change of the bot itself.
func (s *Session) SetNick(nick string) {
	s.mu.Lock()
	s.nick = nick
	s.mu.Unlock()
}

// IsSelf reports whether nick is the bot, using rfc1459 case folding.
func (s *Session) IsSelf(nick string) bool {
	return FoldNick(s.Nick()) == FoldNick(nick)
}

// SendRaw writes a raw line, stripping any embedded line breaks.
func (s *Session) SendRaw(ctx context.Context, line string) error {
	return s.out.SendRaw(ctx, sanitize(line))
}

// SendMessage sends a PRIVMSG to a channel or nick.
func (s *Session) SendMessage(ctx context.Context, target, text string) error {
	return s.SendRaw(ctx, fmt.Sprintf("PRIVMSG %s :%s", target, text))
}

// SendNotice sends a NOTICE to a channel or nick.
func (s *Session) SendNotice(ctx context.Context, target, text string) error {
	return s.SendRaw(ctx, fmt.Sprintf("NOTICE %s :%s", target, text))
}

func sanitize(line string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(line)
}
