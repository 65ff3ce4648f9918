package domain

import (
	"context"
	"time"
	"weak"

	"github.com/google/uuid"
)

// Event is an immutable value broadcast by the dispatcher.
type Event interface {
	ID() uuid.UUID
	Variant() Variant
	Timestamp() time.Time
	// Session returns the session the event was created in, or nil once
	// that session has been collected.
	Session() *Session
	// Respond sends text back into the context the event came from.
	Respond(ctx context.Context, text string) error
}

// UserEvent is implemented by events caused by a user.
type UserEvent interface {
	Event
	User() Hostmask
}

// ChannelEvent is implemented by events scoped to a channel.
type ChannelEvent interface {
	Event
	Channel() string
}

// MessageLike is implemented by every event carrying a line of text from a user.
type MessageLike interface {
	UserEvent
	Message() string
}

// base carries the fields shared by every event. The session is held
// weakly so a queued event does not keep a finished connection alive.
type base struct {
	id        uuid.UUID
	variant   Variant
	timestamp time.Time
	session   weak.Pointer[Session]
}

func newBase(session *Session, v Variant) base {
	b := base{
		id:        uuid.New(),
		variant:   v,
		timestamp: time.Now(),
	}
	if session != nil {
		b.session = weak.Make(session)
	}
	return b
}

func (b base) ID() uuid.UUID        { return b.id }
func (b base) Variant() Variant     { return b.variant }
func (b base) Timestamp() time.Time { return b.timestamp }
func (b base) Session() *Session    { return b.session.Value() }

// Respond fails for events that have nobody to answer. Variants with a
// target override it.
func (b base) Respond(ctx context.Context, text string) error {
	return ErrNoTarget
}

func (b base) live() (*Session, error) {
	s := b.session.Value()
	if s == nil {
		return nil, ErrSessionGone
	}
	return s, nil
}

func (b base) sendMessage(ctx context.Context, target, text string) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	return s.SendMessage(ctx, target, text)
}
