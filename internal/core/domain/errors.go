package domain

import "errors"

var (
	// ErrRespondDisabled is returned by Respond on events that have nobody left to answer.
	ErrRespondDisabled = errors.New("respond is not supported for this event")

	// ErrSessionGone is returned when the session an event came from no longer exists.
	ErrSessionGone = errors.New("owning session is no longer available")

	// ErrNoTarget is returned when an event has no channel or user to reply to.
	ErrNoTarget = errors.New("event has no reply target")
)
