package handlers

import (
	"IRCHooks/internal/bot"
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"context"
	"fmt"
)

func init() {
	bot.RegisterObserver(NewSeenRecorder)
	bot.RegisterObserver(NewRelayObserver)
}

// Actions stored in ports.SeenRecord.
const (
	ActionMessage = "message"
	ActionJoin    = "join"
	ActionPart    = "part"
	ActionQuit    = "quit"
	ActionKick    = "kick"
)

// --- seen recorder ---

type seenRecorder struct {
	repo ports.SeenRepository
}

// NewSeenRecorder stores the last activity of every nick. It is disabled
// without a repository.
func NewSeenRecorder(deps bot.Deps) ports.Observer {
	if deps.Seen == nil {
		return nil
	}
	return &seenRecorder{repo: deps.Seen}
}

func (o *seenRecorder) Name() string { return "seen_recorder" }

func (o *seenRecorder) Observe(ctx context.Context, event domain.Event) error {
	rec, ok := seenRecordFor(event)
	if !ok {
		return nil
	}
	return o.repo.Record(ctx, rec)
}

func seenRecordFor(event domain.Event) (ports.SeenRecord, bool) {
	rec := ports.SeenRecord{SeenAt: event.Timestamp()}
	switch e := event.(type) {
	case *domain.MessageEvent:
		rec.Nick, rec.Action, rec.Channel, rec.Detail = e.User().Nick, ActionMessage, e.Channel(), e.Message()
	case *domain.JoinEvent:
		rec.Nick, rec.Action, rec.Channel = e.User().Nick, ActionJoin, e.Channel()
	case *domain.PartEvent:
		rec.Nick, rec.Action, rec.Channel, rec.Detail = e.User().Nick, ActionPart, e.Channel(), e.Reason()
	case *domain.QuitEvent:
		rec.Nick, rec.Action, rec.Detail = e.User().Nick, ActionQuit, e.Reason()
	case *domain.KickEvent:
		rec.Nick, rec.Action, rec.Channel, rec.Detail = e.Recipient().Nick(), ActionKick, e.Channel(), e.Reason()
	default:
		return rec, false
	}
	return rec, true
}

// --- relay ---

type relayObserver struct {
	relay ports.RelayPort
}

// NewRelayObserver forwards channel traffic to the configured relay. It is
// disabled without one.
func NewRelayObserver(deps bot.Deps) ports.Observer {
	if deps.Relay == nil {
		return nil
	}
	return &relayObserver{relay: deps.Relay}
}

func (o *relayObserver) Name() string { return "relay" }

func (o *relayObserver) Observe(ctx context.Context, event domain.Event) error {
	text, ok := formatRelay(event)
	if !ok {
		return nil
	}
	return o.relay.Relay(ctx, text)
}

func formatRelay(event domain.Event) (string, bool) {
	switch e := event.(type) {
	case *domain.MessageEvent:
		return fmt.Sprintf("[%s] <%s> %s", e.Channel(), e.User().Nick, e.Message()), true
	case *domain.ActionEvent:
		if e.Channel() == "" {
			return "", false
		}
		return fmt.Sprintf("[%s] * %s %s", e.Channel(), e.User().Nick, e.Action()), true
	case *domain.QuitEvent:
		if e.Reason() == "" {
			return fmt.Sprintf("%s quit", e.User().Nick), true
		}
		return fmt.Sprintf("%s quit (%s)", e.User().Nick, e.Reason()), true
	case *domain.KickEvent:
		return fmt.Sprintf("[%s] %s was kicked by %s (%s)", e.Channel(), e.Recipient().Nick(), e.User().Nick, e.Reason()), true
	}
	return "", false
}
