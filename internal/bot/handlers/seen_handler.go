package handlers

import (
	"IRCHooks/internal/bot"
	"IRCHooks/internal/core/ports"
	"IRCHooks/internal/core/tracker"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewSeenHandler)
}

// seenHandler answers "!seen <nick>".
type seenHandler struct {
	log  zerolog.Logger
	repo ports.SeenRepository
	dao  *tracker.UserChannelDao
	now  func() time.Time
}

// NewSeenHandler creates the handler for !seen.
func NewSeenHandler(deps bot.Deps) ports.CommandHandler {
	return &seenHandler{
		log:  deps.Logger.With().Str("component", "seen_handler").Logger(),
		repo: deps.Seen,
		dao:  deps.Tracker,
		now:  time.Now,
	}
}

func (h *seenHandler) Command() string { return "seen" }

func (h *seenHandler) Handle(ctx context.Context, req *ports.CommandRequest) error {
	if len(req.Args) == 0 {
		return req.Event.Respond(ctx, "usage: seen <nick>")
	}
	nick := req.Args[0]

	if h.dao.Contains(nick) {
		return req.Event.Respond(ctx, fmt.Sprintf("%s is here right now.", nick))
	}
	if h.repo == nil {
		return req.Event.Respond(ctx, fmt.Sprintf("I don't see %s, and I keep no history.", nick))
	}

	rec, err := h.repo.LastSeen(ctx, nick)
	if err != nil {
		return fmt.Errorf("could not look up %s: %w", nick, err)
	}
	if rec == nil {
		return req.Event.Respond(ctx, fmt.Sprintf("I have never seen %s.", nick))
	}
	return req.Event.Respond(ctx, describeSeen(rec, h.now()))
}

func describeSeen(rec *ports.SeenRecord, now time.Time) string {
	ago := now.Sub(rec.SeenAt).Truncate(time.Second)
	var what string
	switch rec.Action {
	case ActionMessage:
		what = fmt.Sprintf("saying %q in %s", rec.Detail, rec.Channel)
	case ActionJoin:
		what = fmt.Sprintf("joining %s", rec.Channel)
	case ActionPart:
		what = fmt.Sprintf("leaving %s", rec.Channel)
	case ActionKick:
		what = fmt.Sprintf("being kicked from %s", rec.Channel)
	case ActionQuit:
		what = "quitting"
	default:
		what = rec.Action
	}
	if rec.Detail != "" && rec.Action != ActionMessage {
		what += fmt.Sprintf(" (%s)", rec.Detail)
	}
	return fmt.Sprintf("%s was last seen %s ago %s.", rec.Nick, ago, what)
}
