package handlers

import (
	"IRCHooks/internal/bot"
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"IRCHooks/internal/core/waitfor"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

func init() {
	bot.RegisterCommand(NewConfirmHandler)
}

var (
	yesWords = []string{"yes", "y", "yep", "ok"}
	noWords  = []string{"no", "n", "nope"}
)

// confirmHandler asks the caller a yes/no question and waits for their
// reply in the same place the command was issued.
type confirmHandler struct {
	log        zerolog.Logger
	dispatcher ports.Dispatcher
	timeout    time.Duration
}

// NewConfirmHandler creates the handler for !confirm.
func NewConfirmHandler(deps bot.Deps) ports.CommandHandler {
	return &confirmHandler{
		log:        deps.Logger.With().Str("component", "confirm_handler").Logger(),
		dispatcher: deps.Dispatcher,
		timeout:    deps.Config.Bot.ConfirmTimeout,
	}
}

func (h *confirmHandler) Command() string { return "confirm" }

func (h *confirmHandler) Handle(ctx context.Context, req *ports.CommandRequest) error {
	question := strings.Join(req.Args, " ")
	if question == "" {
		return req.Event.Respond(ctx, "usage: confirm <question>")
	}

	// Subscribe before asking so a fast reply cannot be missed.
	q, err := waitfor.New(h.dispatcher, &h.log)
	if err != nil {
		return fmt.Errorf("could not create wait queue: %w", err)
	}
	defer q.Close()

	if err := req.Event.Respond(ctx, question+" (yes/no)"); err != nil {
		return err
	}

	answer, err := h.awaitAnswer(ctx, q, req.Event)
	switch {
	case errors.Is(err, waitfor.ErrTimeout):
		return req.Event.Respond(ctx, "No answer, giving up.")
	case err != nil:
		return err
	case answer:
		return req.Event.Respond(ctx, "Confirmed.")
	default:
		return req.Event.Respond(ctx, "Cancelled.")
	}
}

// awaitAnswer returns the first yes or no from the asker. Anything else
// they say is ignored. The timeout covers the whole exchange.
func (h *confirmHandler) awaitAnswer(ctx context.Context, q *waitfor.Queue, asker domain.MessageLike) (bool, error) {
	deadline := time.Now().Add(h.timeout)
	filter := domain.Variants(domain.CategoryGenericMessage)

	for {
		event, err := q.WaitForTimeout(ctx, filter, time.Until(deadline))
		if err != nil {
			return false, err
		}
		reply, ok := event.(domain.MessageLike)
		if !ok || !sameConversation(asker, reply) {
			continue
		}

		word := strings.ToLower(strings.TrimSpace(reply.Message()))
		switch {
		case lo.Contains(yesWords, word):
			return true, nil
		case lo.Contains(noWords, word):
			return false, nil
		}
	}
}

func sameConversation(a, b domain.MessageLike) bool {
	if a.Variant() != b.Variant() {
		return false
	}
	if domain.FoldNick(a.User().Nick) != domain.FoldNick(b.User().Nick) {
		return false
	}
	return domain.FoldNick(channelOf(a)) == domain.FoldNick(channelOf(b))
}

func channelOf(e domain.Event) string {
	if ce, ok := e.(domain.ChannelEvent); ok {
		return ce.Channel()
	}
	return ""
}
