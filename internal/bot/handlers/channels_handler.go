package handlers

import (
	"IRCHooks/internal/bot"
	"IRCHooks/internal/core/ports"
	"IRCHooks/internal/core/tracker"
	"context"
	"fmt"
	"strings"
)

func init() {
	bot.RegisterCommand(NewChannelsHandler)
}

// channelsHandler answers "!channels <nick>" from the tracker.
type channelsHandler struct {
	dao *tracker.UserChannelDao
}

// NewChannelsHandler creates the handler for !channels.
func NewChannelsHandler(deps bot.Deps) ports.CommandHandler {
	return &channelsHandler{dao: deps.Tracker}
}

func (h *channelsHandler) Command() string { return "channels" }

func (h *channelsHandler) Handle(ctx context.Context, req *ports.CommandRequest) error {
	nick := req.Event.User().Nick
	if len(req.Args) > 0 {
		nick = req.Args[0]
	}

	chans := h.dao.Snapshot().ChannelsOf(nick)
	if len(chans) == 0 {
		return req.Event.Respond(ctx, fmt.Sprintf("I don't share any channel with %s.", nick))
	}
	return req.Event.Respond(ctx, fmt.Sprintf("%s is in %s", nick, strings.Join(chans, ", ")))
}
