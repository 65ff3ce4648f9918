package handlers

import (
	"IRCHooks/internal/bot"
	"IRCHooks/internal/core/ports"
	"context"
)

func init() {
	bot.RegisterCommand(NewPingHandler)
}

type pingHandler struct{}

// NewPingHandler creates the handler for !ping.
func NewPingHandler(bot.Deps) ports.CommandHandler {
	return pingHandler{}
}

func (pingHandler) Command() string { return "ping" }

func (pingHandler) Handle(ctx context.Context, req *ports.CommandRequest) error {
	return req.Event.Respond(ctx, "pong")
}
