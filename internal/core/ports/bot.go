package ports

import (
	"IRCHooks/internal/core/domain"
	"context"
)

// --- Bot Handler Port (Inbound) ---

// CommandRequest is a parsed "!command args" line.
type CommandRequest struct {
	Command string
	Args    []string
	Event   domain.MessageLike
}

// CommandHandler defines the "plugin" interface for bot commands.
type CommandHandler interface {
	// Command returns the command word without the prefix (e.g. "seen").
	Command() string
	// Handle processes the command. It may block, for example on a wait queue.
	Handle(ctx context.Context, req *CommandRequest) error
}

// Observer sees every event the router receives, commands included.
type Observer interface {
	Name() string
	Observe(ctx context.Context, event domain.Event) error
}

// --- Relay Port (Outbound) ---

// RelayPort forwards a line of text to an outside chat.
type RelayPort interface {
	Relay(ctx context.Context, text string) error
}
