package ports

import (
	"context"
	"time"
)

// SeenRecord is the last thing a nick was observed doing.
type SeenRecord struct {
	Nick    string
	Action  string // "message", "join", "part", "quit", "kick"
	Channel string // Empty for quits
	Detail  string // Message text or reason
	SeenAt  time.Time
}

// SeenRepository stores one SeenRecord per nick.
type SeenRepository interface {
	// Record upserts the record for rec.Nick.
	Record(ctx context.Context, rec SeenRecord) error

	// LastSeen returns nil, nil when the nick was never seen.
	LastSeen(ctx context.Context, nick string) (*SeenRecord, error)
}
