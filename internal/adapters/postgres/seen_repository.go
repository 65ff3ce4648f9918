package postgres

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type seenRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.SeenRepository = (*seenRepository)(nil) // Ensure compliance

// NewSeenRepository creates a repository for last-seen records.
func NewSeenRepository(db *DB, baseLogger *zerolog.Logger) ports.SeenRepository {
	return &seenRepository{
		db:  db,
		log: baseLogger.With().Str("component", "seen_repo").Logger(),
	}
}

// Record upserts the record, keyed by the case-folded nick.
func (r *seenRepository) Record(ctx context.Context, rec ports.SeenRecord) error {
	query := `
		INSERT INTO seen (nick_key, nick, action, channel, detail, seen_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (nick_key) DO UPDATE SET
			nick = EXCLUDED.nick,
			action = EXCLUDED.action,
			channel = EXCLUDED.channel,
			detail = EXCLUDED.detail,
			seen_at = EXCLUDED.seen_at
	`
	_, err := r.db.pool.Exec(ctx, query,
		domain.FoldNick(rec.Nick),
		rec.Nick,
		rec.Action,
		rec.Channel,
		rec.Detail,
		rec.SeenAt,
	)
	if err != nil {
		r.log.Error().Err(err).Str("nick", rec.Nick).Msg("Failed to record seen entry")
	}
	return err
}

// LastSeen returns nil, nil when nick has no record.
func (r *seenRepository) LastSeen(ctx context.Context, nick string) (*ports.SeenRecord, error) {
	query := `SELECT nick, action, channel, detail, seen_at FROM seen WHERE nick_key = $1`

	var rec ports.SeenRecord
	err := r.db.pool.QueryRow(ctx, query, domain.FoldNick(nick)).Scan(
		&rec.Nick,
		&rec.Action,
		&rec.Channel,
		&rec.Detail,
		&rec.SeenAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("nick", nick).Msg("Failed to query seen entry")
		return nil, err
	}
	return &rec, nil
}
