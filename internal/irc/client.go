package irc

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/tracker"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Client runs one connection from dial to disconnect.
type Client struct {
	log       zerolog.Logger
	cfg       ConnConfig
	engineCfg EngineConfig
	dao       *tracker.UserChannelDao
	sink      EventSink
}

// NewClient creates a client. dao and sink outlive individual connections.
func NewClient(
	cfg ConnConfig,
	engineCfg EngineConfig,
	dao *tracker.UserChannelDao,
	sink EventSink,
	baseLogger *zerolog.Logger,
) *Client {
	return &Client{
		log:       baseLogger.With().Str("component", "irc_client").Logger(),
		cfg:       cfg,
		engineCfg: engineCfg,
		dao:       dao,
		sink:      sink,
	}
}

// Run connects, registers and processes lines until the connection ends
// or ctx is cancelled. A DisconnectEvent is always dispatched once the
// connection was established.
func (c *Client) Run(ctx context.Context) error {
	conn, err := Dial(ctx, c.cfg, &c.log)
	if err != nil {
		return err
	}
	defer conn.Close()

	session := domain.NewSession(c.cfg.Nick, conn)
	engine := NewEngine(c.engineCfg, session, c.dao, c.sink, &c.log)

	if err := conn.Register(ctx); err != nil {
		engine.Disconnected(context.WithoutCancel(ctx), err)
		return fmt.Errorf("registration failed: %w", err)
	}

	err = conn.ReadLoop(ctx, engine.Handle)
	c.log.Info().Err(err).Msg("Connection closed")
	engine.Disconnected(context.WithoutCancel(ctx), err)
	return err
}
