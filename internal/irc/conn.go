package irc

import (
	"IRCHooks/internal/core/domain"
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ConnConfig holds connection and registration settings.
type ConnConfig struct {
	Server   string // host:port
	TLS      bool
	Nick     string
	Login    string
	RealName string
}

// Conn is one connection to an IRC server. It implements
// domain.LineSender; writes from any goroutine are serialized.
type Conn struct {
	log  zerolog.Logger
	cfg  ConnConfig
	conn net.Conn

	wmu sync.Mutex
	w   *bufio.Writer
}

var _ domain.LineSender = (*Conn)(nil)

const writeTimeout = 30 * time.Second

// Dial connects to cfg.Server.
func Dial(ctx context.Context, cfg ConnConfig, baseLogger *zerolog.Logger) (*Conn, error) {
	log := baseLogger.With().Str("component", "irc_conn").Str("server", cfg.Server).Logger()

	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", cfg.Server)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect")
		return nil, fmt.Errorf("could not dial %s: %w", cfg.Server, err)
	}

	conn := raw
	if cfg.TLS {
		host, _, _ := net.SplitHostPort(cfg.Server)
		tc := tls.Client(raw, &tls.Config{ServerName: host})
		if err := tc.HandshakeContext(ctx); err != nil {
			raw.Close()
			log.Error().Err(err).Msg("TLS handshake failed")
			return nil, fmt.Errorf("tls handshake with %s: %w", cfg.Server, err)
		}
		conn = tc
	}

	log.Info().Bool("tls", cfg.TLS).Msg("Connected")
	return NewConn(conn, cfg, &log), nil
}

// NewConn wraps an established connection.
func NewConn(conn net.Conn, cfg ConnConfig, log *zerolog.Logger) *Conn {
	return &Conn{
		log:  *log,
		cfg:  cfg,
		conn: conn,
		w:    bufio.NewWriter(conn),
	}
}

// SendRaw writes one line followed by CRLF.
func (c *Conn) SendRaw(ctx context.Context, line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeTimeout)
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if _, err := c.w.WriteString(line + "\r\n"); err != nil {
		return err
	}
	if err := c.w.Flush(); err != nil {
		return err
	}
	c.log.Trace().Str("line", line).Msg(">>>")
	return nil
}

// Register requests away-notify and sends NICK and USER. The engine ends
// capability negotiation when the server answers.
func (c *Conn) Register(ctx context.Context) error {
	login := c.cfg.Login
	if login == "" {
		login = c.cfg.Nick
	}
	if err := c.SendRaw(ctx, "CAP REQ :away-notify"); err != nil {
		return fmt.Errorf("could not request capabilities: %w", err)
	}
	if err := c.SendRaw(ctx, "NICK "+c.cfg.Nick); err != nil {
		return fmt.Errorf("could not send NICK: %w", err)
	}
	if err := c.SendRaw(ctx, fmt.Sprintf("USER %s 0 * :%s", login, c.cfg.RealName)); err != nil {
		return fmt.Errorf("could not send USER: %w", err)
	}
	return nil
}

// ReadLoop feeds every line to handle until the connection ends or ctx is
// cancelled. It returns nil when the server closed the connection or ctx
// ended.
func (c *Conn) ReadLoop(ctx context.Context, handle func(ctx context.Context, line string) error) error {
	stop := context.AfterFunc(ctx, func() {
		// unblocks the scanner below
		c.conn.Close()
	})
	defer stop()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)
	for scanner.Scan() {
		line := scanner.Text()
		c.log.Trace().Str("line", line).Msg("<<<")
		if err := handle(ctx, line); err != nil && !errors.Is(err, ErrEmptyLine) {
			c.log.Warn().Err(err).Str("line", line).Msg("Line handler failed")
		}
	}

	err := scanner.Err()
	if ctx.Err() != nil || err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}
