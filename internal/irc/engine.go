package irc

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/tracker"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// EventSink is where the engine sends the events it builds.
type EventSink interface {
	Dispatch(ctx context.Context, event domain.Event)
}

// EngineConfig holds what the engine needs after registration.
type EngineConfig struct {
	Channels         []string
	NickServPassword string
}

// Engine applies incoming lines to the tracker and dispatches one event per
// line. Handle must be called from a single goroutine, in arrival order.
type Engine struct {
	log     zerolog.Logger
	cfg     EngineConfig
	session *domain.Session
	dao     *tracker.UserChannelDao
	sink    EventSink
}

// NewEngine creates an engine for one connection.
func NewEngine(
	cfg EngineConfig,
	session *domain.Session,
	dao *tracker.UserChannelDao,
	sink EventSink,
	baseLogger *zerolog.Logger,
) *Engine {
	return &Engine{
		log:     baseLogger.With().Str("component", "irc_engine").Logger(),
		cfg:     cfg,
		session: session,
		dao:     dao,
		sink:    sink,
	}
}

// Session returns the session events are created in.
func (e *Engine) Session() *domain.Session { return e.session }

// Tracker returns the live user/channel graph.
func (e *Engine) Tracker() *tracker.UserChannelDao { return e.dao }

// Handle processes one raw line.
func (e *Engine) Handle(ctx context.Context, raw string) error {
	line, err := ParseLine(raw)
	if err != nil {
		return err
	}

	event, err := e.apply(ctx, line)
	if err != nil {
		e.log.Error().Err(err).Str("command", line.Command).Msg("Failed to process line")
		return err
	}
	if event != nil {
		e.sink.Dispatch(ctx, event)
	}
	return nil
}

// Disconnected dispatches a DisconnectEvent carrying the last state and
// then clears the tracker.
func (e *Engine) Disconnected(ctx context.Context, cause error) {
	snap := e.dao.Snapshot()
	e.dao.Reset()
	e.sink.Dispatch(ctx, domain.NewDisconnectEvent(e.session, snap, cause))
}

func (e *Engine) apply(ctx context.Context, line Line) (domain.Event, error) {
	src := line.Source()
	s := e.session

	switch line.Command {
	case "PING":
		token := line.Param(0)
		if err := s.SendRaw(ctx, "PONG :"+token); err != nil {
			return nil, fmt.Errorf("could not answer ping: %w", err)
		}
		return domain.NewServerPingEvent(s, token), nil

	case "001": // RPL_WELCOME
		if nick := line.Param(0); nick != "" {
			s.SetNick(nick)
		}
		if err := e.afterWelcome(ctx); err != nil {
			return nil, err
		}
		e.log.Info().Str("server", line.Prefix).Str("nick", s.Nick()).Msg("Registered with server")
		return domain.NewConnectEvent(s, line.Prefix), nil

	case "332": // RPL_TOPIC
		channel, topic := line.Param(1), line.Param(2)
		old := e.dao.SetTopic(channel, topic, "")
		return domain.NewTopicEvent(s, channel, domain.Hostmask{}, old, topic, false), nil

	case "353": // RPL_NAMREPLY
		e.dao.SetNames(line.Param(2), parseNames(line.Param(3)))
		return nil, nil

	case "CAP": // ACK or NAK of our capability request ends negotiation
		if sub := line.Param(1); sub == "ACK" || sub == "NAK" {
			if err := s.SendRaw(ctx, "CAP END"); err != nil {
				return nil, fmt.Errorf("could not end capability negotiation: %w", err)
			}
		}
		return nil, nil

	case "301": // RPL_AWAY
		e.dao.SetAway(line.Param(1), line.Param(2))
		return nil, nil

	case "311": // RPL_WHOISUSER
		nick := line.Param(1)
		e.dao.UpdateIdentity(domain.Hostmask{Nick: nick, Login: line.Param(2), Host: line.Param(3)})
		e.dao.SetRealName(nick, line.Param(5))
		return nil, nil

	case "352": // RPL_WHOREPLY
		e.applyWhoReply(line)
		return nil, nil

	case "AWAY": // away-notify; no message means back
		e.dao.SetAway(src.Nick, line.Param(0))
		return nil, nil

	case "JOIN":
		channel := line.Param(0)
		e.dao.Join(channel, src)
		if s.IsSelf(src.Nick) {
			// fills in hosts, real names and away state of the members
			if err := s.SendRaw(ctx, "WHO "+channel); err != nil {
				return nil, fmt.Errorf("could not query %s: %w", channel, err)
			}
		}
		return domain.NewJoinEvent(s, channel, src), nil

	case "PART":
		channel, reason := line.Param(0), line.Param(1)
		chanSnap, _ := e.dao.SnapshotChannel(channel)
		userSnap, _ := e.dao.SnapshotUser(src.Nick)
		if s.IsSelf(src.Nick) {
			e.dao.RemoveChannel(channel)
		} else {
			e.dao.Part(channel, src.Nick)
		}
		return domain.NewPartEvent(s, chanSnap, src, userSnap, reason), nil

	case "QUIT":
		// Snapshot first: once the user is removed the state is gone.
		daoSnap := e.dao.Snapshot()
		userSnap, _ := e.dao.SnapshotUser(src.Nick)
		e.dao.Quit(src.Nick)
		return domain.NewQuitEvent(s, daoSnap, src, userSnap, line.Param(0)), nil

	case "KICK":
		channel, recipient, reason := line.Param(0), line.Param(1), line.Param(2)
		recSnap, _ := e.dao.SnapshotUser(recipient)
		if s.IsSelf(recipient) {
			e.dao.RemoveChannel(channel)
		} else {
			e.dao.Part(channel, recipient)
		}
		return domain.NewKickEvent(s, channel, src, recSnap, reason), nil

	case "NICK":
		newNick := line.Param(0)
		if s.IsSelf(src.Nick) {
			s.SetNick(newNick)
		}
		e.dao.Rename(src.Nick, newNick)
		return domain.NewNickChangeEvent(s, src, src.Nick, newNick), nil

	case "TOPIC":
		channel, topic := line.Param(0), line.Param(1)
		old := e.dao.SetTopic(channel, topic, src.Nick)
		return domain.NewTopicEvent(s, channel, src, old, topic, true), nil

	case "MODE":
		e.applyMode(line)
		return domain.NewUnknownEvent(s, line.Raw), nil

	case "PRIVMSG":
		e.dao.UpdateIdentity(src)
		target, text := line.Param(0), line.Param(1)
		if action, ok := ctcpAction(text); ok {
			if IsChannel(target) {
				return domain.NewActionEvent(s, target, src, action), nil
			}
			return domain.NewActionEvent(s, "", src, action), nil
		}
		if IsChannel(target) {
			return domain.NewMessageEvent(s, target, src, text), nil
		}
		return domain.NewPrivateMessageEvent(s, src, text), nil

	case "NOTICE":
		e.dao.UpdateIdentity(src)
		return domain.NewNoticeEvent(s, line.Param(0), src, line.Param(1)), nil
	}

	return domain.NewUnknownEvent(s, line.Raw), nil
}

func (e *Engine) afterWelcome(ctx context.Context) error {
	if e.cfg.NickServPassword != "" {
		if err := e.session.SendMessage(ctx, "NickServ", "IDENTIFY "+e.cfg.NickServPassword); err != nil {
			return fmt.Errorf("could not identify with NickServ: %w", err)
		}
	}
	for _, ch := range e.cfg.Channels {
		if err := e.session.SendRaw(ctx, "JOIN "+ch); err != nil {
			return fmt.Errorf("could not join %s: %w", ch, err)
		}
	}
	return nil
}

// applyWhoReply reads "<me> <channel> <user> <host> <server> <nick> <flags> :<hops> <real name>".
func (e *Engine) applyWhoReply(line Line) {
	nick := line.Param(5)
	if nick == "" {
		return
	}
	e.dao.UpdateIdentity(domain.Hostmask{Nick: nick, Login: line.Param(2), Host: line.Param(3)})
	if _, realName, ok := strings.Cut(line.Param(7), " "); ok {
		e.dao.SetRealName(nick, realName)
	}
	// H is here, G is gone; the away message itself only comes with 301 or AWAY
	if strings.HasPrefix(line.Param(6), "H") {
		e.dao.SetAway(nick, "")
	}
}

// applyMode tracks +o/-o/+v/-v on channel members. Other modes are ignored.
func (e *Engine) applyMode(line Line) {
	channel := line.Param(0)
	if !IsChannel(channel) || len(line.Params) < 3 {
		return
	}
	args := line.Params[2:]
	adding := true
	for _, c := range line.Param(1) {
		switch c {
		case '+':
			adding = true
		case '-':
			adding = false
		case 'o', 'v':
			if len(args) == 0 {
				return
			}
			nick := args[0]
			args = args[1:]
			level := domain.LevelNone
			if adding && c == 'o' {
				level = domain.LevelOp
			} else if adding {
				level = domain.LevelVoice
			}
			e.dao.SetLevel(channel, nick, level)
		case 'b', 'e', 'I', 'k', 'h':
			// untracked modes that always take an argument
			args = dropFirst(args)
		case 'l':
			if adding {
				args = dropFirst(args)
			}
		}
	}
}

func dropFirst(args []string) []string {
	if len(args) == 0 {
		return args
	}
	return args[1:]
}
