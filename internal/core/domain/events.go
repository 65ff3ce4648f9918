package domain

import "context"

// ConnectEvent is dispatched once the server has accepted the registration.
type ConnectEvent struct {
	base
	server string
}

func NewConnectEvent(s *Session, server string) *ConnectEvent {
	return &ConnectEvent{base: newBase(s, VariantConnect), server: server}
}

func (e *ConnectEvent) Server() string { return e.server }

// DisconnectEvent is dispatched after the connection closed. It keeps the
// last state of the tracker since the live one is reset afterwards.
type DisconnectEvent struct {
	base
	dao   DaoSnapshot
	cause error
}

func NewDisconnectEvent(s *Session, dao DaoSnapshot, cause error) *DisconnectEvent {
	return &DisconnectEvent{base: newBase(s, VariantDisconnect), dao: dao, cause: cause}
}

func (e *DisconnectEvent) DaoSnapshot() DaoSnapshot { return e.dao }

// Cause is the error that ended the connection, nil on a clean shutdown.
func (e *DisconnectEvent) Cause() error { return e.cause }

// MessageEvent is a PRIVMSG sent to a channel.
type MessageEvent struct {
	base
	channel string
	user    Hostmask
	message string
}

func NewMessageEvent(s *Session, channel string, user Hostmask, message string) *MessageEvent {
	return &MessageEvent{base: newBase(s, VariantMessage), channel: channel, user: user, message: message}
}

func (e *MessageEvent) Channel() string { return e.channel }
func (e *MessageEvent) User() Hostmask  { return e.user }
func (e *MessageEvent) Message() string { return e.message }

// Respond answers in the channel, prefixed with the sender's nick.
func (e *MessageEvent) Respond(ctx context.Context, text string) error {
	return e.sendMessage(ctx, e.channel, e.user.Nick+": "+text)
}

// PrivateMessageEvent is a PRIVMSG sent directly to the bot.
type PrivateMessageEvent struct {
	base
	user    Hostmask
	message string
}

func NewPrivateMessageEvent(s *Session, user Hostmask, message string) *PrivateMessageEvent {
	return &PrivateMessageEvent{base: newBase(s, VariantPrivateMessage), user: user, message: message}
}

func (e *PrivateMessageEvent) User() Hostmask  { return e.user }
func (e *PrivateMessageEvent) Message() string { return e.message }

func (e *PrivateMessageEvent) Respond(ctx context.Context, text string) error {
	return e.sendMessage(ctx, e.user.Nick, text)
}

// ActionEvent is a CTCP ACTION. Channel is empty when it was sent privately.
type ActionEvent struct {
	base
	channel string
	user    Hostmask
	action  string
}

func NewActionEvent(s *Session, channel string, user Hostmask, action string) *ActionEvent {
	return &ActionEvent{base: newBase(s, VariantAction), channel: channel, user: user, action: action}
}

func (e *ActionEvent) Channel() string { return e.channel }
func (e *ActionEvent) User() Hostmask  { return e.user }
func (e *ActionEvent) Action() string  { return e.action }
func (e *ActionEvent) Message() string { return e.action }

func (e *ActionEvent) Respond(ctx context.Context, text string) error {
	if e.channel == "" {
		return e.sendMessage(ctx, e.user.Nick, text)
	}
	return e.sendMessage(ctx, e.channel, text)
}

// NoticeEvent is a NOTICE from a user. Target is the channel or the bot's nick.
type NoticeEvent struct {
	base
	target  string
	user    Hostmask
	message string
}

func NewNoticeEvent(s *Session, target string, user Hostmask, message string) *NoticeEvent {
	return &NoticeEvent{base: newBase(s, VariantNotice), target: target, user: user, message: message}
}

func (e *NoticeEvent) Target() string  { return e.target }
func (e *NoticeEvent) User() Hostmask  { return e.user }
func (e *NoticeEvent) Message() string { return e.message }

// Respond answers with a notice to the sender, never to a channel.
func (e *NoticeEvent) Respond(ctx context.Context, text string) error {
	s, err := e.live()
	if err != nil {
		return err
	}
	return s.SendNotice(ctx, e.user.Nick, text)
}

// JoinEvent is dispatched when someone (possibly the bot) joins a channel.
type JoinEvent struct {
	base
	channel string
	user    Hostmask
}

func NewJoinEvent(s *Session, channel string, user Hostmask) *JoinEvent {
	return &JoinEvent{base: newBase(s, VariantJoin), channel: channel, user: user}
}

func (e *JoinEvent) Channel() string { return e.channel }
func (e *JoinEvent) User() Hostmask  { return e.user }

func (e *JoinEvent) Respond(ctx context.Context, text string) error {
	return e.sendMessage(ctx, e.channel, e.user.Nick+": "+text)
}

// PartEvent is dispatched when someone leaves a channel. The snapshots are
// taken before the member is removed.
type PartEvent struct {
	base
	channel      ChannelSnapshot
	user         Hostmask
	userSnapshot UserSnapshot
	reason       string
}

func NewPartEvent(s *Session, channel ChannelSnapshot, user Hostmask, snapshot UserSnapshot, reason string) *PartEvent {
	return &PartEvent{
		base:         newBase(s, VariantPart),
		channel:      channel,
		user:         user,
		userSnapshot: snapshot,
		reason:       reason,
	}
}

func (e *PartEvent) Channel() string                  { return e.channel.Name() }
func (e *PartEvent) ChannelSnapshot() ChannelSnapshot { return e.channel }
func (e *PartEvent) User() Hostmask                   { return e.user }
func (e *PartEvent) UserSnapshot() UserSnapshot       { return e.userSnapshot }
func (e *PartEvent) Reason() string                   { return e.reason }

func (e *PartEvent) Respond(ctx context.Context, text string) error {
	return e.sendMessage(ctx, e.channel.Name(), text)
}

// QuitEvent is dispatched when someone we share a channel with quits the
// server. Everything it carries is fixed before the user is removed from
// the tracker, so later changes to live state never show through.
type QuitEvent struct {
	base
	dao          DaoSnapshot
	user         Hostmask
	userSnapshot UserSnapshot
	reason       string
}

func NewQuitEvent(s *Session, dao DaoSnapshot, user Hostmask, snapshot UserSnapshot, reason string) *QuitEvent {
	return &QuitEvent{
		base:         newBase(s, VariantQuit),
		dao:          dao,
		user:         user,
		userSnapshot: snapshot,
		reason:       reason,
	}
}

// DaoSnapshot is the user/channel graph as it was before the user quit.
func (e *QuitEvent) DaoSnapshot() DaoSnapshot { return e.dao }

func (e *QuitEvent) User() Hostmask { return e.user }

// UserSnapshot is the user as it was before quitting.
func (e *QuitEvent) UserSnapshot() UserSnapshot { return e.userSnapshot }

// Reason is the quit message, possibly empty.
func (e *QuitEvent) Reason() string { return e.reason }

// Respond always fails: the user is gone and there is nothing to address.
func (e *QuitEvent) Respond(ctx context.Context, text string) error {
	return ErrRespondDisabled
}

// KickEvent is dispatched when a member is kicked. User is the kicker.
type KickEvent struct {
	base
	channel   string
	user      Hostmask
	recipient UserSnapshot
	reason    string
}

func NewKickEvent(s *Session, channel string, user Hostmask, recipient UserSnapshot, reason string) *KickEvent {
	return &KickEvent{
		base:      newBase(s, VariantKick),
		channel:   channel,
		user:      user,
		recipient: recipient,
		reason:    reason,
	}
}

func (e *KickEvent) Channel() string         { return e.channel }
func (e *KickEvent) User() Hostmask          { return e.user }
func (e *KickEvent) Recipient() UserSnapshot { return e.recipient }
func (e *KickEvent) Reason() string          { return e.reason }

func (e *KickEvent) Respond(ctx context.Context, text string) error {
	return e.sendMessage(ctx, e.channel, text)
}

// NickChangeEvent is dispatched when a user changes nick.
type NickChangeEvent struct {
	base
	user    Hostmask
	oldNick string
	newNick string
}

func NewNickChangeEvent(s *Session, user Hostmask, oldNick, newNick string) *NickChangeEvent {
	return &NickChangeEvent{base: newBase(s, VariantNickChange), user: user, oldNick: oldNick, newNick: newNick}
}

func (e *NickChangeEvent) User() Hostmask  { return e.user }
func (e *NickChangeEvent) OldNick() string { return e.oldNick }
func (e *NickChangeEvent) NewNick() string { return e.newNick }

func (e *NickChangeEvent) Respond(ctx context.Context, text string) error {
	return e.sendMessage(ctx, e.newNick, text)
}

// TopicEvent is dispatched when a channel topic is set or reported.
type TopicEvent struct {
	base
	channel  string
	user     Hostmask
	oldTopic string
	topic    string
	changed  bool
}

func NewTopicEvent(s *Session, channel string, user Hostmask, oldTopic, topic string, changed bool) *TopicEvent {
	return &TopicEvent{
		base:     newBase(s, VariantTopic),
		channel:  channel,
		user:     user,
		oldTopic: oldTopic,
		topic:    topic,
		changed:  changed,
	}
}

func (e *TopicEvent) Channel() string  { return e.channel }
func (e *TopicEvent) User() Hostmask   { return e.user }
func (e *TopicEvent) OldTopic() string { return e.oldTopic }
func (e *TopicEvent) Topic() string    { return e.topic }

// Changed is false when the topic was only reported on join.
func (e *TopicEvent) Changed() bool { return e.changed }

func (e *TopicEvent) Respond(ctx context.Context, text string) error {
	return e.sendMessage(ctx, e.channel, text)
}

// ServerPingEvent is dispatched for every PING from the server.
type ServerPingEvent struct {
	base
	token string
}

func NewServerPingEvent(s *Session, token string) *ServerPingEvent {
	return &ServerPingEvent{base: newBase(s, VariantServerPing), token: token}
}

func (e *ServerPingEvent) Token() string { return e.token }

// UnknownEvent wraps a line no other event describes.
type UnknownEvent struct {
	base
	line string
}

func NewUnknownEvent(s *Session, line string) *UnknownEvent {
	return &UnknownEvent{base: newBase(s, VariantUnknown), line: line}
}

func (e *UnknownEvent) Line() string { return e.line }
