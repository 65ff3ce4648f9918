package telegram

import (
	"IRCHooks/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// tgRelay implements the RelayPort by posting into one Telegram chat.
type tgRelay struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

// NewRelay connects to the Bot API with token.
func NewRelay(token string, chatID int64, baseLogger *zerolog.Logger) (ports.RelayPort, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return NewRelayWithAPI(api, chatID, baseLogger), nil
}

// NewRelayWithAPI wraps an existing API client.
func NewRelayWithAPI(api *tgbotapi.BotAPI, chatID int64, baseLogger *zerolog.Logger) ports.RelayPort {
	log := baseLogger.With().Str("component", "tg_relay").Int64("chat_id", chatID).Logger()
	log.Info().Str("username", api.Self.UserName).Msg("Telegram relay connected")
	return &tgRelay{api: api, chatID: chatID, log: log}
}

// Relay sends text as a plain message. Telegram rejects empty messages,
// so those are skipped.
func (r *tgRelay) Relay(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := r.api.Send(msg); err != nil {
		r.log.Error().Err(err).Msg("Failed to relay message")
		return err
	}
	return nil
}
