package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// IRCConfig holds the connection settings.
type IRCConfig struct {
	Server           string // host:port
	TLS              bool
	Nick             string
	Login            string
	RealName         string
	Channels         []string
	NickServPassword string // Sealed with ENCRYPTION_KEY, hex-encoded
}

// BotConfig holds the command router settings.
type BotConfig struct {
	CommandPrefix  string
	WorkerPoolSize int
	JobQueueSize   int
	ConfirmTimeout time.Duration
}

// PostgresConfig is optional; the seen store is disabled without it.
type PostgresConfig struct {
	URL string
}

// TelegramConfig is optional; the relay is disabled without a token.
type TelegramConfig struct {
	Token       string
	RelayChatID int64
}

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	EncryptionKey string
	IRC           IRCConfig
	Bot           BotConfig
	Postgres      PostgresConfig
	Telegram      TelegramConfig
}

// envBindings maps viper keys to environment variables.
var envBindings = map[string]string{
	"app.env":                "APP_ENV",
	"encryption.key":         "ENCRYPTION_KEY",
	"irc.server":             "IRC_SERVER",
	"irc.tls":                "IRC_TLS",
	"irc.nick":               "IRC_NICK",
	"irc.login":              "IRC_LOGIN",
	"irc.realname":           "IRC_REALNAME",
	"irc.channels":           "IRC_CHANNELS",
	"irc.nickserv_password":  "IRC_NICKSERV_PASSWORD",
	"bot.command_prefix":     "BOT_COMMAND_PREFIX",
	"bot.worker_pool_size":   "BOT_WORKER_POOL_SIZE",
	"bot.job_queue_size":     "BOT_JOB_QUEUE_SIZE",
	"bot.confirm_timeout":    "BOT_CONFIRM_TIMEOUT",
	"postgres.url":           "POSTGRES_URL",
	"telegram.token":         "TELEGRAM_TOKEN",
	"telegram.relay_chat_id": "TELEGRAM_RELAY_CHAT_ID",
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// 1. Load .env file into the process environment.
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// 2. Bind viper keys to env var names
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Set defaults
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("irc.tls", false)
	viper.SetDefault("irc.nick", "hookbot")
	viper.SetDefault("irc.realname", "IRCHooks bot")
	viper.SetDefault("bot.command_prefix", "!")
	viper.SetDefault("bot.worker_pool_size", 4)
	viper.SetDefault("bot.job_queue_size", 100)
	viper.SetDefault("bot.confirm_timeout", "30s")

	// 4. Get values from viper
	cfg := Config{
		AppEnv:        viper.GetString("app.env"),
		EncryptionKey: viper.GetString("encryption.key"),
		IRC: IRCConfig{
			Server:           viper.GetString("irc.server"),
			TLS:              viper.GetBool("irc.tls"),
			Nick:             viper.GetString("irc.nick"),
			Login:            viper.GetString("irc.login"),
			RealName:         viper.GetString("irc.realname"),
			Channels:         splitList(viper.GetString("irc.channels")),
			NickServPassword: viper.GetString("irc.nickserv_password"),
		},
		Bot: BotConfig{
			CommandPrefix:  viper.GetString("bot.command_prefix"),
			WorkerPoolSize: viper.GetInt("bot.worker_pool_size"),
			JobQueueSize:   viper.GetInt("bot.job_queue_size"),
			ConfirmTimeout: viper.GetDuration("bot.confirm_timeout"),
		},
		Postgres: PostgresConfig{
			URL: viper.GetString("postgres.url"),
		},
		Telegram: TelegramConfig{
			Token:       viper.GetString("telegram.token"),
			RelayChatID: viper.GetInt64("telegram.relay_chat_id"),
		},
	}

	// 5. Validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEncryptionKey reads only ENCRYPTION_KEY, for tools that need
// nothing else from the configuration.
func LoadEncryptionKey() (string, error) {
	if err := loadDotEnv(); err != nil {
		return "", err
	}
	if err := viper.BindEnv("encryption.key", envBindings["encryption.key"]); err != nil {
		return "", fmt.Errorf("could not bind encryption.key: %w", err)
	}

	key := viper.GetString("encryption.key")
	if len(key) != 64 {
		return "", fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(key))
	}
	return key, nil
}

// loadDotEnv loads .env into the process environment. A missing file is
// fine; we then rely on OS-set env vars.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.IRC.Server == "" {
		return errors.New("IRC_SERVER is not set in environment or .env file")
	}
	if _, _, err := net.SplitHostPort(c.IRC.Server); err != nil {
		return fmt.Errorf("IRC_SERVER must be host:port, got %q: %w", c.IRC.Server, err)
	}
	if c.IRC.Nick == "" {
		return errors.New("IRC_NICK is set but is an empty string")
	}
	if c.Bot.CommandPrefix == "" {
		return errors.New("BOT_COMMAND_PREFIX must not be empty")
	}
	if c.Bot.WorkerPoolSize < 1 {
		return fmt.Errorf("BOT_WORKER_POOL_SIZE must be at least 1, got %d", c.Bot.WorkerPoolSize)
	}
	if c.Bot.JobQueueSize < 1 {
		return fmt.Errorf("BOT_JOB_QUEUE_SIZE must be at least 1, got %d", c.Bot.JobQueueSize)
	}
	if c.Bot.ConfirmTimeout <= 0 {
		return fmt.Errorf("BOT_CONFIRM_TIMEOUT must be positive, got %s", c.Bot.ConfirmTimeout)
	}
	if c.IRC.NickServPassword != "" && len(c.EncryptionKey) != 64 {
		return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes) when IRC_NICKSERV_PASSWORD is set, but got %d chars", len(c.EncryptionKey))
	}
	if c.Telegram.Token != "" && c.Telegram.RelayChatID == 0 {
		return errors.New("TELEGRAM_RELAY_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

// IsDev reports whether console logging and debug output are wanted.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}
