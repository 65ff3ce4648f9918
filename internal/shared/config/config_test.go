package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
	t.Setenv("IRC_SERVER", "irc.example.net:6697")
}

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "irc.example.net:6697", cfg.IRC.Server)
	assert.Equal(t, "hookbot", cfg.IRC.Nick)
	assert.Equal(t, "!", cfg.Bot.CommandPrefix)
	assert.Equal(t, 4, cfg.Bot.WorkerPoolSize)
	assert.Equal(t, 100, cfg.Bot.JobQueueSize)
	assert.Equal(t, 30*time.Second, cfg.Bot.ConfirmTimeout)
	assert.Empty(t, cfg.IRC.Channels)
	assert.True(t, cfg.IsDev())
}

func TestLoad_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("IRC_CHANNELS", " #go, #rust ,,")
	t.Setenv("IRC_TLS", "true")
	t.Setenv("BOT_WORKER_POOL_SIZE", "8")
	t.Setenv("BOT_CONFIRM_TIMEOUT", "5s")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_RELAY_CHAT_ID", "-100200")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"#go", "#rust"}, cfg.IRC.Channels)
	assert.True(t, cfg.IRC.TLS)
	assert.Equal(t, 8, cfg.Bot.WorkerPoolSize)
	assert.Equal(t, 5*time.Second, cfg.Bot.ConfirmTimeout)
	assert.EqualValues(t, -100200, cfg.Telegram.RelayChatID)
	assert.False(t, cfg.IsDev())
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "Missing Server",
			env:     map[string]string{"IRC_SERVER": ""},
			wantErr: "IRC_SERVER is not set",
		},
		{
			name:    "Server Without Port",
			env:     map[string]string{"IRC_SERVER": "irc.example.net"},
			wantErr: "must be host:port",
		},
		{
			name:    "Zero Workers",
			env:     map[string]string{"BOT_WORKER_POOL_SIZE": "0"},
			wantErr: "BOT_WORKER_POOL_SIZE",
		},
		{
			name:    "Negative Confirm Timeout",
			env:     map[string]string{"BOT_CONFIRM_TIMEOUT": "-1s"},
			wantErr: "BOT_CONFIRM_TIMEOUT",
		},
		{
			name:    "Password Without Key",
			env:     map[string]string{"IRC_NICKSERV_PASSWORD": "abcd"},
			wantErr: "ENCRYPTION_KEY",
		},
		{
			name:    "Token Without Chat",
			env:     map[string]string{"TELEGRAM_TOKEN": "123:abc"},
			wantErr: "TELEGRAM_RELAY_CHAT_ID",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setMinimalEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tc.wantErr), "got %q", err.Error())
		})
	}
}

func TestLoadEncryptionKey(t *testing.T) {
	key := strings.Repeat("ab", 32)

	t.Setenv("ENCRYPTION_KEY", key)
	got, err := LoadEncryptionKey()
	require.NoError(t, err)
	assert.Equal(t, key, got)

	t.Setenv("ENCRYPTION_KEY", "abcd")
	_, err = LoadEncryptionKey()
	assert.ErrorContains(t, err, "64-character")
}
