package main

import (
	"IRCHooks/internal/adapters/eventbus"
	"IRCHooks/internal/adapters/postgres"
	"IRCHooks/internal/adapters/security"
	"IRCHooks/internal/adapters/telegram"
	"IRCHooks/internal/bot"
	"IRCHooks/internal/core/ports"
	"IRCHooks/internal/core/tracker"
	"IRCHooks/internal/irc"
	"IRCHooks/internal/shared/config"
	"IRCHooks/internal/shared/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// Handlers and observers register themselves in init().
	_ "IRCHooks/internal/bot/handlers"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev())
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("server", cfg.IRC.Server).
		Str("nick", cfg.IRC.Nick).
		Strs("channels", cfg.IRC.Channels).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Decrypt the NickServ password, if any
	nickServPassword := ""
	if cfg.IRC.NickServPassword != "" {
		box, err := security.NewSecretBoxFromHex(cfg.EncryptionKey, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize security service")
		}
		nickServPassword, err = box.Open(cfg.IRC.NickServPassword)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to decrypt IRC_NICKSERV_PASSWORD")
		}
	}

	// 4. Optional adapters
	var seenRepo ports.SeenRepository
	if cfg.Postgres.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		seenRepo = postgres.NewSeenRepository(db, &baseLogger)
	} else {
		baseLogger.Warn().Msg("POSTGRES_URL not set, !seen history is disabled")
	}

	var relay ports.RelayPort
	if cfg.Telegram.Token != "" {
		relay, err = telegram.NewRelay(cfg.Telegram.Token, cfg.Telegram.RelayChatID, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize Telegram relay")
		}
	}

	// 5. Core: dispatcher, tracker and the bot router
	bus := eventbus.NewInMemoryBus(&baseLogger)
	dao := tracker.New()

	router := bot.NewRouter(&cfg.Bot, &baseLogger)
	bot.RegisterAllHandlers(router, bot.Deps{
		Config:     cfg,
		Dispatcher: bus,
		Tracker:    dao,
		Seen:       seenRepo,
		Relay:      relay,
		Logger:     &baseLogger,
	})
	bus.Subscribe(router)
	router.Start(ctx)

	// 6. Run the IRC connection until it drops or we are asked to stop
	client := irc.NewClient(
		irc.ConnConfig{
			Server:   cfg.IRC.Server,
			TLS:      cfg.IRC.TLS,
			Nick:     cfg.IRC.Nick,
			Login:    cfg.IRC.Login,
			RealName: cfg.IRC.RealName,
		},
		irc.EngineConfig{
			Channels:         cfg.IRC.Channels,
			NickServPassword: nickServPassword,
		},
		dao,
		bus,
		&baseLogger,
	)

	baseLogger.Info().Msg("Application started")
	runErr := client.Run(ctx)

	stop()
	router.Wait()

	if runErr != nil {
		baseLogger.Error().Err(runErr).Msg("IRC client stopped with an error")
		os.Exit(1)
	}
	baseLogger.Info().Msg("Application stopped gracefully")
}
