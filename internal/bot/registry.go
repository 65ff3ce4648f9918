package bot

import (
	"IRCHooks/internal/core/ports"
	"IRCHooks/internal/core/tracker"
	"IRCHooks/internal/shared/config"

	"github.com/rs/zerolog"
)

// Deps is everything a handler or observer constructor may need.
type Deps struct {
	Config     *config.Config
	Dispatcher ports.Dispatcher
	Tracker    *tracker.UserChannelDao
	Seen       ports.SeenRepository // nil when no database is configured
	Relay      ports.RelayPort
	Logger     *zerolog.Logger
}

// --- Define types for handler "constructors" ---

type CommandHandlerConstructor func(deps Deps) ports.CommandHandler

// ObserverConstructor returns nil when its dependencies are not configured.
type ObserverConstructor func(deps Deps) ports.Observer

// --- Create the global registries ---

var (
	commandRegistry  []CommandHandlerConstructor
	observerRegistry []ObserverConstructor
)

// RegisterCommand is called by handlers in their init() function
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterObserver is called by observers in their init() function
func RegisterObserver(constructor ObserverConstructor) {
	observerRegistry = append(observerRegistry, constructor)
}

// RegisterAllHandlers builds all registered handlers and observers and
// passes them to the router.
func RegisterAllHandlers(router *Router, deps Deps) {
	log := deps.Logger.With().Str("component", "handler_registry").Logger()

	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps))
	}

	for _, constructor := range observerRegistry {
		obs := constructor(deps)
		if obs == nil {
			continue
		}
		router.RegisterObserver(obs)
		log.Info().Str("observer", obs.Name()).Msg("Registered observer")
	}
}
