package bot

import (
	"IRCHooks/internal/core/domain"
	"IRCHooks/internal/core/ports"
	"IRCHooks/internal/shared/config"
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Router is subscribed to the dispatcher. It never blocks the dispatching
// goroutine: events are queued for a worker pool, which runs observers and
// routes "!command" lines to their handler. Handlers may block (for
// example on a wait queue) without stalling the connection.
type Router struct {
	log             zerolog.Logger
	prefix          string
	workers         int
	commandHandlers map[string]ports.CommandHandler
	observers       []ports.Observer
	jobs            chan domain.Event
	wg              sync.WaitGroup
}

var _ ports.Listener = (*Router)(nil)

// NewRouter creates a router. Register handlers before Start.
func NewRouter(cfg *config.BotConfig, baseLogger *zerolog.Logger) *Router {
	return &Router{
		log:             baseLogger.With().Str("component", "bot_router").Logger(),
		prefix:          cfg.CommandPrefix,
		workers:         cfg.WorkerPoolSize,
		commandHandlers: make(map[string]ports.CommandHandler),
		jobs:            make(chan domain.Event, cfg.JobQueueSize),
	}
}

// RegisterCommandHandler adds a "plugin" to the router.
func (r *Router) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := strings.ToLower(handler.Command())
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new command handler")
}

// RegisterObserver adds an observer that sees every event.
func (r *Router) RegisterObserver(obs ports.Observer) {
	r.observers = append(r.observers, obs)
}

// OnEvent queues event for the workers. When the queue is full the event
// is dropped rather than blocking the dispatcher.
func (r *Router) OnEvent(_ context.Context, event domain.Event) error {
	select {
	case r.jobs <- event:
	default:
		r.log.Warn().Str("variant", event.Variant().String()).Msg("Job queue full, dropping event")
	}
	return nil
}

// Start launches the worker pool. Workers stop when ctx is cancelled.
func (r *Router) Start(ctx context.Context) {
	for w := 1; w <= r.workers; w++ {
		r.wg.Add(1)
		go func(id int) {
			defer r.wg.Done()
			log := r.log.With().Int("worker_id", id).Logger()
			log.Debug().Msg("Starting router worker")
			for {
				select {
				case <-ctx.Done():
					log.Debug().Msg("Stopping router worker (context done)")
					return
				case event := <-r.jobs:
					r.HandleEvent(log.WithContext(ctx), event)
				}
			}
		}(w)
	}
	r.log.Info().Int("workers", r.workers).Msg("Router started")
}

// Wait blocks until every worker has stopped.
func (r *Router) Wait() {
	r.wg.Wait()
}

// HandleEvent runs the observers and, for a command line, its handler.
func (r *Router) HandleEvent(ctx context.Context, event domain.Event) {
	for _, obs := range r.observers {
		if err := obs.Observe(ctx, event); err != nil {
			r.log.Error().Err(err).Str("observer", obs.Name()).Msg("Observer failed")
		}
	}

	req, ok := r.parseCommand(event)
	if !ok {
		return
	}

	ctxLogger := r.log.With().
		Str("command", req.Command).
		Str("nick", req.Event.User().Nick).
		Logger()

	handler, ok := r.commandHandlers[req.Command]
	if !ok {
		ctxLogger.Debug().Msg("No handler for command")
		return
	}

	ctxLogger.Info().Msg("Routing to command handler")
	if err := handler.Handle(ctxLogger.WithContext(ctx), req); err != nil {
		ctxLogger.Error().Err(err).Msg("Command handler failed")
		if err := req.Event.Respond(ctx, "An internal error occurred."); err != nil {
			ctxLogger.Warn().Err(err).Msg("Could not report the failure")
		}
	}
}

// parseCommand recognizes "<prefix>command args..." in channel and private
// messages.
func (r *Router) parseCommand(event domain.Event) (*ports.CommandRequest, bool) {
	var msg domain.MessageLike
	switch e := event.(type) {
	case *domain.MessageEvent:
		msg = e
	case *domain.PrivateMessageEvent:
		msg = e
	default:
		return nil, false
	}

	text := strings.TrimSpace(msg.Message())
	if !strings.HasPrefix(text, r.prefix) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, r.prefix))
	if len(fields) == 0 {
		return nil, false
	}

	return &ports.CommandRequest{
		Command: strings.ToLower(fields[0]),
		Args:    fields[1:],
		Event:   msg,
	}, true
}
