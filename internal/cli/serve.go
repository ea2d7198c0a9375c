package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/broadcast"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/config"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/httpapi"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/publish"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/scorer"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/store"
)

// ServeOptions holds flags for the serve command. Set flags override the
// environment.
type ServeOptions struct {
	*RootOptions
	Addr     string
	Database string
	RedisURL string
	Policy   string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API",
		Long: `Serve the scoring API over HTTP with live WebSocket viewers.

Every accepted event is journaled to SQLite before it is acknowledged.
Journaled matches are replayed on startup. When a Redis URL is set every
emitted event is also appended to the stream matches.updates.<match id>.

Settings are read from the environment and overridden by flags:
  SCORER_ADDR              listen address (default :8080)
  SCORER_DB                SQLite database (default scorer.db)
  SCORER_REDIS_URL         redis:// URL for event streams
  SCORER_POLICY            CUE playing conditions
  SCORER_ALLOWED_ORIGINS   comma-separated CORS origins (default *)
  SCORER_SHUTDOWN_TIMEOUT  graceful shutdown limit (default 10s)

Examples:
  scorer serve
  scorer serve --addr :9000 --db ./scorer.db
  scorer serve --redis redis://localhost:6379/0 --policy ./conditions.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serveConfig(cmd, opts)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	addServeFlags(cmd, opts)
	return cmd
}

func addServeFlags(cmd *cobra.Command, opts *ServeOptions) {
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.RedisURL, "redis", "", "redis:// URL for event streams")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "CUE playing conditions")
}

// serveConfig loads the environment and applies the flags that were set.
func serveConfig(cmd *cobra.Command, opts *ServeOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.Addr
	}
	if flags.Changed("db") {
		cfg.DBPath = opts.Database
	}
	if flags.Changed("redis") {
		cfg.RedisURL = opts.RedisURL
	}
	if flags.Changed("policy") {
		cfg.PolicyPath = opts.Policy
	}
	return cfg, cfg.Validate()
}

func runServe(ctx context.Context, cfg config.Config) error {
	srv, err := newServer(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start server", err)
	}
	defer srv.Close()

	if err := srv.Restore(ctx); err != nil {
		slog.Warn("some matches could not be restored", "error", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := srv.Start(runCtx)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(runCtx),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "db", cfg.DBPath, "redis", cfg.RedisURL != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return WrapExitError(ExitCommandError, "server error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Stop the background loops only after in-flight requests have
	// enqueued their emissions.
	srv.dispatcher.Stop()
	cancel()
	<-done

	slog.Info("shutdown complete")
	return nil
}

// server is the wired scoring service: journal, rule table, broadcast hub,
// optional Redis stream sink and the HTTP handler on top.
type server struct {
	cfg        config.Config
	store      *store.Store
	redis      *redis.Client
	hub        *broadcast.Hub
	dispatcher *engine.Dispatcher
	svc        *scorer.Service
}

// newServer opens the journal and connects the sinks. ctx bounds
// connection attempts only.
func newServer(ctx context.Context, cfg config.Config) (*server, error) {
	policy, err := loadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	st, err := store.Open(cfg.DBPath, store.WithBusyTimeout(cfg.DBBusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s := &server{cfg: cfg, store: st}

	s.hub = broadcast.NewHub(originChecker(cfg))
	sinks := []engine.Sink{s.hub}

	if cfg.RedisURL != "" {
		client, err := publish.Connect(ctx, cfg.RedisURL)
		if err != nil {
			st.Close()
			return nil, err
		}
		s.redis = client
		sinks = append(sinks, publish.NewStreamPublisher(client))
	}

	s.dispatcher = engine.NewDispatcher(sinks...)
	s.svc = scorer.New(
		scorer.WithJournal(st),
		scorer.WithPolicy(policy),
		scorer.WithDispatcher(s.dispatcher),
	)
	return s, nil
}

// Restore replays every journaled match into the service.
func (s *server) Restore(ctx context.Context) error {
	n, err := s.svc.Restore(ctx)
	slog.Info("matches restored", "count", n)
	return err
}

// Start runs the hub and the dispatcher until ctx is cancelled. The
// returned channel is closed once both have stopped.
func (s *server) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		s.hub.Run(ctx)
	}()
	go func() {
		defer close(done)
		if err := s.dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("dispatcher stopped", "error", err)
		}
		<-hubDone
	}()
	return done
}

// Handler builds the HTTP handler. Viewer connections live until ctx is
// cancelled, not for the lifetime of the upgrade request.
func (s *server) Handler(ctx context.Context) http.Handler {
	return httpapi.New(s.svc,
		httpapi.WithBroadcast(ctx, s.hub),
		httpapi.WithPinger(s.store),
		httpapi.WithAllowedOrigins(s.cfg.AllowedOrigins),
	).Routes()
}

// Close releases the journal and the Redis connection.
func (s *server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
}

// originChecker admits WebSocket upgrades from the configured origins.
func originChecker(cfg config.Config) func(*http.Request) bool {
	if cfg.AllowAnyOrigin() {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(cfg.AllowedOrigins, origin)
	}
}
