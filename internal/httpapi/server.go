// Package httpapi exposes a scorer.Service over HTTP and WebSocket.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/broadcast"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/scorer"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the scoring API.
type Handler struct {
	svc     *scorer.Service
	hub     *broadcast.Hub
	wsCtx   context.Context
	pinger  Pinger
	origins []string
}

// Option configures a Handler.
type Option func(*Handler)

// WithBroadcast enables live viewers on /matches/{id}/ws. Viewer
// connections live until ctx is cancelled.
func WithBroadcast(ctx context.Context, hub *broadcast.Hub) Option {
	return func(h *Handler) {
		h.wsCtx = ctx
		h.hub = hub
	}
}

// WithPinger makes /health check p.
func WithPinger(p Pinger) Option {
	return func(h *Handler) {
		h.pinger = p
	}
}

// WithAllowedOrigins sets the CORS origins. Default: any.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		h.origins = origins
	}
}

// New creates a Handler for svc.
func New(svc *scorer.Service, opts ...Option) *Handler {
	h := &Handler{
		svc:     svc,
		wsCtx:   context.Background(),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)

	r.Route("/matches", func(r chi.Router) {
		r.Post("/", h.CreateMatch)
		r.Get("/", h.ListMatches)

		r.Route("/{matchID}", func(r chi.Router) {
			r.Get("/", h.GetMatch)
			r.Delete("/", h.DeleteMatch)
			r.Get("/history", h.GetHistory)
			r.Get("/result", h.GetResult)
			r.Get("/ws", h.Watch)

			r.Post("/start", h.Start)
			r.Post("/balls", h.SubmitBall)
			r.Post("/batsmen", h.SelectBatsman)
			r.Post("/strike", h.SwitchStrike)
			r.Post("/undo", h.Undo)
			r.Post("/abandon", h.Abandon)
		})
	})

	return r
}

// Health reports service status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "store unhealthy", err)
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"matches": len(h.svc.List()),
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
