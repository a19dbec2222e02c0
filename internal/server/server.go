// Package server exposes the chat responder and the ask pipeline over HTTP
// and a websocket.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/hyperifyio/sanji/internal/chatbot"
	"github.com/hyperifyio/sanji/internal/metrics"
	"github.com/hyperifyio/sanji/internal/pipeline"
)

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 10 * time.Second

// Asker runs the ask pipeline; *pipeline.Pipeline satisfies it.
type Asker interface {
	Run(ctx context.Context, query string) pipeline.Result
}

// Options configures a Server.
type Options struct {
	Chat chatbot.Responder
	Ask  Asker
	// ResponderName labels chat replies in metrics.
	ResponderName string
	Metrics       *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Server holds the HTTP handlers. Build it only after the chat responder is
// ready to answer.
type Server struct {
	opts     Options
	upgrader websocket.Upgrader
}

// New returns a Server for opts.
func New(opts Options) *Server {
	if opts.ResponderName == "" {
		opts.ResponderName = "corpus"
	}
	return &Server{
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router returns the route table without the outer middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet).Name("index")
	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost).Name("chat")
	r.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost).Name("ask")
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet).Name("ws")
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet).Name("healthz")
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet).Name("metrics")
	}
	return r
}

// Handler returns the full handler: recovery, CORS, request logger and
// request id around the router.
func (s *Server) Handler() http.Handler {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
	)

	var h http.Handler = s.Router()
	h = requestID(h)
	h = hlog.NewHandler(s.opts.Logger)(h)
	h = cors(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.opts.Logger}),
		handlers.PrintRecoveryStack(true),
	)(h)
	return h
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// ask requests fetch several pages sequentially
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("addr", addr).Msg("sanji listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.opts.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
