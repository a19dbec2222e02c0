package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID returns the id requestID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestID reuses an incoming X-Request-ID or mints a UUID, echoes it on the
// response and adds it to the request logger.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("req_id", id)
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLog logs each routed request and records it in the HTTP metrics.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		route := routeName(r)
		s.opts.Metrics.ObserveHTTP(route, status, d)
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(next)
}

func routeName(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		if name := cur.GetName(); name != "" {
			return name
		}
		if tpl, err := cur.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unknown"
}

// recoveryLogger routes gorilla's recovery output into zerolog.
type recoveryLogger struct {
	l zerolog.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.l.Error().Msg(fmt.Sprint(v...))
}
