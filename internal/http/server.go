// Package http exposes the application over a JSON API consumed by the
// browser frontend.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"trijoshh/internal/middleware/ratelimit"
	"trijoshh/internal/middleware/trace"
	"trijoshh/internal/services"
	"trijoshh/internal/suggest"
)

// Options tune the server's suggestion flow and rate limiting.
type Options struct {
	SuggestDebounce  time.Duration
	SuggestMinLength int
	RateLimitPerMin  int
}

func DefaultOptions() Options {
	return Options{
		SuggestDebounce:  time.Second,
		SuggestMinLength: 5,
		RateLimitPerMin:  120,
	}
}

type Server struct {
	*http.Server

	app      *services.App
	suggest  *suggest.Client
	opts     Options
	limiter  *ratelimit.Limiter
	shutdown sync.Once

	mu         sync.Mutex
	debouncers map[string]*suggest.Debouncer // keyed by user id
}

func NewServer(addr string, app *services.App, suggestClient *suggest.Client, opts Options) *Server {
	if opts.SuggestDebounce <= 0 {
		opts.SuggestDebounce = DefaultOptions().SuggestDebounce
	}
	if opts.SuggestMinLength <= 0 {
		opts.SuggestMinLength = DefaultOptions().SuggestMinLength
	}
	if opts.RateLimitPerMin <= 0 {
		opts.RateLimitPerMin = DefaultOptions().RateLimitPerMin
	}

	s := &Server{
		app:     app,
		suggest: suggestClient,
		opts:    opts,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMin,
		}),
		debouncers: make(map[string]*suggest.Debouncer),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/auth/signup", s.handleSignUp)
	mux.HandleFunc("/api/auth/login", s.handleLogIn)
	mux.HandleFunc("/api/auth/logout", s.handleLogOut)
	mux.HandleFunc("/api/auth/me", s.handleMe)

	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/api/expenses/export", s.handleExport)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/suggest", s.handleSuggest)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: trace.Middleware(s.withRateLimit(mux)),
	}
	return s
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			slog.WarnContext(r.Context(), "Rate limit exceeded", "client_ip", clientIP(r), "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// debouncerFor returns the suggestion debouncer for a user, creating it on
// first use. Each user gets their own edit stream so one user's typing
// cannot supersede another's.
func (s *Server) debouncerFor(userID string) *suggest.Debouncer {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debouncers[userID]
	if !ok {
		d = suggest.NewDebouncer(s.suggest, s.opts.SuggestDebounce, s.opts.SuggestMinLength)
		s.debouncers[userID] = d
	}
	return d
}

// dropDebouncer removes a user's debouncer so the map does not grow for the
// lifetime of the process. Any waiter still holding the old debouncer
// finishes its own Await normally.
func (s *Server) dropDebouncer(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.debouncers, userID)
}

// Shutdown stops the rate limiter's background loop and then the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdown.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
