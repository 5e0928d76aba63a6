package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wardline/sentinel/internal/challenge"
	"github.com/wardline/sentinel/internal/config"
	"github.com/wardline/sentinel/internal/tracker"
)

type requestIDKey struct{}

// NewRouter builds the HTTP surface: request-id/recovery/CORS middleware,
// the classification middleware of spec.md §4.5, the detection routes, and
// the static UI fallback.
func NewRouter(cfg *config.Config, log *zap.Logger, store *challenge.Store, trk *tracker.Tracker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))
	r.Use(requestIDMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &Handlers{
		cfg:     cfg,
		log:     log,
		store:   store,
		tracker: trk,
	}

	r.Use(h.classify)

	r.Get("/api/challenge", h.IssueChallenge)
	r.Post("/api/challenge/verify", h.VerifyChallenge)
	r.Post("/api/visit", h.Visit)
	r.Post("/api/bot", h.Analyze)
	r.Get("/api/visit-status", h.VisitStatus)

	static := staticDir(cfg.StaticDir)
	r.Get("/*", h.serveStatic(static))

	return r
}

func staticDir(dir string) http.FileSystem {
	if dir == "" {
		dir = "./dist"
	}
	// A relative directory is resolved against the executable's directory.
	if !filepath.IsAbs(dir) {
		if exe, err := os.Executable(); err == nil {
			dir = filepath.Join(filepath.Dir(exe), dir)
		}
	}
	return http.Dir(dir)
}

// requestIDMiddleware stamps every request with a correlation id used by
// every structured log line the handler emits downstream.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
