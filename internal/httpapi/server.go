// Package httpapi exposes the planner, countdown, and progress tracking over HTTP.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"github.com/p-n-ai/pai-planner/internal/countdown"
	"github.com/p-n-ai/pai-planner/internal/curriculum"
	"github.com/p-n-ai/pai-planner/internal/events"
	"github.com/p-n-ai/pai-planner/internal/export"
	"github.com/p-n-ai/pai-planner/internal/plancache"
	"github.com/p-n-ai/pai-planner/internal/planner"
	"github.com/p-n-ai/pai-planner/internal/platform/clock"
	"github.com/p-n-ai/pai-planner/internal/progress"
)

const (
	defaultStreamInterval = time.Second
	maxBodyBytes          = 1 << 20
)

// TopicSource supplies topics when a request does not carry its own.
type TopicSource interface {
	PlannerTopics(subjectID string) []planner.Topic
	GetTopic(id string) (curriculum.Topic, bool)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Config holds dependencies for the HTTP server.
type Config struct {
	Clock          clock.Clock
	Topics         TopicSource     // optional
	Progress       progress.Store  // default: in-memory
	PlanCache      plancache.Cache // optional
	Events         events.Logger   // default: discard
	Language       language.Tag    // label fallback (default English)
	StreamInterval time.Duration   // websocket push period (default 1s)
	ReadyChecks    map[string]HealthCheck
}

// Server handles HTTP requests.
type Server struct {
	clock      clock.Clock
	engine     *planner.Engine
	classifier *countdown.Classifier
	topics     TopicSource
	progress   progress.Store
	cache      plancache.Cache
	renderXLSX func(io.Writer, planner.Plan, map[string]string, map[string]progress.Completion) error
	events     events.Logger
	lang       language.Tag
	interval   time.Duration
	checks     map[string]HealthCheck
}

// New creates a server.
func New(cfg Config) *Server {
	c := cfg.Clock
	if c == nil {
		c = clock.Real{}
	}
	store := cfg.Progress
	if store == nil {
		store = progress.NewMemoryStore()
	}
	ev := cfg.Events
	if ev == nil {
		ev = events.NopLogger{}
	}
	lang := cfg.Language
	if lang == language.Und {
		lang = language.English
	}
	interval := cfg.StreamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &Server{
		clock:      c,
		engine:     planner.NewEngine(c),
		classifier: countdown.NewClassifier(c),
		topics:     cfg.Topics,
		progress:   store,
		cache:      cfg.PlanCache,
		renderXLSX: export.WriteXLSX,
		events:     ev,
		lang:       lang,
		interval:   interval,
		checks:     cfg.ReadyChecks,
	}
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /v1/plans", s.handleCreatePlan)
	mux.HandleFunc("POST /v1/plans/export", s.handleExportPlan)

	mux.HandleFunc("GET /v1/countdown", s.handleCountdown)
	mux.HandleFunc("GET /v1/countdown/stream", s.handleCountdownStream)

	mux.HandleFunc("PUT /v1/users/{user}/topics/{topic}/done", s.handleMarkDone)
	mux.HandleFunc("DELETE /v1/users/{user}/topics/{topic}/done", s.handleMarkUndone)
	mux.HandleFunc("GET /v1/users/{user}/progress", s.handleProgress)
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// record logs an analytics event. Failures never fail the request.
func (s *Server) record(ctx context.Context, userID, eventType string, data map[string]any) {
	err := s.events.LogEvent(ctx, events.Event{
		UserID:    userID,
		Type:      eventType,
		Data:      data,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		slog.Warn("event not recorded", "type", eventType, "user_id", userID, "error", err)
	}
}
