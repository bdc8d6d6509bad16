// Package events records study activity for analytics.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-planner/internal/platform/database"
)

// Event types.
const (
	PlanGenerated  = "plan_generated"
	PlanExported   = "plan_exported"
	TopicCompleted = "topic_completed"
	TopicReopened  = "topic_reopened"
)

const dbTimeout = 5 * time.Second

// Schema creates the events table.
const Schema = `
CREATE TABLE IF NOT EXISTS study_events (
	id          BIGSERIAL PRIMARY KEY,
	user_id     TEXT NOT NULL DEFAULT '',
	event_type  TEXT NOT NULL,
	data        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS study_events_user_idx ON study_events (user_id, created_at);
`

// Event is one analytics record. UserID is empty for anonymous requests.
// CreatedAt must be set by the caller.
type Event struct {
	UserID    string
	Type      string
	Data      map[string]any
	CreatedAt time.Time
}

func (e Event) validate() error {
	if e.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("event time is required")
	}
	return nil
}

// Logger defines event logging behavior.
type Logger interface {
	LogEvent(ctx context.Context, event Event) error
}

// NopLogger ignores all events.
type NopLogger struct{}

func (NopLogger) LogEvent(context.Context, Event) error {
	return nil
}

// MemoryLogger stores events in memory for tests.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{
		events: []Event{},
	}
}

func (l *MemoryLogger) LogEvent(_ context.Context, event Event) error {
	if err := event.validate(); err != nil {
		return err
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	return nil
}

func (l *MemoryLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event{}, l.events...)
}

// PostgresLogger inserts events into the study_events table.
type PostgresLogger struct {
	pool *pgxpool.Pool
}

// Migration creates study_events.
var Migration = database.Migration{Name: "0002_study_events", SQL: Schema}

// NewPostgresLogger ensures the events table exists.
func NewPostgresLogger(ctx context.Context, pool *pgxpool.Pool) (*PostgresLogger, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if _, err := database.Migrate(ctx, pool, Migration); err != nil {
		return nil, err
	}
	return &PostgresLogger{pool: pool}, nil
}

func (l *PostgresLogger) LogEvent(ctx context.Context, event Event) error {
	if l == nil || l.pool == nil {
		return fmt.Errorf("event logger pool is nil")
	}
	if err := event.validate(); err != nil {
		return err
	}

	payload := event.Data
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := l.pool.Exec(ctx,
		`INSERT INTO study_events (user_id, event_type, data, created_at)
		 VALUES ($1, $2, $3::jsonb, $4)`,
		event.UserID,
		event.Type,
		string(data),
		event.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	slog.Debug("event logged", "type", event.Type, "user_id", event.UserID)
	return nil
}

// Count returns how many events of the given type a user has recorded.
func (l *PostgresLogger) Count(ctx context.Context, userID, eventType string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var n int
	if err := l.pool.QueryRow(ctx,
		`SELECT count(*) FROM study_events WHERE user_id = $1 AND event_type = $2`,
		userID, eventType,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
