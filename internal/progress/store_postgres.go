package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-planner/internal/platform/database"
)

const dbTimeout = 5 * time.Second

// Schema creates the table PostgresStore reads and writes.
const Schema = `CREATE TABLE IF NOT EXISTS topic_progress (
	user_id      TEXT        NOT NULL,
	topic_id     TEXT        NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, topic_id)
)`

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Migration creates topic_progress.
var Migration = database.Migration{Name: "0001_topic_progress", SQL: Schema}

// NewPostgresStore creates a store on pool and ensures its table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if _, err := database.Migrate(ctx, pool, Migration); err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) MarkDone(ctx context.Context, userID, topicID string, at time.Time) error {
	if err := checkKeys(userID, topicID); err != nil {
		return err
	}
	if at.IsZero() {
		return ErrMissingTime
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO topic_progress (user_id, topic_id, completed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, topic_id) DO NOTHING`,
		userID,
		topicID,
		at,
	)
	if err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkUndone(ctx context.Context, userID, topicID string) error {
	if err := checkKeys(userID, topicID); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx,
		`DELETE FROM topic_progress WHERE user_id = $1 AND topic_id = $2`,
		userID,
		topicID,
	)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s topic %s", ErrNotFound, userID, topicID)
	}
	return nil
}

func (s *PostgresStore) Completed(ctx context.Context, userID string) (map[string]Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT topic_id, completed_at
		 FROM topic_progress
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Completion)
	for rows.Next() {
		c := Completion{UserID: userID}
		if err := rows.Scan(&c.TopicID, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out[c.TopicID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return out, nil
}
