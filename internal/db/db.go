// Package db provides the optional PostgreSQL capture log. It is a
// best-effort side channel: failures here never block or fail a capture.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// RecordCapture inserts one capture-log row and returns its id.
func (db *DB) RecordCapture(ctx context.Context, rawText, trackerTag string, confidence float64, outcome string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO captures (raw_text, tracker_tag, confidence, outcome)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		rawText, trackerTag, confidence, outcome,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record capture: %w", err)
	}
	return id, nil
}

// RecordReviewAction inserts one review-action audit row.
func (db *DB) RecordReviewAction(ctx context.Context, itemID, action string, success bool) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO review_actions (item_id, action, success)
		 VALUES ($1, $2, $3)`,
		itemID, action, success,
	)
	if err != nil {
		return fmt.Errorf("failed to record review action: %w", err)
	}
	return nil
}
