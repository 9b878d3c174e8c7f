package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createAlertsTableSQL = `CREATE TABLE IF NOT EXISTS alert_events (
        id         BIGSERIAL PRIMARY KEY,
        metal      TEXT NOT NULL,
        price      DOUBLE PRECISION NOT NULL,
        alert_type TEXT NOT NULL,
        fired_at   TIMESTAMPTZ NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	insertAlertSQL = `INSERT INTO alert_events (
        metal,
        price,
        alert_type,
        fired_at
    ) VALUES ($1,$2,$3,$4);`

	listRecentAlertsSQL = `SELECT
        metal,
        price,
        alert_type,
        fired_at
    FROM alert_events
    ORDER BY fired_at DESC
    LIMIT $1;`
)

// Store records fired alerts in PostgreSQL. It supplements the file store
// rather than replacing it.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the alert table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createAlertsTableSQL)
	return err
}

// InsertAlert persists one fired alert.
func (s *Store) InsertAlert(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx, insertAlertSQL, event.Metal, event.Price, event.AlertType, event.Timestamp)
	return err
}

// ListRecentAlerts returns the newest alerts first, up to limit.
func (s *Store) ListRecentAlerts(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.pool.Query(ctx, listRecentAlertsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Metal, &e.Price, &e.AlertType, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
