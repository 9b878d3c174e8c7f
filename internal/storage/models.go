// Package storage persists fired alerts: always to the append-only JSON
// history file, and additionally to PostgreSQL when a DSN is configured.
package storage

import "time"

// Event is one fired alert. Records are append-only; nothing mutates or
// deletes them once written.
type Event struct {
	Metal     string    `json:"metal"`
	Price     float64   `json:"price"`
	AlertType string    `json:"alert_type"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertHistory is the write/read surface shared by the file and Postgres
// stores.
type AlertHistory interface {
	Append(event Event) error
	List() ([]Event, error)
}
