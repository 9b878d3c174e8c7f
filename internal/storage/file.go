package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// FileStore keeps alert history as a single JSON array on disk. Each append
// reads the whole array and rewrites the file; there is no locking, which
// is acceptable for the single-user render model.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore constructs a file-backed alert history at path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "alert_history").Logger(),
	}
}

// Append adds one event to the history, creating the file on first use.
func (f *FileStore) Append(event Event) error {
	history, err := f.List()
	if err != nil {
		return err
	}

	history = append(history, event)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal alert history: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write alert history: %w", err)
	}

	f.logger.Debug().Str("metal", event.Metal).Str("alert_type", event.AlertType).Msg("alert recorded")
	return nil
}

// List returns all recorded events in insertion order. A missing file is an
// empty history.
func (f *FileStore) List() ([]Event, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("read alert history: %w", err)
	}

	var history []Event
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse alert history: %w", err)
	}
	return history, nil
}

var _ AlertHistory = (*FileStore)(nil)
