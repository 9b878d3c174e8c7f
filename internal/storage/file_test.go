package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "alert_history.json"), zerolog.Nop())

	history, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d events", len(history))
	}
}

func TestFileStoreAppendPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alert_history.json")
	store := NewFileStore(path, zerolog.Nop())

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Append(Event{
			Metal:     "gold",
			Price:     2050 + float64(i),
			AlertType: "drop",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	history, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected 5 events, got %d", len(history))
	}
	for i, ev := range history {
		if ev.Price != 2050+float64(i) {
			t.Fatalf("event %d out of order: price %v", i, ev.Price)
		}
	}
}

func TestFileStoreJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alert_history.json")
	store := NewFileStore(path, zerolog.Nop())

	ts := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	if err := store.Append(Event{Metal: "silver", Price: 24.5, AlertType: "rise", Timestamp: ts}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("history file is not a JSON array: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raw))
	}
	for _, key := range []string{"metal", "price", "alert_type", "timestamp"} {
		if _, ok := raw[0][key]; !ok {
			t.Fatalf("record missing %q key: %v", key, raw[0])
		}
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alert_history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path, zerolog.Nop())
	if _, err := store.List(); err == nil {
		t.Fatal("expected an error for a corrupt history file")
	}
	if err := store.Append(Event{Metal: "gold"}); err == nil {
		t.Fatal("append must not clobber a corrupt history file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{not json" {
		t.Fatal("corrupt file contents changed")
	}
}
