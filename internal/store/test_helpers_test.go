package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/version"
)

// quietOptions discards store logs.
func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// createTestStore creates a new result file with the full schema.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eplusout.sql")
	s, created, err := Create(context.Background(), path, quietOptions())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if !created {
		t.Fatalf("Create() reported an existing file at %s", path)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSimulation creates a result file with one environment period
// covering the given number of days from 2024-01-01.
func createTestSimulation(t *testing.T, days int) (*Store, int) {
	t.Helper()
	s := createTestStore(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	envIndex, err := s.AddSimulation(context.Background(), version.WriterFlags(), ir.SimulationSpec{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days-1),
		Timestamp: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddSimulation() failed: %v", err)
	}
	return s, envIndex
}

// countRows returns COUNT(*) of a table.
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
