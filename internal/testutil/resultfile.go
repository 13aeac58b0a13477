package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/store"
	"github.com/roach88/epsql/internal/version"
)

// FixtureStart is the first calendar day of DefaultSpec. It lies in
// ir.BaseYear so fixtures read back identically with or without a Year
// column.
var FixtureStart = time.Date(ir.BaseYear, 1, 1, 0, 0, 0, 0, time.UTC)

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DefaultSpec returns a run period of the given number of days starting at
// FixtureStart with a fixed header timestamp.
func DefaultSpec(days int) ir.SimulationSpec {
	return ir.SimulationSpec{
		StartDate: FixtureStart,
		EndDate:   FixtureStart.AddDate(0, 0, days-1),
		Timestamp: time.Date(ir.BaseYear, 12, 31, 12, 0, 0, 0, time.UTC),
	}
}

// ResultFile is a result file under construction. Every Add method fails
// the test on error.
type ResultFile struct {
	t        testing.TB
	Path     string
	Store    *store.Store
	Flags    version.Flags
	EnvIndex int
}

// NewResultFile creates a result file in a temp dir seeded with spec,
// written with the flags of a current producer.
func NewResultFile(t testing.TB, spec ir.SimulationSpec) *ResultFile {
	t.Helper()
	return NewResultFileWithFlags(t, version.WriterFlags(), spec)
}

// NewResultFileWithFlags is NewResultFile with explicit writer flags, e.g.
// HasYear false to leave the Year column empty.
func NewResultFileWithFlags(t testing.TB, f version.Flags, spec ir.SimulationSpec) *ResultFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eplusout.sql")
	s, _, err := store.Create(context.Background(), path, store.Options{Logger: QuietLogger()})
	if err != nil {
		t.Fatalf("create result file: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	r := &ResultFile{t: t, Path: path, Store: s, Flags: f}
	r.EnvIndex = r.AddEnvironment(spec)
	return r
}

// AddEnvironment appends a simulation with one environment period and
// returns the period index.
func (r *ResultFile) AddEnvironment(spec ir.SimulationSpec) int {
	r.t.Helper()
	idx, err := r.Store.AddSimulation(context.Background(), r.Flags, spec)
	if err != nil {
		r.t.Fatalf("add simulation: %v", err)
	}
	return idx
}

// AddSeries writes a series and returns its catalog index.
func (r *ResultFile) AddSeries(rec ir.SeriesRecord) int {
	r.t.Helper()
	idx, err := r.Store.InsertTimeSeries(context.Background(), r.Flags, rec)
	if err != nil {
		r.t.Fatalf("insert series %q: %v", rec.Name, err)
	}
	return idx
}

// AddZone writes a zone and returns its index.
func (r *ResultFile) AddZone(z ir.Zone) int {
	r.t.Helper()
	idx, err := r.Store.InsertZone(context.Background(), z)
	if err != nil {
		r.t.Fatalf("insert zone %q: %v", z.Name, err)
	}
	return idx
}

// AddIlluminanceMap writes a map with its hourly reports.
func (r *ResultFile) AddIlluminanceMap(rec ir.IlluminanceMapRecord) int {
	r.t.Helper()
	idx, err := r.Store.InsertIlluminanceMap(context.Background(), r.Flags, rec)
	if err != nil {
		r.t.Fatalf("insert illuminance map %q: %v", rec.Name, err)
	}
	return idx
}

// Exec runs raw SQL against the file.
func (r *ResultFile) Exec(query string, args ...any) {
	r.t.Helper()
	if _, err := r.Store.DB().ExecContext(context.Background(), query, args...); err != nil {
		r.t.Fatalf("exec %q: %v", query, err)
	}
}

// Close closes the file and returns its path for reopening.
func (r *ResultFile) Close() string {
	r.t.Helper()
	if err := r.Store.Close(); err != nil {
		r.t.Fatalf("close result file: %v", err)
	}
	return r.Path
}

// HourlyMeter returns a meter record with n hourly samples of value, the
// first ending at hour 1 of FixtureStart.
func HourlyMeter(name string, n int, value float64) ir.SeriesRecord {
	values := make([]float64, n)
	for i := range values {
		values[i] = value
	}
	ts, _ := ir.NewIntervalSeries(FixtureStart.Add(time.Hour), time.Hour, values, "J")
	return ir.SeriesRecord{
		IsMeter:      true,
		Type:         "Sum",
		IndexGroup:   "Facility:Electricity",
		TimestepType: "HVAC System",
		Name:         name,
		Frequency:    ir.Hourly,
		Units:        "J",
		Series:       ts,
	}
}

// HourlyVariable returns a zone variable record with the given samples,
// the first ending at hour 1 of FixtureStart.
func HourlyVariable(name, key string, values []float64) ir.SeriesRecord {
	ts, _ := ir.NewIntervalSeries(FixtureStart.Add(time.Hour), time.Hour, values, "C")
	return ir.SeriesRecord{
		Type:         "Avg",
		IndexGroup:   "Zone",
		TimestepType: "Zone",
		KeyValue:     key,
		Name:         name,
		Frequency:    ir.Hourly,
		Units:        "C",
		Series:       ts,
	}
}
