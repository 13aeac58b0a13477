package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/epsql/internal/dictionary"
	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/store"
	"github.com/roach88/epsql/internal/testutil"
	"github.com/roach88/epsql/internal/version"
)

// newEngine detects flags and builds the dictionary of s.
func newEngine(t *testing.T, s *store.Store) *Engine {
	t.Helper()
	ctx := context.Background()
	flags, err := version.Detect(ctx, s.DB(), testutil.QuietLogger())
	require.NoError(t, err)
	dict, err := dictionary.Build(ctx, s, testutil.QuietLogger())
	require.NoError(t, err)
	return New(s, flags, dict, WithLogger(testutil.QuietLogger()))
}

// zoneTemps is a two-day fixture with one meter and two zone variables.
func zoneTemps(t *testing.T) *testutil.ResultFile {
	t.Helper()
	r := testutil.NewResultFile(t, testutil.DefaultSpec(2))
	r.AddSeries(testutil.HourlyMeter("Electricity:Facility", 24, 100))
	r.AddSeries(testutil.HourlyVariable("Zone Mean Air Temperature", "ZONE ONE", ramp(48, 20)))
	r.AddSeries(testutil.HourlyVariable("Zone Mean Air Temperature", "ZONE TWO", ramp(48, 10)))
	return r
}

func ramp(n int, from float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)
	}
	return out
}

func at(day, hour int) time.Time {
	return testutil.FixtureStart.AddDate(0, 0, day-1).Add(time.Duration(hour) * time.Hour)
}

// runPeriodMeter is a single-sample run period meter ending at midnight
// after the last of days.
func runPeriodMeter(name string, days int, value float64) ir.SeriesRecord {
	ts, _ := ir.NewOffsetSeries(testutil.FixtureStart.AddDate(0, 0, days), []time.Duration{0}, []float64{value}, "J")
	return ir.SeriesRecord{
		IsMeter:   true,
		Type:      "Sum",
		Name:      name,
		Frequency: ir.RunPeriod,
		Units:     "J",
		Series:    ts,
	}
}
