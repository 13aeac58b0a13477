package harness

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/roach88/epsql/internal/engine"
	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/sqlfile"
	"github.com/roach88/epsql/internal/testutil"
)

// FileName is the name of the result file a scenario writes.
const FileName = "eplusout.sql"

// Harness executes scenarios against a freshly written result file.
type Harness struct {
	file   *sqlfile.File
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario writes its own result file under dir. The calendar starts
// on testutil.FixtureStart and the header timestamp is fixed, so reruns
// produce identical traces.
//
// Execution flow:
// 1. Create the result file with the scenario's calendar
// 2. Write series, then zones and illuminance maps
// 3. Run queries with expect validation
// 4. Evaluate assertions and return the result
func Run(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	spec := testutil.DefaultSpec(scenario.Days)
	spec.EnvironmentName = scenario.Environment
	if scenario.EnvironmentType != "" {
		t, ok := ir.ParseEnvironmentType(scenario.EnvironmentType)
		if !ok {
			return nil, fmt.Errorf("unknown environment_type %q", scenario.EnvironmentType)
		}
		spec.EnvironmentType = t
	}

	logger := testutil.QuietLogger() // Suppress logs in tests
	f, err := sqlfile.Create(ctx, filepath.Join(dir, FileName), spec, sqlfile.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to create result file: %w", err)
	}
	defer f.Close()

	h := &Harness{file: f, logger: logger}

	if err := h.writeSeries(ctx, scenario.Series); err != nil {
		return nil, fmt.Errorf("failed to write series: %w", err)
	}
	if err := h.writeMaps(ctx, scenario.Maps); err != nil {
		return nil, fmt.Errorf("failed to write maps: %w", err)
	}

	result := NewResult()
	if err := h.executeQueries(ctx, scenario.Queries, result); err != nil {
		return nil, fmt.Errorf("failed to execute queries: %w", err)
	}

	actx := &AssertionContext{
		File: f,
		Ctx:  ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// writeSeries writes every series step.
func (h *Harness) writeSeries(ctx context.Context, steps []SeriesStep) error {
	for i, step := range steps {
		rec, err := seriesRecord(step)
		if err != nil {
			return fmt.Errorf("series step %d: %w", i, err)
		}
		idx, err := h.file.InsertTimeSeries(ctx, rec)
		if err != nil {
			return fmt.Errorf("series step %d: %w", i, err)
		}
		h.logger.Info("series written", "step", i, "name", step.Name, "key", step.Key, "index", idx)
	}
	return nil
}

func seriesRecord(step SeriesStep) (ir.SeriesRecord, error) {
	interval, err := seriesInterval(step.Frequency)
	if err != nil {
		return ir.SeriesRecord{}, err
	}
	freq, _ := ir.ParseReportingFrequency(step.Frequency)

	values := step.Values
	if step.Fill != nil {
		values = make([]float64, step.Fill.Count)
		for i := range values {
			values[i] = step.Fill.Value
		}
	}

	ts, err := ir.NewIntervalSeries(testutil.FixtureStart.Add(interval), interval, values, step.Units)
	if err != nil {
		return ir.SeriesRecord{}, err
	}

	rec := ir.SeriesRecord{
		IsMeter:      step.Meter,
		Type:         "Avg",
		IndexGroup:   "Zone",
		TimestepType: "Zone",
		KeyValue:     step.Key,
		Name:         step.Name,
		Frequency:    freq,
		Units:        step.Units,
		Series:       ts,
	}
	if step.Meter {
		rec.Type = "Sum"
		rec.IndexGroup = "Facility:Electricity"
		rec.TimestepType = "HVAC System"
	}
	return rec, nil
}

// writeMaps writes each map's zone, when new, and the map with one hourly
// report per illuminance value.
func (h *Harness) writeMaps(ctx context.Context, steps []MapStep) error {
	zones := make(map[string]bool)
	for i, step := range steps {
		if !zones[step.Zone] {
			if _, err := h.file.InsertZone(ctx, ir.Zone{Name: step.Zone, Multiplier: 1, ListMultiplier: 1}); err != nil {
				return fmt.Errorf("map step %d: %w", i, err)
			}
			zones[step.Zone] = true
		}

		start, err := time.Parse(time.DateTime, step.Start)
		if err != nil {
			return fmt.Errorf("map step %d: %w", i, err)
		}
		clock := testutil.NewStepClock(start, time.Hour)

		rec := ir.IlluminanceMapRecord{
			ZoneName:    step.Zone,
			Name:        step.Name,
			Environment: h.file.AvailableEnvironments()[0],
			Times:       clock.Take(len(step.Illuminance)),
			X:           step.X,
			Y:           step.Y,
		}
		for _, lux := range step.Illuminance {
			grid := ir.NewIlluminanceGrid(step.X, step.Y)
			for _, column := range grid.Values {
				for j := range column {
					column[j] = lux
				}
			}
			rec.Maps = append(rec.Maps, grid.Values)
		}

		idx, err := h.file.InsertIlluminanceMap(ctx, rec)
		if err != nil {
			return fmt.Errorf("map step %d: %w", i, err)
		}
		h.logger.Info("illuminance map written", "step", i, "name", step.Name, "index", idx, "reports", clock.Count())
	}
	return nil
}

// executeQueries expands and reads every query step, recording the trace
// and validating expect clauses.
func (h *Harness) executeQueries(ctx context.Context, steps []QueryStep, result *Result) error {
	for i, step := range steps {
		q, err := step.Query.ToQuery()
		if err != nil {
			return fmt.Errorf("query step %d: %w", i, err)
		}
		result.AddQueryTrace(q.String())

		resolved := h.file.Expand(q)
		samples := 0
		for _, rq := range resolved {
			n, err := h.readResolved(ctx, rq, result)
			if err != nil {
				return fmt.Errorf("query step %d: %w", i, err)
			}
			samples += n
		}

		if step.Expect == nil {
			continue
		}
		if want := step.Expect.Resolved; want != nil && *want != len(resolved) {
			result.AddError(fmt.Sprintf("query step %d (%s): expected %d resolved queries, got %d", i, q, *want, len(resolved)))
		}
		if want := step.Expect.Samples; want != nil && *want != samples {
			result.AddError(fmt.Sprintf("query step %d (%s): expected %d samples, got %d", i, q, *want, samples))
		}

		h.logger.Info("query step completed",
			"step", i,
			"query", q.String(),
			"resolved", len(resolved),
			"samples", samples,
		)
	}
	return nil
}

// readResolved reads every key value of rq into the trace and returns the
// number of samples read.
func (h *Harness) readResolved(ctx context.Context, rq engine.ResolvedQuery, result *Result) (int, error) {
	samples := 0
	for _, key := range rq.KeyValues {
		ts, ok, err := h.file.TimeSeries(ctx, rq.Environment, rq.Frequency, rq.Name, key)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		ev := TraceEvent{
			Resolved: rq.String(),
			KeyValue: key,
			Units:    ts.Units,
			Samples:  ts.Len(),
		}
		if stamps := ts.Timestamps(); len(stamps) > 0 {
			ev.First = stamps[0].Format(time.DateTime)
			ev.Last = stamps[len(stamps)-1].Format(time.DateTime)
		}
		for _, v := range ts.Values {
			ev.Sum += v
		}
		result.AddSeriesTrace(ev)
		samples += ts.Len()
	}
	return samples, nil
}
