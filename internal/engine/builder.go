package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/epsql/internal/dictionary"
	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/store"
)

// sample is one row of a series joined to the calendar.
type sample struct {
	value    float64
	stamp    ir.Stamp
	interval int
}

// BuildSeries reads and reconstructs the series of one entry, bypassing
// the cache. ok is false when the entry has no samples in its period.
func (e *Engine) BuildSeries(ctx context.Context, entry dictionary.Entry) (ts ir.TimeSeries, ok bool, err error) {
	samples, err := e.readSamples(ctx, entry)
	if err != nil {
		return ir.TimeSeries{}, false, fmt.Errorf("build series %s: %w", entry, err)
	}
	if len(samples) == 0 {
		e.logger.Debug("no samples for series", "entry", entry.String())
		return ir.TimeSeries{}, false, nil
	}

	freq, _ := ir.ParseReportingFrequency(entry.Frequency)

	intervals := make([]int, len(samples))
	spanKnown := false
	span := 0
	for i, s := range samples {
		minutes := intervalMinutes(freq, s, e.flags.HasYear)
		if freq == ir.Annual && s.interval != 0 && s.interval != 365*minutesPerDay && s.interval != 366*minutesPerDay {
			e.logger.Debug("annual interval is not a whole year", "entry", entry.String(), "minutes", s.interval)
		}
		if freq == ir.RunPeriod && e.flags.RunPeriodIntervalFromCalendar {
			if !spanKnown {
				span, err = e.calendarSpan(ctx, entry.EnvIndex)
				if err != nil {
					return ir.TimeSeries{}, false, fmt.Errorf("build series %s: %w", entry, err)
				}
				spanKnown = true
			}
			minutes = span
		}
		intervals[i] = minutes
	}

	start, err := e.anchor(ctx, entry, freq, samples[0], intervals[0])
	if err != nil {
		return ir.TimeSeries{}, false, fmt.Errorf("build series %s: %w", entry, err)
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.value
	}

	if interval, uniform := uniformInterval(freq, intervals); uniform {
		ts, err = ir.NewIntervalSeries(start, time.Duration(interval)*time.Minute, values, entry.Units)
	} else {
		offsets := make([]time.Duration, len(intervals))
		for i := 1; i < len(intervals); i++ {
			offsets[i] = offsets[i-1] + time.Duration(intervals[i])*time.Minute
		}
		ts, err = ir.NewOffsetSeries(start, offsets, values, entry.Units)
	}
	if err != nil {
		return ir.TimeSeries{}, false, fmt.Errorf("build series %s: %w", entry, err)
	}
	return ts, true, nil
}

func (e *Engine) readSamples(ctx context.Context, entry dictionary.Entry) ([]sample, error) {
	st, err := e.store.Prepare(ctx, querysql.SeriesData(e.flags, entry.Source),
		store.Int(entry.RecordIndex), store.Int(entry.EnvIndex))
	if err != nil {
		return nil, err
	}
	defer st.Close()

	samples := []sample{}
	err = st.Each(ctx, func(rows *sql.Rows) error {
		var value sql.NullFloat64
		var interval sql.NullInt64
		dest := []any{&value}
		var year, month, day, hour, minute sql.NullInt64
		if e.flags.HasYear {
			dest = append(dest, &year)
		}
		dest = append(dest, &month, &day, &hour, &minute, &interval)
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sample{
			value: value.Float64,
			stamp: ir.Stamp{
				Year:   int(year.Int64),
				Month:  time.Month(month.Int64),
				Day:    int(day.Int64),
				Hour:   int(hour.Int64),
				Minute: int(minute.Int64),
			}.Normalize(),
			interval: int(interval.Int64),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// intervalMinutes derives the length of one sample. Hourly, daily and
// monthly lengths are computed since the Interval column may belong to
// another frequency of the same meter. A blank annual interval is one
// year.
func intervalMinutes(freq ir.ReportingFrequency, s sample, hasYear bool) int {
	switch freq {
	case ir.Hourly:
		return 60
	case ir.Daily:
		return minutesPerDay
	case ir.Monthly:
		return s.stamp.Day * minutesPerDay
	case ir.Annual:
		if s.interval == 0 {
			if hasYear && s.stamp.Year > 0 && ir.IsLeap(s.stamp.Year) {
				return 366 * minutesPerDay
			}
			return 365 * minutesPerDay
		}
	}
	return s.interval
}

// anchor returns the timestamp of the first sample. Rows without a month
// or day sit at the end of the period's calendar; daily and longer rows
// sit at the end of their day.
func (e *Engine) anchor(ctx context.Context, entry dictionary.Entry, freq ir.ReportingFrequency, first sample, interval int) (time.Time, error) {
	if first.stamp.Month == 0 || first.stamp.Day == 0 {
		last, ok, err := e.calendarBound(ctx, entry.EnvIndex, true)
		if err != nil {
			return time.Time{}, err
		}
		if !ok {
			return time.Time{}, fmt.Errorf("environment period %d has no calendar", entry.EnvIndex)
		}
		return last.Time(), nil
	}

	switch {
	case freq == ir.Daily, freq == ir.Monthly, freq == ir.RunPeriod, freq == ir.Annual, interval >= minutesPerDay:
		return first.stamp.EndOfDay(), nil
	default:
		return first.stamp.Time(), nil
	}
}

// uniformInterval reports the single interval of a timestep, hourly or
// daily series whose rows all share one.
func uniformInterval(freq ir.ReportingFrequency, intervals []int) (int, bool) {
	if !freq.IsInterval() || len(intervals) == 0 || intervals[0] <= 0 {
		return 0, false
	}
	for _, iv := range intervals[1:] {
		if iv != intervals[0] {
			return 0, false
		}
	}
	return intervals[0], true
}
