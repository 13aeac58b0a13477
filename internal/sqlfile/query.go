package sqlfile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/epsql/internal/engine"
	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/queryir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/store"
)

// AvailableEnvironments lists the environment periods, upper-cased.
func (f *File) AvailableEnvironments() []string {
	return f.Dictionary().AvailableEnvironments()
}

// AvailableFrequencies lists the frequency labels recorded in env.
func (f *File) AvailableFrequencies(env string) []string {
	return f.Dictionary().AvailableFrequencies(env)
}

// AvailableNames lists the series names recorded in env at freq.
func (f *File) AvailableNames(env, freq string) []string {
	return f.Dictionary().AvailableNames(env, freq)
}

// AvailableKeyValues lists the key values of name in env at freq.
func (f *File) AvailableKeyValues(env, freq, name string) []string {
	return f.Dictionary().AvailableKeyValues(env, freq, name)
}

// AvailableTimeSeries lists every distinct series name.
func (f *File) AvailableTimeSeries() []string {
	return f.Dictionary().AvailableTimeSeries()
}

// TimeSeries returns one series by literal identifiers. Environment, name
// and key value match case-insensitively; "Annual" and "Environment"
// requests fall back to run period output.
func (f *File) TimeSeries(ctx context.Context, env, freq, name, key string) (ir.TimeSeries, bool, error) {
	e, _ := f.current()
	return e.SeriesFor(ctx, env, freq, name, key)
}

// TimeSeriesAll returns the series of every key value of name.
func (f *File) TimeSeriesAll(ctx context.Context, env, freq, name string) ([]ir.TimeSeries, error) {
	e, _ := f.current()
	return e.SeriesAll(ctx, env, freq, name)
}

// Expand resolves a partially specified query against the catalog.
func (f *File) Expand(q queryir.Query) []engine.ResolvedQuery {
	e, _ := f.current()
	return e.Expand(q)
}

// TimeSeriesForQuery expands q and reads its series. The query must
// resolve to exactly one (environment, frequency, name); anything else is
// logged and yields no series.
func (f *File) TimeSeriesForQuery(ctx context.Context, q queryir.Query) ([]ir.TimeSeries, error) {
	e, _ := f.current()
	return e.SeriesForQuery(ctx, q)
}

// TimeSeriesForResolved reads the series of a query returned by Expand.
func (f *File) TimeSeriesForResolved(ctx context.Context, rq engine.ResolvedQuery) ([]ir.TimeSeries, error) {
	e, _ := f.current()
	return e.SeriesForResolved(ctx, rq)
}

// RunPeriodValue returns the single run period sample of a series.
func (f *File) RunPeriodValue(ctx context.Context, env, name, key string) (float64, bool, error) {
	e, _ := f.current()
	return e.RunPeriodValue(ctx, env, name, key)
}

// EnvironmentType returns the type of an environment period by name,
// ignoring case.
func (f *File) EnvironmentType(ctx context.Context, env string) (ir.EnvironmentType, bool, error) {
	_, s := f.current()
	st, err := s.Prepare(ctx, querysql.SelectEnvironmentType, store.Text(env))
	if err != nil {
		return 0, false, err
	}
	defer st.Close()

	n, ok, err := st.FirstInt(ctx)
	if err != nil || !ok {
		return 0, false, err
	}
	t := ir.EnvironmentType(n)
	if !t.Valid() {
		f.logger.Error("unknown environment type", "environment", env, "type", n)
		return 0, false, nil
	}
	return t, true, nil
}

// SummaryRow is the total of one Sum-type meter at one frequency.
type SummaryRow struct {
	Value           float64               `json:"value"`
	Fuel            string                `json:"fuel"`
	InstallLocation string                `json:"install_location"`
	Frequency       ir.ReportingFrequency `json:"frequency"`
	Units           string                `json:"units"`
}

// SummaryData sums every Sum-type meter named "Fuel:Location". Meters
// with other names or unknown frequencies are logged and skipped.
func (f *File) SummaryData(ctx context.Context) ([]SummaryRow, error) {
	_, s := f.current()
	st, err := s.Prepare(ctx, querysql.SummaryData)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	out := []SummaryRow{}
	err = st.Each(ctx, func(rows *sql.Rows) error {
		var value sql.NullFloat64
		var name, freq, units sql.NullString
		if err := rows.Scan(&value, &name, &freq, &units); err != nil {
			return fmt.Errorf("scan summary row: %w", err)
		}
		fuel, location, ok := strings.Cut(name.String, ":")
		if !ok {
			f.logger.Error("unable to parse meter name, no ':' found", "name", name.String)
			return nil
		}
		rf, ok := ir.ParseReportingFrequency(freq.String)
		if !ok {
			f.logger.Error("unknown reporting frequency in summary data", "name", name.String, "frequency", freq.String)
			return nil
		}
		out = append(out, SummaryRow{
			Value:           value.Float64,
			Fuel:            fuel,
			InstallLocation: location,
			Frequency:       rf,
			Units:           units.String,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DaylightSavingsPeriod returns the first and last calendar rows with
// daylight saving in effect. Years are not recorded here, so both fall in
// ir.BaseYear.
func (f *File) DaylightSavingsPeriod(ctx context.Context) (start, end time.Time, ok bool, err error) {
	first, ok, err := f.dstBound(ctx, false)
	if err != nil || !ok {
		return time.Time{}, time.Time{}, false, err
	}
	last, ok, err := f.dstBound(ctx, true)
	if err != nil || !ok {
		return time.Time{}, time.Time{}, false, err
	}
	return first.Time(), last.Time(), true, nil
}

func (f *File) dstBound(ctx context.Context, last bool) (ir.Stamp, bool, error) {
	_, s := f.current()
	st, err := s.Prepare(ctx, querysql.DaylightSavings(last))
	if err != nil {
		return ir.Stamp{}, false, err
	}
	defer st.Close()

	var (
		stamp ir.Stamp
		found bool
	)
	err = st.Each(ctx, func(rows *sql.Rows) error {
		var month, day, hour, minute sql.NullInt64
		if err := rows.Scan(&month, &day, &hour, &minute); err != nil {
			return fmt.Errorf("scan daylight saving bound: %w", err)
		}
		stamp = ir.Stamp{
			Month:  time.Month(month.Int64),
			Day:    int(day.Int64),
			Hour:   int(hour.Int64),
			Minute: int(minute.Int64),
		}
		found = true
		return nil
	})
	if err != nil {
		return ir.Stamp{}, false, err
	}
	return stamp, found, nil
}
