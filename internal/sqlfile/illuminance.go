package sqlfile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/store"
)

// MapReport is one hourly report of an illuminance map.
type MapReport struct {
	Index int       `json:"index"`
	Time  time.Time `json:"time"`
}

func (f *File) prepare(ctx context.Context, query string, params ...store.Param) (*store.Statement, error) {
	_, s := f.current()
	return s.Prepare(ctx, query, params...)
}

// IlluminanceMapNames lists every illuminance map.
func (f *File) IlluminanceMapNames(ctx context.Context) ([]string, error) {
	st, err := f.prepare(ctx, querysql.SelectMapNames)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Strings(ctx)
}

// IlluminanceMapNamesForEnvironment lists the maps reported in env.
func (f *File) IlluminanceMapNamesForEnvironment(ctx context.Context, env string) ([]string, error) {
	st, err := f.prepare(ctx, querysql.SelectMapNamesForEnvironment, store.Text(env))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Strings(ctx)
}

// IlluminanceMapIndex returns the number of the first map whose name
// contains name.
func (f *File) IlluminanceMapIndex(ctx context.Context, name string) (int, bool, error) {
	st, err := f.prepare(ctx, querysql.SelectMapIndex, store.Text(name))
	if err != nil {
		return 0, false, err
	}
	defer st.Close()
	return st.FirstInt(ctx)
}

// IlluminanceMapRefPoint returns reference point ptNum (1-based) of a map,
// e.g. "RefPt1=(1.00:2.00:0.80)". An out of range ptNum is logged and
// reported absent.
func (f *File) IlluminanceMapRefPoint(ctx context.Context, mapIndex, ptNum int) (string, bool, error) {
	if ptNum <= 0 {
		f.logger.Error("reference point number must be positive", "map", mapIndex, "point", ptNum)
		return "", false, nil
	}

	if f.Flags().IlluminanceMapHasOnly2RefPts {
		q, err := querysql.SelectMapReferencePt(ptNum)
		if err != nil {
			f.logger.Error("reference point out of range", "map", mapIndex, "point", ptNum, "error", err)
			return "", false, nil
		}
		st, err := f.prepare(ctx, q, store.Int(mapIndex))
		if err != nil {
			return "", false, err
		}
		defer st.Close()
		return st.FirstString(ctx)
	}

	st, err := f.prepare(ctx, querysql.SelectMapReferencePts, store.Int(mapIndex))
	if err != nil {
		return "", false, err
	}
	defer st.Close()
	all, ok, err := st.FirstString(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	points := strings.Split(all, ",")
	if ptNum > len(points) {
		f.logger.Error("reference point number exceeds the points of the map",
			"map", mapIndex, "point", ptNum, "points", len(points))
		return "", false, nil
	}
	return strings.TrimSpace(points[ptNum-1]), true, nil
}

// IlluminanceMapMinMax returns the smallest and largest illuminance over
// every report of a map.
func (f *File) IlluminanceMapMinMax(ctx context.Context, mapIndex int) (lo, hi float64, ok bool, err error) {
	bound := func(q string) (float64, bool, error) {
		st, err := f.prepare(ctx, q, store.Int(mapIndex))
		if err != nil {
			return 0, false, err
		}
		defer st.Close()
		return st.FirstFloat(ctx)
	}
	lo, ok, err = bound(querysql.SelectMapMinimum)
	if err != nil || !ok {
		return 0, 0, false, err
	}
	hi, ok, err = bound(querysql.SelectMapMaximum)
	if err != nil || !ok {
		return 0, 0, false, err
	}
	return lo, hi, true, nil
}

// IlluminanceMapZoneNames lists the zones a map belongs to.
func (f *File) IlluminanceMapZoneNames(ctx context.Context, mapIndex int) ([]string, error) {
	st, err := f.prepare(ctx, querysql.SelectMapZoneNames, store.Int(mapIndex))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Strings(ctx)
}

// IlluminanceMapReportIndices lists the hourly report indices of a map.
func (f *File) IlluminanceMapReportIndices(ctx context.Context, mapIndex int) ([]int, error) {
	st, err := f.prepare(ctx, querysql.SelectMapReportIndices, store.Int(mapIndex))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Ints(ctx)
}

// scanReportStamp reads ([year,] month, day, hour) from the current row.
func scanReportStamp(rows *sql.Rows, hasYear bool, prefix ...any) (ir.Stamp, error) {
	var year, month, day, hour sql.NullInt64
	dest := prefix
	if hasYear {
		dest = append(dest, &year)
	}
	dest = append(dest, &month, &day, &hour)
	if err := rows.Scan(dest...); err != nil {
		return ir.Stamp{}, err
	}
	return ir.Stamp{
		Year:  int(year.Int64),
		Month: time.Month(month.Int64),
		Day:   int(day.Int64),
		Hour:  int(hour.Int64),
	}, nil
}

// IlluminanceMapReportDates lists the hourly reports of a map with their
// timestamps.
func (f *File) IlluminanceMapReportDates(ctx context.Context, mapIndex int) ([]MapReport, error) {
	flags := f.Flags()
	st, err := f.prepare(ctx, querysql.SelectMapReportDates(flags), store.Int(mapIndex))
	if err != nil {
		return nil, err
	}
	defer st.Close()

	out := []MapReport{}
	err = st.Each(ctx, func(rows *sql.Rows) error {
		var index int
		stamp, err := scanReportStamp(rows, flags.HasIlluminanceMapYear, &index)
		if err != nil {
			return fmt.Errorf("scan map report: %w", err)
		}
		out = append(out, MapReport{Index: index, Time: stamp.Time()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IlluminanceMapDate returns the timestamp of one hourly report. An
// unknown index is logged and reported absent.
func (f *File) IlluminanceMapDate(ctx context.Context, reportIndex int) (time.Time, bool, error) {
	flags := f.Flags()
	st, err := f.prepare(ctx, querysql.SelectReportDate(flags), store.Int(reportIndex))
	if err != nil {
		return time.Time{}, false, err
	}
	defer st.Close()

	var (
		at    time.Time
		found bool
	)
	err = st.Each(ctx, func(rows *sql.Rows) error {
		stamp, err := scanReportStamp(rows, flags.HasIlluminanceMapYear)
		if err != nil {
			return fmt.Errorf("scan map report date: %w", err)
		}
		at, found = stamp.Time(), true
		return nil
	})
	if err != nil {
		return time.Time{}, false, err
	}
	if !found {
		f.logger.Error("unknown hourly report index", "report", reportIndex)
	}
	return at, found, nil
}

// IlluminanceMapReportIndex finds the report of a map at t. Midnight is
// matched as hour 24 of the previous day.
func (f *File) IlluminanceMapReportIndex(ctx context.Context, mapIndex int, t time.Time) (int, bool, error) {
	stamp := ir.HourStampOf(t)
	st, err := f.prepare(ctx, querysql.SelectReportIndexAt,
		store.Int(mapIndex), store.Int(int(stamp.Month)), store.Int(stamp.Day), store.Int(stamp.Hour))
	if err != nil {
		return 0, false, err
	}
	defer st.Close()

	idx, ok, err := st.FirstInt(ctx)
	if err == nil && !ok {
		f.logger.Error("no illuminance map report at time", "map", mapIndex, "time", t.Format(time.DateTime))
	}
	return idx, ok, err
}

// IlluminanceMapX returns the distinct x coordinates of a report, sorted.
func (f *File) IlluminanceMapX(ctx context.Context, reportIndex int) ([]float64, error) {
	st, err := f.prepare(ctx, querysql.SelectMapX, store.Int(reportIndex))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Floats(ctx)
}

// IlluminanceMapY returns the distinct y coordinates of a report, sorted.
func (f *File) IlluminanceMapY(ctx context.Context, reportIndex int) ([]float64, error) {
	st, err := f.prepare(ctx, querysql.SelectMapY, store.Int(reportIndex))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Floats(ctx)
}

// IlluminanceMap returns the grid of one report: value(i, j) is the
// illuminance at x(i), y(j). Surplus samples are logged and dropped.
func (f *File) IlluminanceMap(ctx context.Context, reportIndex int) (ir.IlluminanceGrid, error) {
	x, err := f.IlluminanceMapX(ctx, reportIndex)
	if err != nil {
		return ir.IlluminanceGrid{}, err
	}
	y, err := f.IlluminanceMapY(ctx, reportIndex)
	if err != nil {
		return ir.IlluminanceGrid{}, err
	}
	grid := ir.NewIlluminanceGrid(x, y)
	if grid.Empty() {
		return grid, nil
	}

	st, err := f.prepare(ctx, querysql.SelectMapValues, store.Int(reportIndex))
	if err != nil {
		return ir.IlluminanceGrid{}, err
	}
	defer st.Close()
	values, err := st.Floats(ctx)
	if err != nil {
		return ir.IlluminanceGrid{}, err
	}

	m, n := grid.Size()
	if len(values) > m*n {
		f.logger.Error("too much illuminance map data",
			"report", reportIndex, "rows", m, "columns", n, "samples", len(values))
		values = values[:m*n]
	}
	for k, v := range values {
		grid.Values[k/n][k%n] = v
	}
	return grid, nil
}

// IlluminanceMapAt returns the grid of the named map at t.
func (f *File) IlluminanceMapAt(ctx context.Context, name string, t time.Time) (ir.IlluminanceGrid, bool, error) {
	mapIndex, ok, err := f.IlluminanceMapIndex(ctx, name)
	if err != nil {
		return ir.IlluminanceGrid{}, false, err
	}
	if !ok {
		f.logger.Error("unknown illuminance map", "name", name)
		return ir.IlluminanceGrid{}, false, nil
	}
	reportIndex, ok, err := f.IlluminanceMapReportIndex(ctx, mapIndex, t)
	if err != nil || !ok {
		return ir.IlluminanceGrid{}, false, err
	}
	grid, err := f.IlluminanceMap(ctx, reportIndex)
	if err != nil {
		return ir.IlluminanceGrid{}, false, err
	}
	return grid, true, nil
}
