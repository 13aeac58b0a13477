package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/store"
)

const minutesPerDay = 24 * 60

// scanStamp reads ([year,] month, day, hour, minute) from the current row.
// A zero or NULL year, or a file without the column, leaves Year zero.
// Hour 0 comes back as hour 24 of the previous day.
func scanStamp(rows *sql.Rows, hasYear bool) (ir.Stamp, error) {
	var year, month, day, hour, minute sql.NullInt64
	var dest []any
	if hasYear {
		dest = append(dest, &year)
	}
	dest = append(dest, &month, &day, &hour, &minute)
	if err := rows.Scan(dest...); err != nil {
		return ir.Stamp{}, err
	}
	return ir.Stamp{
		Year:   int(year.Int64),
		Month:  time.Month(month.Int64),
		Day:    int(day.Int64),
		Hour:   int(hour.Int64),
		Minute: int(minute.Int64),
	}.Normalize(), nil
}

// calendarBound returns the first or last calendar row of an environment
// period.
func (e *Engine) calendarBound(ctx context.Context, envIndex int, last bool) (ir.Stamp, bool, error) {
	st, err := e.store.Prepare(ctx, querysql.CalendarBound(e.flags, last), store.Int(envIndex))
	if err != nil {
		return ir.Stamp{}, false, err
	}
	defer st.Close()

	var (
		stamp ir.Stamp
		found bool
	)
	err = st.Each(ctx, func(rows *sql.Rows) error {
		s, err := scanStamp(rows, e.flags.HasYear)
		if err != nil {
			return fmt.Errorf("scan calendar bound: %w", err)
		}
		stamp, found = s, true
		return nil
	})
	if err != nil {
		return ir.Stamp{}, false, err
	}
	return stamp, found, nil
}

// calendarSpan returns the minutes from hour 1 of the first calendar day
// to hour 24 of the last, plus one hour.
func (e *Engine) calendarSpan(ctx context.Context, envIndex int) (int, error) {
	first, ok, err := e.calendarBound(ctx, envIndex, false)
	if err != nil || !ok {
		return 0, err
	}
	last, ok, err := e.calendarBound(ctx, envIndex, true)
	if err != nil || !ok {
		return 0, err
	}
	from := ir.Stamp{Year: first.Year, Month: first.Month, Day: first.Day, Hour: 1}.Time()
	to := last.EndOfDay()
	return int(to.Sub(from)/time.Minute) + 60, nil
}
