package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/version"
)

// DefaultEnvironmentName names the environment AddSimulation writes when
// the spec leaves it empty.
const DefaultEnvironmentName = "RUN PERIOD 1"

// finish closes a transaction root, rolling back when *errp is set.
func finish(root *Statement, errp *error) {
	if *errp != nil {
		root.Rollback()
	}
	if err := root.Close(); err != nil && *errp == nil {
		*errp = err
	}
}

// nextIndex returns MAX(key)+1 for a table, or 1 when it is empty.
func nextIndex(ctx context.Context, parent *Statement, table string) (int, error) {
	q, err := querysql.MaxIndex(table)
	if err != nil {
		return 0, statementError("next index", table, err)
	}
	st, err := parent.Prepare(ctx, q)
	if err != nil {
		return 0, err
	}
	defer st.Close()
	return firstIndex(ctx, st)
}

func firstIndex(ctx context.Context, st *Statement) (int, error) {
	v, ok, err := st.FirstInt(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	return v + 1, nil
}

// AddSimulation writes a Simulations row, one EnvironmentPeriods row and an
// hourly calendar covering spec's dates, in one transaction. It returns the
// new environment period index.
func (s *Store) AddSimulation(ctx context.Context, f version.Flags, spec ir.SimulationSpec) (envIndex int, err error) {
	start := dateOnly(spec.StartDate)
	end := dateOnly(spec.EndDate)
	if start.IsZero() || end.Before(start) {
		return 0, fmt.Errorf("add simulation: invalid calendar %s to %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	envName := spec.EnvironmentName
	if envName == "" {
		envName = DefaultEnvironmentName
	}
	envType := spec.EnvironmentType
	if envType == 0 {
		envType = ir.WeatherRunPeriod
	}
	stamp := spec.Timestamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	q, _ := querysql.MaxIndex("Simulations")
	root, err := s.PrepareTx(ctx, q)
	if err != nil {
		return 0, err
	}
	defer finish(root, &err)

	simIndex, err := firstIndex(ctx, root)
	if err != nil {
		return 0, err
	}

	timestamp := fmt.Sprintf("%d.%d.%d %s", stamp.Year(), int(stamp.Month()), stamp.Day(), stamp.Format(time.TimeOnly))
	versionText := fmt.Sprintf("EnergyPlus, VERSION %d.%d, (%s) YMD=%s",
		version.Current.Major, version.Current.Minor, ir.ProducerName, timestamp)

	if err := s.execChild(ctx, root, querysql.InsertSimulation,
		Int(simIndex), Text(versionText), Text(timestamp), Int(6), Int(6), Int(1)); err != nil {
		return 0, err
	}

	envIndex, err = nextIndex(ctx, root, "EnvironmentPeriods")
	if err != nil {
		return 0, err
	}
	if err := s.execChild(ctx, root, querysql.InsertEnvironmentPeriod,
		Int(envIndex), Int(simIndex), Text(envName), Int(int(envType))); err != nil {
		return 0, err
	}

	timeIndex, err := nextIndex(ctx, root, "Time")
	if err != nil {
		return 0, err
	}

	insertTime, err := root.Prepare(ctx, querysql.InsertTime(f), timeParams(f, timeIndex, start, 1, 1, "", envIndex)...)
	if err != nil {
		return 0, err
	}
	defer insertTime.Close()

	simulationDay := 1
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dayType := d.Weekday().String()
		if spec.IsHoliday(d) {
			dayType = "Holiday"
		}
		for hour := 1; hour <= 24; hour++ {
			if err := insertTime.Rebind(timeParams(f, timeIndex, d, hour, simulationDay, dayType, envIndex)...); err != nil {
				return 0, err
			}
			if _, err := insertTime.Exec(ctx); err != nil {
				return 0, err
			}
			timeIndex++
		}
		simulationDay++
	}

	s.logger.Debug("added simulation",
		"environment", envName,
		"environment_index", envIndex,
		"days", simulationDay-1)
	return envIndex, nil
}

func timeParams(f version.Flags, index int, d time.Time, hour, simulationDay int, dayType string, envIndex int) []Param {
	params := []Param{Int(index)}
	if f.HasYear {
		params = append(params, Int(d.Year()))
	}
	return append(params,
		Int(int(d.Month())), Int(d.Day()), Int(hour), Int(simulationDay), Text(dayType), Int(envIndex))
}

// InsertTimeSeries writes one sample row per value in one transaction and
// returns the catalog index. A series already cataloged under the same
// meter flag, key value, name and frequency reuses that catalog row, so one
// row serves every environment period. Every sample must land on a
// calendar row; a sample without one is a statement failure and nothing is
// written.
func (s *Store) InsertTimeSeries(ctx context.Context, f version.Flags, rec ir.SeriesRecord) (dictIndex int, err error) {
	if !rec.Frequency.Valid() {
		return 0, fmt.Errorf("insert time series %q: invalid reporting frequency", rec.Name)
	}

	q, _ := querysql.MaxIndex("ReportDataDictionary")
	root, err := s.PrepareTx(ctx, q)
	if err != nil {
		return 0, err
	}
	defer finish(root, &err)

	dictIndex, err = firstIndex(ctx, root)
	if err != nil {
		return 0, err
	}

	existing, found, err := s.catalogIndex(ctx, root, rec)
	if err != nil {
		return 0, err
	}
	if found {
		dictIndex = existing
	} else {
		schedule := Null()
		if rec.ScheduleName != "" {
			schedule = Text(rec.ScheduleName)
		}
		if err := s.execChild(ctx, root, querysql.InsertReportDataDictionary,
			Int(dictIndex), Bool(rec.IsMeter), Text(rec.Type), Text(rec.IndexGroup), Text(rec.TimestepType),
			Text(rec.KeyValue), Text(rec.Name), Text(rec.Frequency.Label()), schedule, Text(rec.Units)); err != nil {
			return 0, err
		}
	}

	dataIndex, err := nextIndex(ctx, root, "ReportData")
	if err != nil {
		return 0, err
	}

	lookupSQL := querysql.TimeIndexAt(f)
	lookup, err := root.Prepare(ctx, lookupSQL, stampParams(f, ir.StampOf(rec.Series.Start))...)
	if err != nil {
		return 0, err
	}
	defer lookup.Close()

	insert, err := root.Prepare(ctx, querysql.InsertReportData, Int(0), Int(0), Int(0), Float(0))
	if err != nil {
		return 0, err
	}
	defer insert.Close()

	for i, ts := range rec.Series.Timestamps() {
		stamp := ir.StampOf(ts)
		if err := lookup.Rebind(stampParams(f, stamp)...); err != nil {
			return 0, err
		}
		timeIndex, ok, err := lookup.FirstInt(ctx)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, statementError("insert time series", lookupSQL,
				fmt.Errorf("no calendar row for sample %d of %q at %s", i, rec.Name, ts.Format(time.DateTime)))
		}

		if err := insert.Rebind(Int(dataIndex), Int(timeIndex), Int(dictIndex), Float(rec.Series.Values[i])); err != nil {
			return 0, err
		}
		if _, err := insert.Exec(ctx); err != nil {
			return 0, err
		}
		dataIndex++
	}

	s.logger.Debug("inserted time series",
		"name", rec.Name,
		"key", rec.KeyValue,
		"frequency", rec.Frequency.Label(),
		"samples", rec.Series.Len(),
		"catalog_index", dictIndex,
		"shared_catalog_row", found)
	return dictIndex, nil
}

// catalogIndex looks up the catalog row rec would share.
func (s *Store) catalogIndex(ctx context.Context, root *Statement, rec ir.SeriesRecord) (int, bool, error) {
	st, err := root.Prepare(ctx, querysql.SelectReportDataDictionaryIndex,
		Bool(rec.IsMeter), Text(rec.KeyValue), Text(rec.Name), Text(rec.Frequency.Label()))
	if err != nil {
		return 0, false, err
	}
	defer st.Close()
	return st.FirstInt(ctx)
}

func stampParams(f version.Flags, s ir.Stamp) []Param {
	var params []Param
	if f.HasYear {
		params = append(params, Int(s.Year))
	}
	return append(params, Int(int(s.Month)), Int(s.Day), Int(s.Hour), Int(s.Minute))
}

// InsertZone writes one Zones row and returns its index.
func (s *Store) InsertZone(ctx context.Context, z ir.Zone) (zoneIndex int, err error) {
	q, _ := querysql.MaxIndex("Zones")
	root, err := s.PrepareTx(ctx, q)
	if err != nil {
		return 0, err
	}
	defer finish(root, &err)

	zoneIndex, err = firstIndex(ctx, root)
	if err != nil {
		return 0, err
	}

	err = s.execChild(ctx, root, querysql.InsertZone(),
		Int(zoneIndex), Text(z.Name), Float(z.RelNorth),
		Float(z.OriginX), Float(z.OriginY), Float(z.OriginZ),
		Float(z.CentroidX), Float(z.CentroidY), Float(z.CentroidZ),
		Int(z.OfType), Float(z.Multiplier), Float(z.ListMultiplier),
		Float(z.MinimumX), Float(z.MaximumX), Float(z.MinimumY), Float(z.MaximumY), Float(z.MinimumZ), Float(z.MaximumZ),
		Float(z.CeilingHeight), Float(z.Volume), Int(z.InsideConvectionAlgo), Int(z.OutsideConvectionAlgo),
		Float(z.FloorArea), Float(z.ExtGrossWallArea), Float(z.ExtNetWallArea), Float(z.ExtWindowArea),
		Bool(z.IsPartOfTotalArea))
	if err != nil {
		return 0, err
	}
	return zoneIndex, nil
}

// InsertIlluminanceMap writes a DaylightMaps row, one hourly report per
// timestamp and every grid sample, in one transaction. It returns the new
// map number.
func (s *Store) InsertIlluminanceMap(ctx context.Context, f version.Flags, rec ir.IlluminanceMapRecord) (mapIndex int, err error) {
	if len(rec.Times) != len(rec.Maps) {
		return 0, statementError("insert illuminance map", "",
			fmt.Errorf("number of times (%d) does not match number of maps (%d)", len(rec.Times), len(rec.Maps)))
	}
	if len(rec.X) == 0 || len(rec.Y) == 0 {
		return 0, statementError("insert illuminance map", "", fmt.Errorf("map %q has no grid points", rec.Name))
	}
	for k, m := range rec.Maps {
		if len(m) != len(rec.X) {
			return 0, statementError("insert illuminance map", "",
				fmt.Errorf("map %d has %d rows, want %d x values", k, len(m), len(rec.X)))
		}
		for _, row := range m {
			if len(row) != len(rec.Y) {
				return 0, statementError("insert illuminance map", "",
					fmt.Errorf("map %d has a row of %d values, want %d y values", k, len(row), len(rec.Y)))
			}
		}
	}

	root, err := s.PrepareTx(ctx, querysql.SelectZoneIndex, Text(rec.ZoneName))
	if err != nil {
		return 0, err
	}
	defer finish(root, &err)

	zoneIndex, ok, err := root.FirstInt(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, statementError("insert illuminance map", querysql.SelectZoneIndex,
			fmt.Errorf("unknown zone name %q", rec.ZoneName))
	}

	mapIndex, err = nextIndex(ctx, root, "DaylightMaps")
	if err != nil {
		return 0, err
	}

	refPt1 := referencePoint(1, rec.X[0], rec.Y[0], rec.Z)
	refPt2 := referencePoint(2, rec.X[len(rec.X)-1], rec.Y[len(rec.Y)-1], rec.Z)
	mapParams := []Param{Int(mapIndex), Text(rec.Name), Text(rec.Environment), Int(zoneIndex)}
	if f.IlluminanceMapHasOnly2RefPts {
		mapParams = append(mapParams, Text(refPt1), Text(refPt2))
	} else {
		mapParams = append(mapParams, Text(refPt1+", "+refPt2))
	}
	mapParams = append(mapParams, Float(rec.Z))
	if err := s.execChild(ctx, root, querysql.InsertDaylightMap(f), mapParams...); err != nil {
		return 0, err
	}

	reportIndex, err := nextIndex(ctx, root, "DaylightMapHourlyReports")
	if err != nil {
		return 0, err
	}

	reportParams := func(idx int, st ir.Stamp) []Param {
		params := []Param{Int(idx), Int(mapIndex)}
		if f.HasIlluminanceMapYear {
			params = append(params, Int(st.Year))
		}
		return append(params, Int(int(st.Month)), Int(st.Day), Int(st.Hour))
	}

	var first ir.Stamp
	if len(rec.Times) > 0 {
		first = ir.HourStampOf(rec.Times[0])
	}
	report, err := root.Prepare(ctx, querysql.InsertHourlyReport(f), reportParams(reportIndex, first)...)
	if err != nil {
		return 0, err
	}
	defer report.Close()

	data, err := root.Prepare(ctx, querysql.InsertHourlyData, Int(0), Float(0), Float(0), Float(0))
	if err != nil {
		return 0, err
	}
	defer data.Close()

	for k, at := range rec.Times {
		if err := report.Rebind(reportParams(reportIndex, ir.HourStampOf(at))...); err != nil {
			return 0, err
		}
		if _, err := report.Exec(ctx); err != nil {
			return 0, err
		}

		for i, x := range rec.X {
			for j, y := range rec.Y {
				if err := data.Rebind(Int(reportIndex), Float(x), Float(y), Float(rec.Maps[k][i][j])); err != nil {
					return 0, err
				}
				if _, err := data.Exec(ctx); err != nil {
					return 0, err
				}
			}
		}
		reportIndex++
	}

	s.logger.Debug("inserted illuminance map",
		"name", rec.Name,
		"zone", rec.ZoneName,
		"reports", len(rec.Times))
	return mapIndex, nil
}

func referencePoint(n int, x, y, z float64) string {
	return fmt.Sprintf("RefPt%d=(%s:%s:%s)", n, formatFloat(x), formatFloat(y), formatFloat(z))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// execChild runs one statement inside root's transaction.
func (s *Store) execChild(ctx context.Context, root *Statement, query string, params ...Param) error {
	st, err := root.Prepare(ctx, query, params...)
	if err != nil {
		return err
	}
	defer st.Close()
	_, err = st.Exec(ctx)
	return err
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
