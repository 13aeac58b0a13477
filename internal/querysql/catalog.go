package querysql

import (
	"strings"

	"github.com/roach88/epsql/internal/version"
)

// Source is the table family a series is read from.
type Source int

const (
	MeterSource Source = iota + 1
	VariableSource
)

// Table returns the sample table (a view in files written since 8.0).
func (s Source) Table() string {
	if s == MeterSource {
		return "ReportMeterData"
	}
	return "ReportVariableData"
}

// DictionaryTable returns the legacy catalog table.
func (s Source) DictionaryTable() string {
	return s.Table() + "Dictionary"
}

// IndexColumn returns the catalog foreign key column of the sample table.
func (s Source) IndexColumn() string {
	return s.Table() + "DictionaryIndex"
}

func (s Source) String() string {
	return s.Table()
}

// SelectEnvironments lists every environment period.
const SelectEnvironments = "SELECT EnvironmentPeriodIndex, EnvironmentName, EnvironmentType FROM EnvironmentPeriods ORDER BY EnvironmentPeriodIndex"

// SelectEnvironmentType resolves an environment's type by name.
const SelectEnvironmentType = "SELECT EnvironmentType FROM EnvironmentPeriods WHERE EnvironmentName = ? COLLATE NOCASE"

// Catalog returns the scan over one series catalog. Columns are always
// (index, name, key value, reporting frequency, units). legacy selects the
// pre-8.0 per-source dictionary tables.
func Catalog(src Source, legacy bool) string {
	if legacy {
		return "SELECT " + src.IndexColumn() + ", VariableName, KeyValue, ReportingFrequency, VariableUnits FROM " +
			src.DictionaryTable() + " ORDER BY " + src.IndexColumn()
	}
	isMeter := "0"
	if src == MeterSource {
		isMeter = "1"
	}
	return "SELECT ReportDataDictionaryIndex, Name, KeyValue, ReportingFrequency, Units FROM ReportDataDictionary WHERE IsMeter = " +
		isMeter + " ORDER BY ReportDataDictionaryIndex"
}

// SeriesData returns the join of a sample table to the calendar for one
// catalog index and environment period. Columns are (value, [year,] month,
// day, hour, minute, interval); year is present only when flags.HasYear.
func SeriesData(f version.Flags, src Source) string {
	var b strings.Builder
	b.WriteString("SELECT dt.VariableValue, ")
	if f.HasYear {
		b.WriteString("Time.Year, ")
	}
	b.WriteString("Time.Month, Time.Day, Time.Hour, Time.Minute, Time.Interval FROM ")
	b.WriteString(src.Table())
	b.WriteString(" dt INNER JOIN Time ON Time.TimeIndex = dt.TimeIndex WHERE dt.")
	b.WriteString(src.IndexColumn())
	b.WriteString(" = ? AND Time.EnvironmentPeriodIndex = ? ORDER BY dt.TimeIndex")
	return b.String()
}

// RunPeriodValue returns the first sample of a series joined to the
// calendar for one environment period.
func RunPeriodValue(src Source) string {
	return "SELECT dt.VariableValue FROM " + src.Table() +
		" dt INNER JOIN Time ON Time.TimeIndex = dt.TimeIndex WHERE dt." + src.IndexColumn() +
		" = ? AND Time.EnvironmentPeriodIndex = ? ORDER BY dt.TimeIndex LIMIT 1"
}

// CalendarBound returns the first (last when last is true) calendar row
// of an environment period. Columns are ([year,] month, day, hour, minute).
func CalendarBound(f version.Flags, last bool) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if f.HasYear {
		b.WriteString("Year, ")
	}
	b.WriteString("Month, Day, Hour, Minute FROM Time WHERE Month IS NOT NULL AND Day IS NOT NULL AND EnvironmentPeriodIndex = ? ORDER BY TimeIndex")
	if last {
		b.WriteString(" DESC")
	}
	b.WriteString(" LIMIT 1")
	return b.String()
}

// DaylightSavings returns the first (last when last is true) calendar row
// with daylight saving in effect. Columns are (month, day, hour, minute).
func DaylightSavings(last bool) string {
	order := "Month, Day, Hour, Minute"
	if last {
		order = "Month DESC, Day DESC, Hour DESC, Minute DESC"
	}
	return "SELECT Month, Day, Hour, Minute FROM Time WHERE Dst = 1 ORDER BY " + order + " LIMIT 1"
}
