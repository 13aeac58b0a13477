package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/epsql/internal/version"
)

// indexColumns maps every table the write path allocates indices in to its
// integer primary key.
var indexColumns = map[string]string{
	"Simulations":              "SimulationIndex",
	"EnvironmentPeriods":       "EnvironmentPeriodIndex",
	"Time":                     "TimeIndex",
	"Zones":                    "ZoneIndex",
	"ReportDataDictionary":     "ReportDataDictionaryIndex",
	"ReportData":               "ReportDataIndex",
	"DaylightMaps":             "MapNumber",
	"DaylightMapHourlyReports": "HourlyReportIndex",
	"DaylightMapHourlyData":    "HourlyDataIndex",
}

// MaxIndex returns "SELECT MAX(<key>) FROM <table>" for a table the write
// path allocates indices in.
func MaxIndex(table string) (string, error) {
	col, ok := indexColumns[table]
	if !ok {
		return "", fmt.Errorf("no index column known for table %q", table)
	}
	return "SELECT MAX(" + col + ") FROM " + table, nil
}

const InsertSimulation = "INSERT INTO Simulations (SimulationIndex, EnergyPlusVersion, TimeStamp, NumTimestepsPerHour, Completed, CompletedSuccessfully) VALUES (?, ?, ?, ?, ?, ?)"

const InsertEnvironmentPeriod = "INSERT INTO EnvironmentPeriods (EnvironmentPeriodIndex, SimulationIndex, EnvironmentName, EnvironmentType) VALUES (?, ?, ?, ?)"

// InsertTime writes one hourly calendar row. Parameters are (index,
// [year,] month, day, hour, simulation day, day type, environment index).
func InsertTime(f version.Flags) string {
	if f.HasYear {
		return "INSERT INTO Time (TimeIndex, Year, Month, Day, Hour, Minute, Dst, Interval, IntervalType, SimulationDays, DayType, EnvironmentPeriodIndex, WarmupFlag) VALUES (?, ?, ?, ?, ?, 0, 0, 60, 1, ?, ?, ?, NULL)"
	}
	return "INSERT INTO Time (TimeIndex, Month, Day, Hour, Minute, Dst, Interval, IntervalType, SimulationDays, DayType, EnvironmentPeriodIndex, WarmupFlag) VALUES (?, ?, ?, ?, 0, 0, 60, 1, ?, ?, ?, NULL)"
}

// SelectReportDataDictionaryIndex finds the catalog row a series shares
// across environment periods. Parameters are (is meter, key value, name,
// reporting frequency).
const SelectReportDataDictionaryIndex = "SELECT ReportDataDictionaryIndex FROM ReportDataDictionary WHERE IsMeter = ? AND KeyValue = ? AND Name = ? AND ReportingFrequency = ? ORDER BY ReportDataDictionaryIndex LIMIT 1"

const InsertReportDataDictionary = "INSERT INTO ReportDataDictionary (ReportDataDictionaryIndex, IsMeter, Type, IndexGroup, TimestepType, KeyValue, Name, ReportingFrequency, ScheduleName, Units) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

// TimeIndexAt resolves a calendar row. Parameters are ([year,] month, day,
// hour, minute).
func TimeIndexAt(f version.Flags) string {
	if f.HasYear {
		return "SELECT TimeIndex FROM Time WHERE Year = ? AND Month = ? AND Day = ? AND Hour = ? AND Minute = ? ORDER BY TimeIndex LIMIT 1"
	}
	return "SELECT TimeIndex FROM Time WHERE Month = ? AND Day = ? AND Hour = ? AND Minute = ? ORDER BY TimeIndex LIMIT 1"
}

const InsertReportData = "INSERT INTO ReportData (ReportDataIndex, TimeIndex, ReportDataDictionaryIndex, Value) VALUES (?, ?, ?, ?)"

// zoneColumns lists the Zones columns in insert order.
var zoneColumns = []string{
	"ZoneIndex", "ZoneName", "RelNorth", "OriginX", "OriginY", "OriginZ",
	"CentroidX", "CentroidY", "CentroidZ", "OfType", "Multiplier", "ListMultiplier",
	"MinimumX", "MaximumX", "MinimumY", "MaximumY", "MinimumZ", "MaximumZ",
	"CeilingHeight", "Volume", "InsideConvectionAlgo", "OutsideConvectionAlgo",
	"FloorArea", "ExtGrossWallArea", "ExtNetWallArea", "ExtWindowArea", "IsPartOfTotalArea",
}

// InsertZone writes one Zones row with every column bound.
func InsertZone() string {
	return "INSERT INTO Zones (" + strings.Join(zoneColumns, ", ") + ") VALUES (" + placeholders(len(zoneColumns)) + ")"
}

// ZoneColumnCount is the number of parameters InsertZone takes.
func ZoneColumnCount() int {
	return len(zoneColumns)
}

const SelectZoneIndex = "SELECT ZoneIndex FROM Zones WHERE ZoneName = ?"

// InsertDaylightMap writes one DaylightMaps row. Files in the 2 reference
// point band store ReferencePt1 and ReferencePt2 columns; every other
// layout stores a single ReferencePts list.
func InsertDaylightMap(f version.Flags) string {
	if f.IlluminanceMapHasOnly2RefPts {
		return "INSERT INTO DaylightMaps (MapNumber, MapName, Environment, Zone, ReferencePt1, ReferencePt2, Z) VALUES (?, ?, ?, ?, ?, ?, ?)"
	}
	return "INSERT INTO DaylightMaps (MapNumber, MapName, Environment, Zone, ReferencePts, Z) VALUES (?, ?, ?, ?, ?, ?)"
}

// InsertHourlyReport writes one DaylightMapHourlyReports row. Parameters
// are (index, map, [year,] month, day, hour).
func InsertHourlyReport(f version.Flags) string {
	if f.HasIlluminanceMapYear {
		return "INSERT INTO DaylightMapHourlyReports (HourlyReportIndex, MapNumber, Year, Month, DayOfMonth, Hour) VALUES (?, ?, ?, ?, ?, ?)"
	}
	return "INSERT INTO DaylightMapHourlyReports (HourlyReportIndex, MapNumber, Month, DayOfMonth, Hour) VALUES (?, ?, ?, ?, ?)"
}

const InsertHourlyData = "INSERT INTO DaylightMapHourlyData (HourlyReportIndex, X, Y, Illuminance) VALUES (?, ?, ?, ?)"

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
