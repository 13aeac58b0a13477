package querysql

import (
	"fmt"

	"github.com/roach88/epsql/internal/version"
)

const SelectMapNames = "SELECT MapName FROM DaylightMaps ORDER BY MapNumber"

const SelectMapNamesForEnvironment = "SELECT MapName FROM DaylightMaps WHERE Environment = ? COLLATE NOCASE ORDER BY MapNumber"

// SelectMapIndex matches map names by substring, as the producer decorates
// map names with the zone and environment.
const SelectMapIndex = "SELECT MapNumber FROM DaylightMaps WHERE MapName LIKE '%' || ? || '%' ORDER BY MapNumber"

const SelectMapReferencePts = "SELECT ReferencePts FROM DaylightMaps WHERE MapNumber = ?"

// SelectMapReferencePt returns one of the two reference point columns of
// files in the 2 reference point band.
func SelectMapReferencePt(n int) (string, error) {
	if n != 1 && n != 2 {
		return "", fmt.Errorf("reference point %d out of range [1, 2]", n)
	}
	return fmt.Sprintf("SELECT ReferencePt%d FROM DaylightMaps WHERE MapNumber = ?", n), nil
}

const SelectMapMinimum = "SELECT MIN(d.Illuminance) FROM DaylightMapHourlyData d INNER JOIN DaylightMapHourlyReports r ON d.HourlyReportIndex = r.HourlyReportIndex WHERE r.MapNumber = ?"

const SelectMapMaximum = "SELECT MAX(d.Illuminance) FROM DaylightMapHourlyData d INNER JOIN DaylightMapHourlyReports r ON d.HourlyReportIndex = r.HourlyReportIndex WHERE r.MapNumber = ?"

const SelectMapZoneNames = "SELECT ZoneName FROM Zones WHERE ZoneIndex IN (SELECT Zone FROM DaylightMaps WHERE MapNumber = ?) ORDER BY ZoneIndex"

const SelectMapX = "SELECT X FROM DaylightMapHourlyData WHERE HourlyReportIndex = ? GROUP BY X ORDER BY X"

const SelectMapY = "SELECT Y FROM DaylightMapHourlyData WHERE HourlyReportIndex = ? GROUP BY Y ORDER BY Y"

const SelectMapReportIndices = "SELECT HourlyReportIndex FROM DaylightMapHourlyReports WHERE MapNumber = ? ORDER BY HourlyReportIndex"

// SelectMapReportDates lists the reports of a map with their dates.
// Columns are (index, [year,] month, day, hour).
func SelectMapReportDates(f version.Flags) string {
	if f.HasIlluminanceMapYear {
		return "SELECT HourlyReportIndex, Year, Month, DayOfMonth, Hour FROM DaylightMapHourlyReports WHERE MapNumber = ? ORDER BY HourlyReportIndex"
	}
	return "SELECT HourlyReportIndex, Month, DayOfMonth, Hour FROM DaylightMapHourlyReports WHERE MapNumber = ? ORDER BY HourlyReportIndex"
}

// SelectReportDate returns the date of one report. Columns are ([year,]
// month, day, hour).
func SelectReportDate(f version.Flags) string {
	if f.HasIlluminanceMapYear {
		return "SELECT Year, Month, DayOfMonth, Hour FROM DaylightMapHourlyReports WHERE HourlyReportIndex = ?"
	}
	return "SELECT Month, DayOfMonth, Hour FROM DaylightMapHourlyReports WHERE HourlyReportIndex = ?"
}

// SelectReportIndexAt resolves a report by map and date. The year is never
// matched, so files with and without the column behave alike.
const SelectReportIndexAt = "SELECT HourlyReportIndex FROM DaylightMapHourlyReports WHERE MapNumber = ? AND Month = ? AND DayOfMonth = ? AND Hour = ? ORDER BY HourlyReportIndex LIMIT 1"

// SelectMapValues returns every sample of one report in grid order.
const SelectMapValues = "SELECT Illuminance FROM DaylightMapHourlyData WHERE HourlyReportIndex = ? ORDER BY X, Y"
