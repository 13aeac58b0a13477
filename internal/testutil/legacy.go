package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// legacySchema is the subset of a 7.x result file the reader touches: the
// per-source catalogs are real tables and Time has no Year column.
const legacySchema = `
CREATE TABLE Simulations (SimulationIndex INTEGER PRIMARY KEY, EnergyPlusVersion TEXT, TimeStamp TEXT, NumTimestepsPerHour INTEGER, Completed BOOL, CompletedSuccessfully BOOL);
CREATE TABLE EnvironmentPeriods (EnvironmentPeriodIndex INTEGER PRIMARY KEY, SimulationIndex INTEGER, EnvironmentName TEXT, EnvironmentType INTEGER);
CREATE TABLE Time (TimeIndex INTEGER PRIMARY KEY, Month INTEGER, Day INTEGER, Hour INTEGER, Minute INTEGER, Dst INTEGER, Interval INTEGER, IntervalType INTEGER, SimulationDays INTEGER, DayType TEXT, EnvironmentPeriodIndex INTEGER, WarmupFlag INTEGER);
CREATE TABLE ReportMeterDataDictionary (ReportMeterDataDictionaryIndex INTEGER PRIMARY KEY, VariableType TEXT, IndexGroup TEXT, TimestepType TEXT, KeyValue TEXT, VariableName TEXT, ReportingFrequency TEXT, ScheduleName TEXT, VariableUnits TEXT);
CREATE TABLE ReportMeterData (TimeIndex INTEGER, ReportMeterDataDictionaryIndex INTEGER, VariableValue REAL, ReportVariableExtendedDataIndex INTEGER);
CREATE TABLE ReportVariableDataDictionary (ReportVariableDataDictionaryIndex INTEGER PRIMARY KEY, VariableType TEXT, IndexGroup TEXT, TimestepType TEXT, KeyValue TEXT, VariableName TEXT, ReportingFrequency TEXT, ScheduleName TEXT, VariableUnits TEXT);
CREATE TABLE ReportVariableData (TimeIndex INTEGER, ReportVariableDataDictionaryIndex INTEGER, VariableValue REAL, ReportVariableExtendedDataIndex INTEGER);
`

// LegacyVersion is the producer version LegacyResultFile records.
const LegacyVersion = "EnergyPlus, Version 7.2.0.006, YMD=2014.11.10 10:00"

// LegacyResultFile writes a 7.2 result file and returns its path. It holds
// one weather run period "CHICAGO ANNUAL" of one day, the hourly meter
// Electricity:Facility valued 1..24 and the hourly variable
// "Zone Mean Air Temperature" for key "ZONE ONE" at 20.
func LegacyResultFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.sql")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open legacy file: %v", err)
	}
	defer db.Close()

	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("legacy exec %q: %v", query, err)
		}
	}

	exec(legacySchema)
	exec("INSERT INTO Simulations VALUES (1, ?, '2014.11.10 10:00', 6, 1, 1)", LegacyVersion)
	exec("INSERT INTO EnvironmentPeriods VALUES (1, 1, 'CHICAGO ANNUAL', 3)")
	exec("INSERT INTO ReportMeterDataDictionary VALUES (7, 'Sum', 'Facility:Electricity', 'HVAC System', '', 'Electricity:Facility', 'Hourly', '', 'J')")
	exec("INSERT INTO ReportVariableDataDictionary VALUES (8, 'Avg', 'Zone', 'Zone', 'ZONE ONE', 'Zone Mean Air Temperature', 'Hourly', '', 'C')")
	for hour := 1; hour <= 24; hour++ {
		exec("INSERT INTO Time VALUES (?, 1, 1, ?, 0, 0, 60, 1, 1, 'Thursday', 1, 0)", hour, hour)
		exec("INSERT INTO ReportMeterData VALUES (?, 7, ?, NULL)", hour, float64(hour))
		exec("INSERT INTO ReportVariableData VALUES (?, 8, 20.0, NULL)", hour)
	}
	return path
}
