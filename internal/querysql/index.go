package querysql

// Index is one of the optional indexes that speed up series and map reads.
type Index struct {
	Name   string
	Table  string
	Column string
}

// Indexes lists every optional index in creation order.
var Indexes = []Index{
	{Name: "rddMTR", Table: "ReportDataDictionary", Column: "IsMeter"},
	{Name: "redRD", Table: "ReportExtendedData", Column: "ReportDataIndex"},
	{Name: "rdTI", Table: "ReportData", Column: "TimeIndex ASC"},
	{Name: "rdDI", Table: "ReportData", Column: "ReportDataDictionaryIndex ASC"},
	{Name: "dmhdHRI", Table: "DaylightMapHourlyData", Column: "HourlyReportIndex ASC"},
	{Name: "dmhrMNI", Table: "DaylightMapHourlyReports", Column: "MapNumber"},
}

// Create returns the CREATE INDEX statement.
func (i Index) Create() string {
	return "CREATE INDEX IF NOT EXISTS " + i.Name + " ON " + i.Table + " (" + i.Column + ")"
}

// Drop returns the DROP INDEX statement.
func (i Index) Drop() string {
	return "DROP INDEX IF EXISTS " + i.Name
}
