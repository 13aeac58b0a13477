package querysql

import "strings"

// TabularPredicate selects one cell of the tabular reports by exact match.
// Empty fields are left out of the predicate.
type TabularPredicate struct {
	ReportName string
	ReportFor  string
	TableName  string
	RowName    string
	ColumnName string
	Units      string

	// Value filters on the cell text itself, for reverse lookups.
	Value string
}

// Compile returns the cell lookup query and its parameters, in column order.
func (p TabularPredicate) Compile() (string, []string) {
	return p.compile("Value")
}

// CompileRowName returns a query selecting the RowName of matching cells.
func (p TabularPredicate) CompileRowName() (string, []string) {
	return p.compile("RowName")
}

func (p TabularPredicate) compile(column string) (string, []string) {
	fields := []struct {
		column string
		value  string
	}{
		{"ReportName", p.ReportName},
		{"ReportForString", p.ReportFor},
		{"TableName", p.TableName},
		{"RowName", p.RowName},
		{"ColumnName", p.ColumnName},
		{"Units", p.Units},
		{"Value", p.Value},
	}

	var where []string
	var params []string
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		where = append(where, f.column+" = ?")
		params = append(params, f.value)
	}

	query := "SELECT " + column + " FROM TabularDataWithStrings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query, params
}

// HoursSimulatedFromCalendar spans the calendar rows that carry meter
// data, in hours, inclusive of the first hour.
const HoursSimulatedFromCalendar = "SELECT (MAX(dt) - MIN(dt)) + 1 FROM (SELECT Time.Hour + (Time.SimulationDays - 1) * 24 AS dt FROM Time INNER JOIN ReportMeterData ON ReportMeterData.TimeIndex = Time.TimeIndex)"

// NetSiteEnergyFromMeters sums facility meters in GJ, excluding energy
// transfer meters, one row per reporting frequency.
const NetSiteEnergyFromMeters = "SELECT SUM(VariableValue) / 1000000000 FROM ReportMeterData, ReportMeterDataDictionary WHERE ReportMeterData.ReportMeterDataDictionaryIndex = ReportMeterDataDictionary.ReportMeterDataDictionaryIndex AND VariableName NOT LIKE '%EnergyTransfer%' GROUP BY ReportingFrequency"

// SummaryData sums every Sum-type meter, one row per meter and frequency.
// Columns are (sum, name, reporting frequency, units).
const SummaryData = "SELECT SUM(VariableValue), VariableName, ReportingFrequency, VariableUnits FROM ReportMeterData, ReportMeterDataDictionary WHERE ReportMeterData.ReportMeterDataDictionaryIndex = ReportMeterDataDictionary.ReportMeterDataDictionaryIndex AND VariableType = 'Sum' GROUP BY VariableName, ReportingFrequency, VariableUnits ORDER BY VariableName, ReportingFrequency"
