package testutil

import "context"

// TabularRow is one cell of a tabular report.
type TabularRow struct {
	ReportName string
	ReportFor  string
	TableName  string
	RowName    string
	ColumnName string
	Units      string
	Value      string
}

var stringTypes = []string{"ReportName", "ReportForString", "TableName", "RowName", "ColumnName", "Units"}

// AddTabular writes tabular report cells, interning their strings.
func (r *ResultFile) AddTabular(rows ...TabularRow) {
	r.t.Helper()
	for i, name := range stringTypes {
		r.Exec("INSERT OR IGNORE INTO StringTypes (StringTypeIndex, Value) VALUES (?, ?)", i+1, name)
	}
	for _, row := range rows {
		ids := make([]any, 0, 6)
		for i, v := range []string{row.ReportName, row.ReportFor, row.TableName, row.RowName, row.ColumnName, row.Units} {
			ids = append(ids, r.intern(i+1, v))
		}
		r.Exec(`INSERT INTO TabularData
			(ReportNameIndex, ReportForStringIndex, TableNameIndex, RowNameIndex, ColumnNameIndex, UnitsIndex, SimulationIndex, RowId, ColumnId, Value)
			VALUES (?, ?, ?, ?, ?, ?, 1, 0, 0, ?)`, append(ids, row.Value)...)
	}
}

func (r *ResultFile) intern(stringType int, value string) int64 {
	r.t.Helper()
	r.Exec("INSERT OR IGNORE INTO Strings (StringTypeIndex, Value) VALUES (?, ?)", stringType, value)
	var id int64
	err := r.Store.DB().QueryRowContext(context.Background(),
		"SELECT StringIndex FROM Strings WHERE StringTypeIndex = ? AND Value = ?", stringType, value).Scan(&id)
	if err != nil {
		r.t.Fatalf("intern %q: %v", value, err)
	}
	return id
}
