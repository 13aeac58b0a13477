// Package queryir provides the time-series query model.
//
// A Query names the series a caller wants with any subset of four fields:
// environment, reporting frequency, series name and key values. Unset
// fields mean "every available value". The engine expands a Query against
// the result file's dictionary into fully resolved queries.
//
// SEALED INTERFACES:
//
// Environment, SeriesName and KeyValues are sealed interfaces using the
// marker method pattern. Each has a literal form and a second form:
//
//	Environment   EnvironmentName | EnvironmentOfType
//	SeriesName    Name            | NamePattern
//	KeyValues     KeyValueList    | KeyValuePattern
//
// so the expander can switch exhaustively:
//
//	switch n := q.Name.(type) {
//	case Name:
//	    // literal lookup with fallbacks
//	case NamePattern:
//	    // full-match over available names
//	}
//
// Patterns are regular expressions that must match the whole value.
//
// QuerySpec is the YAML/JSON/CUE form of a Query, used by query files.
package queryir
