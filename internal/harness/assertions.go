package harness

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/roach88/epsql/internal/sqlfile"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// Only allows alphanumeric and underscore, must start with letter or underscore.
// This prevents SQL injection via identifier interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// tolerance is the absolute difference under which two sums are equal.
const tolerance = 1e-9

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			switch event.Type {
			case EventQuery:
				fmt.Fprintf(&buf, "  [%d] query %s\n", i+1, event.Query)
			case EventSeries:
				fmt.Fprintf(&buf, "  [%d]   %s key=%q samples=%d\n", i+1, event.Resolved, event.KeyValue, event.Samples)
			}
		}
	}

	return buf.String()
}

// assertResolvedContains checks that a series was read for the resolved
// query.
func assertResolvedContains(result *Result, assertion Assertion) error {
	for _, resolved := range result.Resolved() {
		if resolved == assertion.Resolved {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertResolvedContains,
		Expected: fmt.Sprintf("resolved query %s", assertion.Resolved),
		Actual:   "not found in trace",
		Trace:    result.Trace,
	}
}

// assertResolvedOrder checks if resolved queries first appear in the
// specified order. Other queries may appear in between.
func assertResolvedOrder(result *Result, assertion Assertion) error {
	positions := make(map[string]int)
	for i, resolved := range result.Resolved() {
		positions[resolved] = i + 1 // 1-indexed for readability
	}

	for _, resolved := range assertion.Order {
		if positions[resolved] == 0 {
			return &AssertionError{
				Type:     AssertResolvedOrder,
				Expected: fmt.Sprintf("all resolved queries present: %v", assertion.Order),
				Actual:   fmt.Sprintf("missing resolved query: %s", resolved),
				Trace:    result.Trace,
			}
		}
	}

	for i := 1; i < len(assertion.Order); i++ {
		prev := assertion.Order[i-1]
		curr := assertion.Order[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertResolvedOrder,
				Expected: fmt.Sprintf("resolved queries in order: %v", assertion.Order),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: result.Trace,
			}
		}
	}

	return nil
}

// assertSeriesCount checks that exactly Count series were read.
func assertSeriesCount(result *Result, assertion Assertion) error {
	count := 0
	for _, event := range result.Trace {
		if event.Type == EventSeries {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertSeriesCount,
			Expected: fmt.Sprintf("%d series read", assertion.Count),
			Actual:   fmt.Sprintf("%d series read", count),
			Trace:    result.Trace,
		}
	}

	return nil
}

// assertMeterTotal checks the summed value of a Sum meter as the summary
// report computes it.
func assertMeterTotal(ctx context.Context, f *sqlfile.File, assertion Assertion) error {
	rows, err := f.SummaryData(ctx)
	if err != nil {
		return fmt.Errorf("meter_total: %w", err)
	}

	want := *assertion.Value
	for _, row := range rows {
		if !strings.EqualFold(row.Fuel+":"+row.InstallLocation, assertion.Meter) {
			continue
		}
		if math.Abs(row.Value-want) > tolerance {
			return &AssertionError{
				Type:     AssertMeterTotal,
				Expected: fmt.Sprintf("%s totals %v", assertion.Meter, want),
				Actual:   fmt.Sprintf("%s totals %v", assertion.Meter, row.Value),
			}
		}
		return nil
	}

	return &AssertionError{
		Type:     AssertMeterTotal,
		Expected: fmt.Sprintf("%s totals %v", assertion.Meter, want),
		Actual:   "meter not in summary data",
	}
}

// assertIlluminance checks that every cell of a map report equals Value.
func assertIlluminance(ctx context.Context, f *sqlfile.File, assertion Assertion) error {
	at, err := time.Parse(time.DateTime, assertion.At)
	if err != nil {
		return fmt.Errorf("illuminance: %w", err)
	}

	grid, ok, err := f.IlluminanceMapAt(ctx, assertion.Map, at)
	if err != nil {
		return fmt.Errorf("illuminance: %w", err)
	}
	expected := fmt.Sprintf("%s at %s uniformly %v", assertion.Map, assertion.At, *assertion.Value)
	if !ok {
		return &AssertionError{Type: AssertIlluminance, Expected: expected, Actual: "no such report"}
	}

	for i, column := range grid.Values {
		for j, lux := range column {
			if lux != *assertion.Value {
				return &AssertionError{
					Type:     AssertIlluminance,
					Expected: expected,
					Actual:   fmt.Sprintf("%v at x=%v y=%v", lux, grid.X[i], grid.Y[j]),
				}
			}
		}
	}
	return nil
}

// assertFinalState checks that a table of the result file contains the
// expected values. Exactly one row must match Where.
//
// Security: Table and column names are validated against a whitelist pattern
// to prevent SQL injection via identifier interpolation.
func assertFinalState(ctx context.Context, f *sqlfile.File, assertion Assertion) error {
	if !validIdentifier.MatchString(assertion.Table) {
		return fmt.Errorf("invalid table name %q: must match pattern %s", assertion.Table, validIdentifier.String())
	}

	whereSQL, whereArgs, err := buildWhereClause(assertion.Where)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT * FROM %s", assertion.Table)
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	rows, err := f.Store().DB().QueryContext(ctx, query, whereArgs...)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	whereDesc := formatWhereClause(assertion.Where)
	if !rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, whereDesc),
			Actual:   "row not found",
		}
	}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}

	if rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, whereDesc),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	actualRow := make(map[string]interface{})
	for i, col := range columns {
		actualRow[col] = values[i]
	}

	// Subset semantics: only fields in Expect are checked.
	keys := sortedKeys(assertion.Expect)
	for _, key := range keys {
		expectedValue := assertion.Expect[key]
		actualValue, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, columns),
			}
		}

		if !stateValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}

	return nil
}

// buildWhereClause constructs parameterized WHERE clause from assertion.Where.
// Returns SQL fragment, arguments slice, and error. Keys are sorted for determinism.
func buildWhereClause(where map[string]interface{}) (string, []interface{}, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := sortedKeys(where)
	clauses := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))

	for _, key := range keys {
		if !validIdentifier.MatchString(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", key, validIdentifier.String())
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", key))
		args = append(args, where[key])
	}

	return strings.Join(clauses, " AND "), args, nil
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]interface{}) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := sortedKeys(where)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stateValuesEqual compares a YAML-decoded expected value with a value
// scanned from SQLite. Numbers compare by value whatever their Go type;
// booleans match the integers SQLite stores them as.
func stateValuesEqual(expected, actual interface{}) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	if b, ok := actual.([]byte); ok {
		actual = string(b)
	}

	switch exp := expected.(type) {
	case string:
		act, ok := actual.(string)
		return ok && exp == act
	case bool:
		switch act := actual.(type) {
		case bool:
			return exp == act
		case int64:
			return exp == (act != 0)
		}
		return false
	}

	expNum, ok := toFloat(expected)
	if !ok {
		return false
	}
	actNum, ok := toFloat(actual)
	return ok && expNum == actNum
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	File *sqlfile.File
	Ctx  context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides file access for meter_total, illuminance
// and final_state assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertResolvedContains:
			err = assertResolvedContains(result, assertion)
		case AssertResolvedOrder:
			err = assertResolvedOrder(result, assertion)
		case AssertSeriesCount:
			err = assertSeriesCount(result, assertion)
		case AssertMeterTotal, AssertIlluminance, AssertFinalState:
			if actx == nil || actx.File == nil {
				err = fmt.Errorf("assertion[%d]: %s requires a result file", i, assertion.Type)
				break
			}
			switch assertion.Type {
			case AssertMeterTotal:
				err = assertMeterTotal(actx.Ctx, actx.File, assertion)
			case AssertIlluminance:
				err = assertIlluminance(actx.Ctx, actx.File, assertion)
			default:
				err = assertFinalState(actx.Ctx, actx.File, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
