package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/queryir"
)

// Scenario defines a conformance scenario.
// A scenario writes a result file from scratch, runs queries against it and
// asserts on the series they resolve to and on the stored rows.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Environment names the single environment period. Empty means
	// "RUN PERIOD 1".
	Environment string `yaml:"environment,omitempty"`

	// EnvironmentType is DesignDay, DesignRunPeriod or WeatherRunPeriod.
	// Empty means WeatherRunPeriod.
	EnvironmentType string `yaml:"environment_type,omitempty"`

	// Days is the length of the calendar, starting on January 1.
	Days int `yaml:"days"`

	// Series are written before any query runs.
	Series []SeriesStep `yaml:"series"`

	// Maps are daylighting illuminance maps written after the series.
	Maps []MapStep `yaml:"maps,omitempty"`

	// Queries run in order; each may carry an expect clause.
	Queries []QueryStep `yaml:"queries"`

	// Assertions validate the trace and the stored rows.
	// Supported types: resolved_contains, resolved_order, series_count,
	// meter_total, illuminance, final_state
	Assertions []Assertion `yaml:"assertions"`
}

// SeriesStep is one series to write. Samples are hourly or daily, the first
// one ending one interval after midnight of January 1.
type SeriesStep struct {
	Name      string `yaml:"name"`
	Key       string `yaml:"key,omitempty"`
	Meter     bool   `yaml:"meter,omitempty"`
	Frequency string `yaml:"frequency"`
	Units     string `yaml:"units"`

	// Values lists the samples. Fill repeats one value instead.
	Values []float64 `yaml:"values,omitempty"`
	Fill   *Fill     `yaml:"fill,omitempty"`
}

// Fill repeats Value Count times.
type Fill struct {
	Count int     `yaml:"count"`
	Value float64 `yaml:"value"`
}

// MapStep is an illuminance map with hourly reports from Start. Every cell
// of report k holds Illuminance[k].
type MapStep struct {
	Name        string    `yaml:"name"`
	Zone        string    `yaml:"zone"`
	Start       string    `yaml:"start"`
	X           []float64 `yaml:"x"`
	Y           []float64 `yaml:"y"`
	Illuminance []float64 `yaml:"illuminance"`
}

// QueryStep runs one query.
type QueryStep struct {
	Query  queryir.QuerySpec `yaml:"query"`
	Expect *ExpectClause     `yaml:"expect,omitempty"`
}

// ExpectClause specifies what a query must produce.
type ExpectClause struct {
	// Resolved is the number of resolved queries.
	Resolved *int `yaml:"resolved,omitempty"`

	// Samples is the total number of samples over every series read.
	Samples *int `yaml:"samples,omitempty"`
}

// Assertion validates the trace or the stored rows.
type Assertion struct {
	// Type specifies the assertion type:
	// - "resolved_contains": a resolved query appears in the trace
	// - "resolved_order": resolved queries appear in order
	// - "series_count": exactly Count series were read
	// - "meter_total": a Sum meter totals Value
	// - "illuminance": every cell of a map report equals Value
	// - "final_state": query a table and verify expected values
	Type string `yaml:"type"`

	// Resolved is a resolved query as rendered in the trace (used by
	// resolved_contains).
	Resolved string `yaml:"resolved,omitempty"`

	// Order lists resolved queries (used by resolved_order).
	Order []string `yaml:"order,omitempty"`

	// Count is the expected number of series (used by series_count).
	Count int `yaml:"count,omitempty"`

	// Meter is a "Fuel:Location" meter name (used by meter_total).
	Meter string `yaml:"meter,omitempty"`

	// Map and At select a map report (used by illuminance).
	Map string `yaml:"map,omitempty"`
	At  string `yaml:"at,omitempty"`

	// Value is the expected number (used by meter_total and illuminance).
	Value *float64 `yaml:"value,omitempty"`

	// Table is the table name (used by final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (used by final_state).
	// All fields must match exactly.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (used by final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertResolvedContains = "resolved_contains"
	AssertResolvedOrder    = "resolved_order"
	AssertSeriesCount      = "series_count"
	AssertMeterTotal       = "meter_total"
	AssertIlluminance      = "illuminance"
	AssertFinalState       = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Days <= 0 {
		return fmt.Errorf("days must be positive")
	}

	if s.EnvironmentType != "" {
		if _, ok := ir.ParseEnvironmentType(s.EnvironmentType); !ok {
			return fmt.Errorf("unknown environment_type %q", s.EnvironmentType)
		}
	}

	if len(s.Series) == 0 {
		return fmt.Errorf("series list is required and must be non-empty")
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Series {
		if err := validateSeries(step); err != nil {
			return fmt.Errorf("series[%d]: %w", i, err)
		}
	}

	for i, step := range s.Maps {
		if err := validateMap(step); err != nil {
			return fmt.Errorf("maps[%d]: %w", i, err)
		}
	}

	for i, step := range s.Queries {
		if err := step.Query.Validate(); err != nil {
			return fmt.Errorf("queries[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateSeries(step SeriesStep) error {
	if step.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := seriesInterval(step.Frequency); err != nil {
		return err
	}
	if len(step.Values) > 0 && step.Fill != nil {
		return fmt.Errorf("values and fill are mutually exclusive")
	}
	if len(step.Values) == 0 && (step.Fill == nil || step.Fill.Count <= 0) {
		return fmt.Errorf("values or a positive fill count is required")
	}
	return nil
}

func validateMap(step MapStep) error {
	switch {
	case step.Name == "":
		return fmt.Errorf("name is required")
	case step.Zone == "":
		return fmt.Errorf("zone is required")
	case len(step.X) == 0 || len(step.Y) == 0:
		return fmt.Errorf("x and y must be non-empty")
	case len(step.Illuminance) == 0:
		return fmt.Errorf("illuminance must list at least one report")
	}
	if _, err := time.Parse(time.DateTime, step.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

// seriesInterval returns the sample spacing of a scenario series. Only
// frequencies that land on the hourly calendar can be written.
func seriesInterval(freq string) (time.Duration, error) {
	rf, ok := ir.ParseReportingFrequency(freq)
	if !ok {
		return 0, fmt.Errorf("unknown frequency %q", freq)
	}
	switch rf {
	case ir.Hourly:
		return time.Hour, nil
	case ir.Daily:
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("frequency %s cannot be written by a scenario (use Hourly or Daily)", rf)
	}
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertResolvedContains:
		if a.Resolved == "" {
			return fmt.Errorf("assertions[%d]: resolved is required for resolved_contains", index)
		}
	case AssertResolvedOrder:
		if len(a.Order) == 0 {
			return fmt.Errorf("assertions[%d]: order list is required for resolved_order", index)
		}
	case AssertSeriesCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for series_count", index)
		}
	case AssertMeterTotal:
		if a.Meter == "" || a.Value == nil {
			return fmt.Errorf("assertions[%d]: meter and value are required for meter_total", index)
		}
	case AssertIlluminance:
		if a.Map == "" || a.At == "" || a.Value == nil {
			return fmt.Errorf("assertions[%d]: map, at and value are required for illuminance", index)
		}
		if _, err := time.Parse(time.DateTime, a.At); err != nil {
			return fmt.Errorf("assertions[%d]: at: %w", index, err)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
