package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `name: minimal
description: One meter read back
days: 1
series:
  - name: Electricity:Facility
    meter: true
    frequency: Hourly
    units: J
    fill: { count: 24, value: 1 }
queries:
  - query: { environment: RUN PERIOD 1 }
assertions:
  - type: series_count
    count: 1
`

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/hourly_meter.yaml")
	require.NoError(t, err)

	assert.Equal(t, "hourly_meter", s.Name)
	assert.Equal(t, 2, s.Days)
	require.Len(t, s.Series, 2)
	assert.True(t, s.Series[0].Meter)
	require.NotNil(t, s.Series[0].Fill)
	assert.Equal(t, 24, s.Series[0].Fill.Count)
	assert.Equal(t, []float64{20, 21, 22}, s.Series[1].Values)
	require.Len(t, s.Maps, 1)
	assert.Equal(t, []float64{500, 450}, s.Maps[0].Illuminance)
	require.Len(t, s.Queries, 3)
	assert.Equal(t, "Zone .*", s.Queries[1].Query.NamePattern)
	require.NotNil(t, s.Queries[0].Expect)
	require.NotNil(t, s.Queries[0].Expect.Samples)
	assert.Equal(t, 24, *s.Queries[0].Expect.Samples)
	require.Len(t, s.Assertions, 5)
	assert.Equal(t, AssertFinalState, s.Assertions[4].Type)
	assert.Equal(t, "ZONE ONE", s.Assertions[4].Expect["KeyValue"])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Empty(t, s.Maps)
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(string) string
		wantErr string
	}{
		{"no name", replace("name: minimal\n", ""), "name is required"},
		{"no description", replace("description: One meter read back\n", ""), "description is required"},
		{"no days", replace("days: 1\n", ""), "days must be positive"},
		{"bad environment type", replace("days: 1\n", "days: 1\nenvironment_type: Sometimes\n"), "unknown environment_type"},
		{"monthly series", replace("frequency: Hourly", "frequency: Monthly"), "cannot be written by a scenario"},
		{"unknown frequency", replace("frequency: Hourly", "frequency: Fortnightly"), "unknown frequency"},
		{"values and fill", replace("fill: { count: 24, value: 1 }", "fill: { count: 24, value: 1 }\n    values: [1]"), "mutually exclusive"},
		{"no samples", replace("fill: { count: 24, value: 1 }", "fill: { count: 0, value: 1 }"), "positive fill count"},
		{"bad query", replace("{ environment: RUN PERIOD 1 }", "{ environment: RUN PERIOD 1, environment_type: DesignDay }"), "queries[0]"},
		{"unknown assertion", replace("type: series_count", "type: trace_count"), "unknown assertion type"},
		{"no assertions", replace("  - type: series_count\n    count: 1\n", "  []\n"), "assertions list is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.edit(minimalScenario)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func replace(old, new string) func(string) string {
	return func(s string) string {
		return strings.Replace(s, old, new, 1)
	}
}

func TestValidateAssertion(t *testing.T) {
	value := 1.0
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"resolved_contains ok", Assertion{Type: AssertResolvedContains, Resolved: "X"}, ""},
		{"resolved_contains missing", Assertion{Type: AssertResolvedContains}, "resolved is required"},
		{"resolved_order missing", Assertion{Type: AssertResolvedOrder}, "order list is required"},
		{"series_count negative", Assertion{Type: AssertSeriesCount, Count: -1}, "non-negative"},
		{"meter_total missing value", Assertion{Type: AssertMeterTotal, Meter: "Gas:Facility"}, "meter and value"},
		{"illuminance ok", Assertion{Type: AssertIlluminance, Map: "M", At: "2009-01-01 12:00:00", Value: &value}, ""},
		{"illuminance bad time", Assertion{Type: AssertIlluminance, Map: "M", At: "noon", Value: &value}, "at:"},
		{"final_state missing table", Assertion{Type: AssertFinalState}, "table is required"},
		{"final_state missing expect", Assertion{Type: AssertFinalState, Table: "Zones"}, "expect is required"},
		{"missing type", Assertion{}, "type is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenarioFilesAreValid(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			assert.NoError(t, err)
		})
	}
}
