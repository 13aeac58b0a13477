package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportingFrequencyLabels(t *testing.T) {
	assert.Equal(t, "HVAC System Timestep", Detailed.Label())
	assert.Equal(t, "Zone Timestep", Timestep.Label())
	assert.Equal(t, "Run Period", RunPeriod.Label())
	assert.Equal(t, "RunPeriod", RunPeriod.Name())
	assert.Equal(t, "", ReportingFrequency(0).Label())
	assert.False(t, ReportingFrequency(42).Valid())
}

func TestParseReportingFrequency(t *testing.T) {
	tests := []struct {
		input    string
		expected ReportingFrequency
		ok       bool
	}{
		{"Hourly", Hourly, true},
		{"hourly", Hourly, true},
		{"Run Period", RunPeriod, true},
		{"runperiod", RunPeriod, true},
		{"run_period", RunPeriod, true},
		{"Zone Timestep", Timestep, true},
		{"timestep", Timestep, true},
		{"HVAC System Timestep", Detailed, true},
		{"detailed", Detailed, true},
		{"Annual", Annual, true},
		{"Environment", 0, false},
		{"", 0, false},
		{"fortnightly", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseReportingFrequency(tt.input)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReportingFrequencyIsInterval(t *testing.T) {
	for _, f := range AllFrequencies() {
		want := f == Timestep || f == Hourly || f == Daily
		assert.Equal(t, want, f.IsInterval(), f.Name())
	}
}

func TestParseEnvironmentType(t *testing.T) {
	got, ok := ParseEnvironmentType("weatherrunperiod")
	require.True(t, ok)
	assert.Equal(t, WeatherRunPeriod, got)
	assert.Equal(t, 3, int(got))

	_, ok = ParseEnvironmentType("Sizing")
	assert.False(t, ok)
	assert.Equal(t, "EnvironmentType(9)", EnvironmentType(9).String())
}

func TestReportingFrequencyText(t *testing.T) {
	data, err := json.Marshal(struct {
		Frequency ReportingFrequency `json:"frequency"`
	}{RunPeriod})
	require.NoError(t, err)
	assert.JSONEq(t, `{"frequency":"Run Period"}`, string(data))

	var back struct {
		Frequency ReportingFrequency `json:"frequency"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"frequency":"run_period"}`), &back))
	assert.Equal(t, RunPeriod, back.Frequency)

	assert.Error(t, json.Unmarshal([]byte(`{"frequency":"fortnightly"}`), &back))

	_, err = ReportingFrequency(0).MarshalText()
	assert.Error(t, err)
}
