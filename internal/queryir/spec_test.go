package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/epsql/internal/ir"
)

func TestQuerySpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    QuerySpec
		wantErr []string
	}{
		{name: "empty", spec: QuerySpec{}},
		{
			name: "full literal",
			spec: QuerySpec{Environment: "RUN PERIOD 1", Frequency: "Hourly", Name: "Electricity:Facility", KeyValues: []string{"Whole Building"}},
		},
		{
			name: "patterns",
			spec: QuerySpec{EnvironmentType: "designday", Frequency: "run period", NamePattern: ".*:Facility", KeyValuePattern: "ZONE.*"},
		},
		{
			name:    "environment conflict",
			spec:    QuerySpec{Environment: "X", EnvironmentType: "DesignDay"},
			wantErr: []string{"environment and environment_type are mutually exclusive"},
		},
		{
			name:    "unknown type and frequency",
			spec:    QuerySpec{EnvironmentType: "Sometimes", Frequency: "Fortnightly"},
			wantErr: []string{`unknown environment_type "Sometimes"`, `unknown frequency "Fortnightly"`},
		},
		{
			name:    "name conflict",
			spec:    QuerySpec{Name: "a", NamePattern: "b"},
			wantErr: []string{"name and name_pattern are mutually exclusive"},
		},
		{
			name:    "bad patterns",
			spec:    QuerySpec{NamePattern: "[", KeyValuePattern: "("},
			wantErr: []string{"name_pattern:", "key_value_pattern:"},
		},
		{
			name:    "key conflict and blank key",
			spec:    QuerySpec{KeyValues: []string{"ZONE 1", " "}, KeyValuePattern: ".*"},
			wantErr: []string{"key_values and key_value_pattern are mutually exclusive", "key_values[1] is empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestQuerySpecToQuery(t *testing.T) {
	q, err := QuerySpec{
		EnvironmentType: "WeatherRunPeriod",
		Frequency:       "Hourly",
		NamePattern:     "Electricity:.*",
		KeyValues:       []string{"Whole Building"},
	}.ToQuery()
	require.NoError(t, err)

	assert.Equal(t, EnvironmentOfType{Type: ir.WeatherRunPeriod}, q.Environment)
	assert.Equal(t, "Hourly", q.Frequency)
	p, ok := q.Name.(NamePattern)
	require.True(t, ok)
	assert.True(t, p.Matches("Electricity:Facility"))
	assert.Equal(t, KeyValueList{"Whole Building"}, q.KeyValues)

	q, err = QuerySpec{Environment: "RUN PERIOD 1", Name: "Gas:Facility", KeyValuePattern: ".*"}.ToQuery()
	require.NoError(t, err)
	assert.Equal(t, EnvironmentName("RUN PERIOD 1"), q.Environment)
	assert.Equal(t, Name("Gas:Facility"), q.Name)
	_, ok = q.KeyValues.(KeyValuePattern)
	assert.True(t, ok)

	q, err = QuerySpec{}.ToQuery()
	require.NoError(t, err)
	assert.Nil(t, q.Environment)
	assert.Nil(t, q.Name)
	assert.Nil(t, q.KeyValues)
}

func TestQueryFileFromYAML(t *testing.T) {
	src := `
queries:
  - environment: RUN PERIOD 1
    frequency: Hourly
    name: Electricity:Facility
  - environment_type: DesignDay
    name_pattern: ".*:Facility"
    key_values: [Whole Building]
`
	var f QueryFile
	require.NoError(t, yaml.Unmarshal([]byte(src), &f))
	require.Len(t, f.Queries, 2)

	qs, err := f.ToQueries()
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, Name("Electricity:Facility"), qs[0].Name)
	assert.Equal(t, EnvironmentOfType{Type: ir.DesignDay}, qs[1].Environment)
}

func TestQueryFileReportsPositions(t *testing.T) {
	f := QueryFile{Queries: []QuerySpec{
		{Name: "ok"},
		{Frequency: "Often"},
	}}
	qs, err := f.ToQueries()
	require.Error(t, err)
	assert.Nil(t, qs)
	assert.Contains(t, err.Error(), `queries[1]: unknown frequency "Often"`)
}
