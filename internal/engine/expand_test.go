package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/queryir"
)

func mustNamePattern(t *testing.T, expr string) queryir.NamePattern {
	t.Helper()
	p, err := queryir.NewNamePattern(expr)
	require.NoError(t, err)
	return p
}

func mustKeyPattern(t *testing.T, expr string) queryir.KeyValuePattern {
	t.Helper()
	p, err := queryir.NewKeyValuePattern(expr)
	require.NoError(t, err)
	return p
}

func TestExpand_EmptyQueryListsEverything(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)

	got := e.Expand(queryir.Query{})
	require.Len(t, got, 2)
	assert.Equal(t, "RUN PERIOD 1/Hourly/Electricity:Facility[]", got[0].String())
	assert.Equal(t, "RUN PERIOD 1/Hourly/Zone Mean Air Temperature[ZONE ONE, ZONE TWO]", got[1].String())
	for _, rq := range got {
		assert.True(t, rq.Vetted())
	}
}

func TestExpand_LowerCaseNameResolvesLikeExactCase(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)

	exact := e.Expand(queryir.Query{
		Environment: queryir.EnvironmentName("RUN PERIOD 1"),
		Frequency:   "Hourly",
		Name:        queryir.Name("Electricity:Facility"),
	})
	lower := e.Expand(queryir.Query{
		Environment: queryir.EnvironmentName("RUN PERIOD 1"),
		Frequency:   "Hourly",
		Name:        queryir.Name("electricity:facility"),
	})

	require.Len(t, exact, 1)
	assert.Equal(t, exact, lower)
	assert.Equal(t, "Electricity:Facility", lower[0].Name)
}

func TestExpand_CaseInsensitiveAcrossFields(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)

	a := e.Expand(queryir.Query{
		Environment: queryir.EnvironmentName("RUN PERIOD 1"),
		Frequency:   "Hourly",
		Name:        queryir.Name("Zone Mean Air Temperature"),
		KeyValues:   queryir.KeyValueList{"ZONE ONE"},
	})
	b := e.Expand(queryir.Query{
		Environment: queryir.EnvironmentName("run period 1"),
		Frequency:   "hourly",
		Name:        queryir.Name("ZONE MEAN AIR TEMPERATURE"),
		KeyValues:   queryir.KeyValueList{"zone one"},
	})

	require.Len(t, a, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"ZONE ONE"}, b[0].KeyValues)
}

func TestExpand_IsMonotonic(t *testing.T) {
	r := zoneTemps(t)
	r.AddSeries(runPeriodMeter("Electricity:Facility", 2, 1e9))
	e := newEngine(t, r.Store)

	queries := []queryir.Query{
		{},
		{Environment: queryir.EnvironmentOfType{Type: ir.WeatherRunPeriod}},
		{Environment: queryir.EnvironmentName("RUN PERIOD 1")},
		{Environment: queryir.EnvironmentName("RUN PERIOD 1"), Frequency: "Hourly"},
		{Environment: queryir.EnvironmentName("RUN PERIOD 1"), Frequency: "Hourly", Name: mustNamePattern(t, "Zone.*")},
		{Environment: queryir.EnvironmentName("RUN PERIOD 1"), Frequency: "Hourly", Name: queryir.Name("Zone Mean Air Temperature")},
		{
			Environment: queryir.EnvironmentName("RUN PERIOD 1"),
			Frequency:   "Hourly",
			Name:        queryir.Name("Zone Mean Air Temperature"),
			KeyValues:   queryir.KeyValueList{"ZONE TWO"},
		},
	}

	prev := -1
	prevKeys := -1
	for i, q := range queries {
		got := e.Expand(q)
		keys := 0
		for _, rq := range got {
			keys += len(rq.KeyValues)
		}
		if prev >= 0 {
			assert.LessOrEqual(t, len(got), prev, "query %d: %s", i, q)
			assert.LessOrEqual(t, keys, prevKeys, "query %d: %s", i, q)
		}
		prev, prevKeys = len(got), keys
	}
	assert.Equal(t, 1, prev)
	assert.Equal(t, 1, prevKeys)
}

func TestExpand_EnvironmentSelection(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)

	assert.Empty(t, e.Expand(queryir.Query{Environment: queryir.EnvironmentName("NOWHERE")}))
	assert.Empty(t, e.Expand(queryir.Query{Environment: queryir.EnvironmentOfType{Type: ir.DesignDay}}))
	assert.Len(t, e.Expand(queryir.Query{Environment: queryir.EnvironmentOfType{Type: ir.WeatherRunPeriod}}), 2)
}

func TestExpand_FrequencyMustBeAvailable(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)

	assert.Empty(t, e.Expand(queryir.Query{Frequency: "Monthly"}))
	assert.Empty(t, e.Expand(queryir.Query{Frequency: "Fortnightly"}))
	assert.Len(t, e.Expand(queryir.Query{Frequency: "HOURLY"}), 2)
}

func TestExpand_AnnualRetriesUnderRunPeriod(t *testing.T) {
	r := zoneTemps(t)
	r.AddSeries(runPeriodMeter("Gas:Facility", 2, 5))
	e := newEngine(t, r.Store)

	for _, freq := range []string{"Annual", "environment"} {
		got := e.Expand(queryir.Query{Frequency: freq, Name: queryir.Name("Gas:Facility")})
		require.Len(t, got, 1, freq)
		assert.Equal(t, "Run Period", got[0].Frequency)
		assert.Equal(t, "Gas:Facility", got[0].Name)
	}
}

func TestExpand_NamePatternIsFullMatch(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)

	got := e.Expand(queryir.Query{Name: mustNamePattern(t, "Electricity:.*")})
	require.Len(t, got, 1)
	assert.Equal(t, "Electricity:Facility", got[0].Name)

	assert.Empty(t, e.Expand(queryir.Query{Name: mustNamePattern(t, "Electricity")}))
}

func TestExpand_KeyValues(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)
	name := queryir.Name("Zone Mean Air Temperature")

	got := e.Expand(queryir.Query{Name: name, KeyValues: mustKeyPattern(t, ".*TWO")})
	require.Len(t, got, 1)
	assert.Equal(t, []string{"ZONE TWO"}, got[0].KeyValues)

	got = e.Expand(queryir.Query{Name: name, KeyValues: queryir.KeyValueList{"zone two", "ZONE THREE", "Zone Two", "zone one"}})
	require.Len(t, got, 1)
	assert.Equal(t, []string{"ZONE TWO", "ZONE ONE"}, got[0].KeyValues)

	assert.Empty(t, e.Expand(queryir.Query{Name: name, KeyValues: queryir.KeyValueList{"ZONE THREE"}}))
	assert.Empty(t, e.Expand(queryir.Query{Name: name, KeyValues: mustKeyPattern(t, "PLENUM.*")}))
}

func TestExpand_MissingNameIsEmptyNotError(t *testing.T) {
	e := newEngine(t, zoneTemps(t).Store)
	got := e.Expand(queryir.Query{Name: queryir.Name("Gas:Facility")})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
