package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/testutil"
)

func sampleDictionary() *Dictionary {
	envs := []Environment{
		{Index: 1, Name: "Chicago Winter Design Day", Type: ir.DesignDay},
		{Index: 2, Name: "Run Period 1", Type: ir.WeatherRunPeriod},
	}
	records := []Record{
		{Source: querysql.MeterSource, Index: 1, Name: "Electricity:Facility", Frequency: "Hourly", Units: "J"},
		{Source: querysql.MeterSource, Index: 2, Name: "Electricity:Facility", Frequency: "Run Period", Units: "J"},
		{Source: querysql.VariableSource, Index: 3, Name: "Zone Mean Air Temperature", KeyValue: "ZONE ONE", Frequency: "Hourly", Units: "C"},
		{Source: querysql.VariableSource, Index: 4, Name: "Zone Mean Air Temperature", KeyValue: "ZONE TWO", Frequency: "Hourly", Units: "C"},
		{Source: querysql.VariableSource, Index: 5, Name: " Zone Mean Air Temperature ", KeyValue: "ZONE THREE", Frequency: "Hourly", Units: "C"},
	}
	return New(envs, records, testutil.QuietLogger())
}

func TestNew_CrossesRecordsWithEnvironments(t *testing.T) {
	d := sampleDictionary()
	assert.Equal(t, 10, d.Len())

	for i, e := range d.Entries() {
		assert.Equal(t, EntryID(i), e.ID)
	}

	// The same series in two periods stays two entries.
	a, ok := d.Lookup("CHICAGO WINTER DESIGN DAY", "Hourly", "Electricity:Facility", "")
	require.True(t, ok)
	b, ok := d.Lookup("RUN PERIOD 1", "Hourly", "Electricity:Facility", "")
	require.True(t, ok)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.RecordIndex, b.RecordIndex)
	assert.Equal(t, 1, a.EnvIndex)
	assert.Equal(t, 2, b.EnvIndex)
	assert.True(t, a.IsMeter())
}

func TestLookup_EnvironmentIsUpperCasedOtherFieldsExact(t *testing.T) {
	d := sampleDictionary()

	e, ok := d.Lookup("run period 1", "Hourly", "Zone Mean Air Temperature", "ZONE ONE")
	require.True(t, ok)
	assert.Equal(t, "RUN PERIOD 1", e.Environment)
	assert.Equal(t, "C", e.Units)
	assert.False(t, e.IsMeter())

	_, ok = d.Lookup("RUN PERIOD 1", "hourly", "Zone Mean Air Temperature", "ZONE ONE")
	assert.False(t, ok)
	_, ok = d.Lookup("RUN PERIOD 1", "Hourly", "zone mean air temperature", "ZONE ONE")
	assert.False(t, ok)
	_, ok = d.Lookup("RUN PERIOD 1", "Hourly", "Zone Mean Air Temperature", "zone one")
	assert.False(t, ok)
}

func TestLookup_StoredNamesAreTrimmed(t *testing.T) {
	d := sampleDictionary()
	e, ok := d.Lookup("RUN PERIOD 1", "Hourly", "Zone Mean Air Temperature", "ZONE THREE")
	require.True(t, ok)
	assert.Equal(t, "Zone Mean Air Temperature", e.Name)
}

func TestLookupRecord(t *testing.T) {
	d := sampleDictionary()
	e, ok := d.LookupRecord(querysql.VariableSource, 4, 2)
	require.True(t, ok)
	assert.Equal(t, "ZONE TWO", e.KeyValue)

	_, ok = d.LookupRecord(querysql.MeterSource, 4, 2)
	assert.False(t, ok)
}

func TestAvailable_DistinctAndIdempotent(t *testing.T) {
	d := sampleDictionary()

	for i := 0; i < 2; i++ {
		assert.Equal(t, []string{"CHICAGO WINTER DESIGN DAY", "RUN PERIOD 1"}, d.AvailableEnvironments())
		assert.Equal(t, []string{"Hourly", "Run Period"}, d.AvailableFrequencies("Run Period 1"))
		assert.Equal(t, []string{"Electricity:Facility", "Zone Mean Air Temperature"}, d.AvailableNames("RUN PERIOD 1", "Hourly"))
		assert.Equal(t, []string{"Electricity:Facility"}, d.AvailableNames("RUN PERIOD 1", "Run Period"))
		assert.Equal(t, []string{"ZONE ONE", "ZONE TWO", "ZONE THREE"},
			d.AvailableKeyValues("RUN PERIOD 1", "Hourly", "Zone Mean Air Temperature"))
		assert.Equal(t, []string{"Electricity:Facility", "Zone Mean Air Temperature"}, d.AvailableTimeSeries())
	}
}

func TestAvailable_UnknownReturnsEmpty(t *testing.T) {
	d := sampleDictionary()
	assert.Empty(t, d.AvailableFrequencies("NOWHERE"))
	assert.NotNil(t, d.AvailableFrequencies("NOWHERE"))
	assert.Empty(t, d.AvailableNames("RUN PERIOD 1", "Monthly"))
	assert.Empty(t, d.AvailableKeyValues("RUN PERIOD 1", "Hourly", "Nope"))
}

func TestEnvironments(t *testing.T) {
	d := sampleDictionary()

	idx, ok := d.EnvironmentIndex("run period 1")
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	typ, ok := d.EnvironmentType("Chicago Winter Design Day")
	require.True(t, ok)
	assert.Equal(t, ir.DesignDay, typ)

	_, ok = d.EnvironmentIndex("nowhere")
	assert.False(t, ok)

	assert.Equal(t, []string{"RUN PERIOD 1"}, d.EnvironmentsOfType(ir.WeatherRunPeriod))
	assert.Empty(t, d.EnvironmentsOfType(ir.DesignRunPeriod))
	assert.Len(t, d.Environments(), 2)
}

func TestSecondaryIndices(t *testing.T) {
	d := sampleDictionary()

	assert.Len(t, d.EntriesByName("Zone Mean Air Temperature"), 6)
	assert.Len(t, d.EntriesByKeyValue("ZONE ONE"), 2)
	assert.Len(t, d.EntriesByFrequency("Run Period"), 2)
	assert.Len(t, d.EntriesByEnvironment("run period 1"), 5)
	assert.Empty(t, d.EntriesByName("missing"))
}

func TestNew_DuplicatesKeepFirst(t *testing.T) {
	envs := []Environment{
		{Index: 1, Name: "RUN PERIOD 1", Type: ir.WeatherRunPeriod},
		{Index: 2, Name: "run period 1", Type: ir.WeatherRunPeriod},
	}
	records := []Record{
		{Source: querysql.MeterSource, Index: 1, Name: "Gas:Facility", Frequency: "Hourly"},
		{Source: querysql.MeterSource, Index: 2, Name: "Gas:Facility", Frequency: "Hourly"},
	}
	d := New(envs, records, testutil.QuietLogger())

	assert.Equal(t, 1, d.Len())
	e, ok := d.Lookup("RUN PERIOD 1", "Hourly", "Gas:Facility", "")
	require.True(t, ok)
	assert.Equal(t, 1, e.RecordIndex)
	assert.Equal(t, 1, e.EnvIndex)
}

func TestEntry(t *testing.T) {
	d := sampleDictionary()
	e, ok := d.Entry(0)
	require.True(t, ok)
	assert.Equal(t, "CHICAGO WINTER DESIGN DAY/Hourly/Electricity:Facility/", e.String())

	_, ok = d.Entry(-1)
	assert.False(t, ok)
	_, ok = d.Entry(EntryID(d.Len()))
	assert.False(t, ok)
}
