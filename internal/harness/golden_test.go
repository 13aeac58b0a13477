package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_HourlyMeter(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/hourly_meter.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestMarshalSnapshot(t *testing.T) {
	data, err := marshalSnapshot(TraceSnapshot{
		ScenarioName: "empty",
		Pass:         true,
		Trace:        []TraceEvent{{Type: EventQuery, Query: "env=* freq=* name=* keys=*", Seq: 1}},
	})
	require.NoError(t, err)

	want := `{
  "scenario_name": "empty",
  "pass": true,
  "trace": [
    {
      "type": "query",
      "query": "env=* freq=* name=* keys=*",
      "seq": 1
    }
  ]
}
`
	assert.Equal(t, want, string(data))
}
