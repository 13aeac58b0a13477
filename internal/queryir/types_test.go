package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/epsql/internal/ir"
)

func TestPatternsMatchWholeValue(t *testing.T) {
	p, err := NewNamePattern("Electricity:.*")
	require.NoError(t, err)

	assert.True(t, p.Matches("Electricity:Facility"))
	assert.True(t, p.Matches("Electricity:Building"))
	assert.False(t, p.Matches("InteriorLights:Electricity:Facility"))
	assert.Equal(t, "/Electricity:.*/", p.String())

	k, err := NewKeyValuePattern("ZONE [12]")
	require.NoError(t, err)
	assert.True(t, k.Matches("ZONE 1"))
	assert.False(t, k.Matches("ZONE 10"))
}

func TestPatternAlternationIsAnchored(t *testing.T) {
	p, err := NewNamePattern("a|b")
	require.NoError(t, err)

	assert.True(t, p.Matches("a"))
	assert.True(t, p.Matches("b"))
	assert.False(t, p.Matches("ab"))
	assert.False(t, p.Matches("xa"))
}

func TestNilPatternMatchesNothing(t *testing.T) {
	assert.False(t, NamePattern{}.Matches(""))
	assert.False(t, KeyValuePattern{}.Matches("x"))
	assert.Equal(t, "/<nil>/", NamePattern{}.String())
}

func TestCompilePatternError(t *testing.T) {
	_, err := CompilePattern("(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `compile pattern "("`)
}

func TestQueryString(t *testing.T) {
	assert.Equal(t, "env=* freq=* name=* keys=*", Query{}.String())

	p, err := NewKeyValuePattern(".*")
	require.NoError(t, err)
	q := Query{
		Environment: EnvironmentOfType{Type: ir.DesignDay},
		Frequency:   "Hourly",
		Name:        Name("Electricity:Facility"),
		KeyValues:   p,
	}
	assert.Equal(t, "env=type:DesignDay freq=Hourly name=Electricity:Facility keys=/.*/", q.String())

	q.Environment = EnvironmentName("RUN PERIOD 1")
	q.KeyValues = KeyValueList{"ZONE 1", "ZONE 2"}
	assert.Equal(t, "env=RUN PERIOD 1 freq=Hourly name=Electricity:Facility keys=[ZONE 1, ZONE 2]", q.String())
}
