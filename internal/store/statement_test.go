package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertZoneName = "INSERT INTO Zones (ZoneIndex, ZoneName) VALUES (?, ?)"

func TestPrepare_PlaceholderMismatch(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Prepare(context.Background(), insertZoneName, Int(1))
	require.Error(t, err)
	assert.True(t, IsStatementError(err))
	assert.False(t, IsConnectionError(err))
	assert.Equal(t, StepError, StepCodeOf(err))
	assert.Contains(t, err.Error(), "2 placeholders, got 1 parameters")
}

func TestPrepare_MalformedSQL(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Prepare(context.Background(), "SELEC ZoneName FROM Zones")
	require.Error(t, err)
	assert.True(t, IsStatementError(err))
	assert.Equal(t, StepError, StepCodeOf(err))

	_, err = s.PrepareTx(context.Background(), "SELECT NoSuchColumn FROM Zones")
	require.Error(t, err)
	assert.True(t, IsStatementError(err))
}

func TestPrepare_RemembersPlaceholderCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Prepare(ctx, insertZoneName, Int(1), Text("CORE"))
	require.NoError(t, err)
	require.NoError(t, first.Close())
	n, ok := s.knownInputs(insertZoneName)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	root, err := s.PrepareTx(ctx, "SELECT COUNT(*) FROM Zones")
	require.NoError(t, err)
	defer root.Close()

	// A known text needs no connection while the root pins it.
	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	st, err := s.Prepare(waitCtx, insertZoneName, Int(2), Text("PERIMETER"))
	require.NoError(t, err)
	assert.Equal(t, 2, st.NumInput())
	require.NoError(t, st.Close())

	// A new text waits for the connection until the context ends.
	shortCtx, cancelShort := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancelShort()
	_, err = s.Prepare(shortCtx, "SELECT ZoneName FROM Zones")
	require.Error(t, err)
	assert.True(t, IsStatementError(err))
}

func TestStatement_Rebind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	st, err := s.Prepare(ctx, insertZoneName, Int(1), Text("CORE"))
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, 2, st.NumInput())

	code, err := st.Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepDone, code)

	require.NoError(t, st.Rebind(Int(2), Text("PERIMETER")))
	_, err = st.Exec(ctx)
	require.NoError(t, err)

	err = st.Rebind(Int(3))
	require.Error(t, err)
	assert.True(t, IsStatementError(err))

	assert.Equal(t, 2, countRows(t, s, "Zones"))
}

func TestStatement_ConstraintStepCode(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	st, err := s.Prepare(ctx, insertZoneName, Int(1), Text("CORE"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Exec(ctx)
	require.NoError(t, err)

	code, err := st.Exec(ctx)
	require.Error(t, err)
	assert.Equal(t, StepConstraint, code)
	assert.Equal(t, StepConstraint, StepCodeOf(err))
	assert.Equal(t, "CONSTRAINT", code.String())
}

func TestStatement_ScalarExtraction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(`INSERT INTO Zones (ZoneIndex, ZoneName, Volume) VALUES
		(1, 'CORE', 250.5), (2, '  42 ', NULL), (3, 'n/a', 12)`)
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   string
		params  []Param
		wantInt int
		intOK   bool
		wantF   float64
		floatOK bool
		wantS   string
		strOK   bool
	}{
		{"real", "SELECT Volume FROM Zones WHERE ZoneIndex = ?", []Param{Int(1)}, 250, true, 250.5, true, "250.5", true},
		{"null", "SELECT Volume FROM Zones WHERE ZoneIndex = ?", []Param{Int(2)}, 0, false, 0, false, "", false},
		{"no row", "SELECT Volume FROM Zones WHERE ZoneIndex = ?", []Param{Int(9)}, 0, false, 0, false, "", false},
		{"numeric text", "SELECT ZoneName FROM Zones WHERE ZoneIndex = ?", []Param{Int(2)}, 42, true, 42, true, "  42 ", true},
		{"garbage text", "SELECT ZoneName FROM Zones WHERE ZoneIndex = ?", []Param{Int(3)}, 0, false, 0, false, "n/a", true},
		{"text param", "SELECT ZoneIndex FROM Zones WHERE ZoneName = ?", []Param{Text("CORE")}, 1, true, 1, true, "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := s.Prepare(ctx, tt.query, tt.params...)
			require.NoError(t, err)
			defer st.Close()

			i, ok, err := st.FirstInt(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.intOK, ok)
			assert.Equal(t, tt.wantInt, i)

			f, ok, err := st.FirstFloat(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.floatOK, ok)
			assert.InDelta(t, tt.wantF, f, 1e-9)

			str, ok, err := st.FirstString(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.strOK, ok)
			assert.Equal(t, tt.wantS, str)
		})
	}
}

func TestStatement_VectorExtraction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(`INSERT INTO Zones (ZoneIndex, ZoneName, Volume) VALUES
		(1, 'CORE', 10), (2, 'PERIMETER', NULL), (3, 'PLENUM', 30.5)`)
	require.NoError(t, err)

	st, err := s.Prepare(ctx, "SELECT Volume FROM Zones ORDER BY ZoneIndex")
	require.NoError(t, err)
	defer st.Close()

	floats, err := st.Floats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 30.5}, floats)

	ints, err := st.Ints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 30}, ints)

	names, err := s.Prepare(ctx, "SELECT ZoneName FROM Zones WHERE ZoneIndex > ? ORDER BY ZoneIndex", Int(1))
	require.NoError(t, err)
	defer names.Close()

	strs, err := names.Strings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PERIMETER", "PLENUM"}, strs)

	empty, err := s.Prepare(ctx, "SELECT ZoneName FROM Zones WHERE ZoneIndex > 99")
	require.NoError(t, err)
	defer empty.Close()

	none, err := empty.Strings(ctx)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPrepareTx_CommitsOnClose(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	root, err := s.PrepareTx(ctx, insertZoneName, Int(1), Text("CORE"))
	require.NoError(t, err)
	_, err = root.Exec(ctx)
	require.NoError(t, err)

	child, err := root.Prepare(ctx, insertZoneName, Int(2), Text("PERIMETER"))
	require.NoError(t, err)
	_, err = child.Exec(ctx)
	require.NoError(t, err)

	// The child sees the root's uncommitted row.
	count, err := root.Prepare(ctx, "SELECT COUNT(*) FROM Zones")
	require.NoError(t, err)
	n, ok, err := count.FirstInt(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	require.NoError(t, count.Close())
	require.NoError(t, child.Close())
	require.NoError(t, root.Close())

	assert.Equal(t, 2, countRows(t, s, "Zones"))
}

func TestPrepareTx_RollbackOnClose(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	root, err := s.PrepareTx(ctx, insertZoneName, Int(1), Text("CORE"))
	require.NoError(t, err)
	_, err = root.Exec(ctx)
	require.NoError(t, err)

	child, err := root.Prepare(ctx, insertZoneName, Int(2), Text("PERIMETER"))
	require.NoError(t, err)
	_, err = child.Exec(ctx)
	require.NoError(t, err)

	child.Rollback()
	require.NoError(t, child.Close())
	require.NoError(t, root.Close())

	assert.Equal(t, 0, countRows(t, s, "Zones"))
}

func TestStatement_CloseIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	root, err := s.PrepareTx(ctx, insertZoneName, Int(1), Text("CORE"))
	require.NoError(t, err)
	require.NoError(t, root.Close())
	require.NoError(t, root.Close())

	_, err = root.Exec(ctx)
	require.Error(t, err)
	assert.True(t, IsStatementError(err))

	_, err = root.Prepare(ctx, "SELECT 1")
	require.Error(t, err)

	// The connection was released.
	assert.Equal(t, 0, countRows(t, s, "Zones"))
}

func TestStatement_CountsCalls(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	st, err := s.Prepare(ctx, "SELECT COUNT(*) FROM Zones")
	require.NoError(t, err)
	defer st.Close()

	before := s.Calls()
	_, _, err = st.FirstInt(ctx)
	require.NoError(t, err)
	_, err = st.Ints(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+2, s.Calls())
}

func TestParam(t *testing.T) {
	tests := []struct {
		name  string
		param Param
		kind  ParamKind
		value any
		str   string
	}{
		{"int", Int(7), ParamInt, int64(7), "7"},
		{"int64", Int64(1 << 40), ParamInt, int64(1 << 40), "1099511627776"},
		{"float", Float(2.5), ParamFloat, 2.5, "2.5"},
		{"text", Text("Zone 1"), ParamText, "Zone 1", `"Zone 1"`},
		{"null", Null(), ParamNull, nil, "NULL"},
		{"bool", Bool(true), ParamInt, int64(1), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.param.Kind())
			assert.Equal(t, tt.value, tt.param.Value())
			assert.Equal(t, tt.str, tt.param.String())
		})
	}
}

func TestError_Message(t *testing.T) {
	err := statementError("exec", "SELECT\n  1", assert.AnError)
	assert.Equal(t, `STATEMENT_FATAL: exec: `+assert.AnError.Error()+` (sql="SELECT 1")`, err.Error())
	assert.ErrorIs(t, err, assert.AnError)

	cerr := connectionError("open", "/tmp/x.sql", assert.AnError)
	assert.True(t, IsConnectionError(cerr))
	assert.Contains(t, cerr.Error(), "CONNECTION_FATAL: open /tmp/x.sql")
}
