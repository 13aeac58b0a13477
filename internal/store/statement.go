package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Statement is a prepared SQL text with typed parameters.
//
// A root Statement created with PrepareTx pins the connection and begins a
// transaction; Close commits it (or rolls back after Rollback). Statements
// created from a root with Prepare share its transaction and must be closed
// before it. A Statement is not safe for concurrent use.
type Statement struct {
	store  *Store
	conn   *sql.Conn
	tx     *sql.Tx
	root   *Statement
	query  string
	params []Param
	nInput int
	stmt   *sql.Stmt

	rollback bool
	closed   bool
}

// preparer is satisfied by *sql.DB and *sql.Tx.
type preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Prepare creates a statement outside any transaction. The placeholder
// count of query must equal len(params).
//
// The first Prepare of a SQL text counts its placeholders on a pooled
// connection. The pool holds one connection, so while a PrepareTx root is
// open a new text blocks until ctx ends; prepare through the root instead.
func (s *Store) Prepare(ctx context.Context, query string, params ...Param) (*Statement, error) {
	n, ok := s.knownInputs(query)
	if !ok {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			return nil, statementError("acquire connection", query, err)
		}
		defer conn.Close()

		if n, err = s.countPlaceholders(ctx, conn, query); err != nil {
			return nil, err
		}
	}
	st := &Statement{store: s, query: query, nInput: n}
	if err := st.Rebind(params...); err != nil {
		return nil, err
	}
	return st, nil
}

// PrepareTx creates a statement that begins a transaction. The transaction
// ends when the Statement is closed, and is rolled back if ctx is canceled
// first.
//
// The root pins the pool's only connection until it is closed. Statements
// for the same transaction come from the root's Prepare; Store.Prepare of
// a text not seen before waits for the root to close.
func (s *Store) PrepareTx(ctx context.Context, query string, params ...Param) (*Statement, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, statementError("acquire connection", query, err)
	}

	n, err := s.countPlaceholders(ctx, conn, query)
	if err != nil {
		conn.Close()
		return nil, err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		conn.Close()
		return nil, statementError("begin", query, err)
	}

	st := &Statement{store: s, conn: conn, tx: tx, query: query, nInput: n}
	if err := st.Rebind(params...); err != nil {
		st.rollback = true
		st.Close()
		return nil, err
	}
	return st, nil
}

// Prepare creates a statement in the same transaction as s. Statements
// outside a transaction return an independent statement.
func (s *Statement) Prepare(ctx context.Context, query string, params ...Param) (*Statement, error) {
	root := s.rootStatement()
	if root.closed {
		return nil, statementError("prepare", query, errors.New("parent statement is closed"))
	}
	if root.tx == nil {
		return root.store.Prepare(ctx, query, params...)
	}

	n, err := root.store.countPlaceholders(ctx, root.conn, query)
	if err != nil {
		return nil, err
	}
	st := &Statement{store: root.store, conn: root.conn, tx: root.tx, root: root, query: query, nInput: n}
	if err := st.Rebind(params...); err != nil {
		return nil, err
	}
	return st, nil
}

// knownInputs returns the remembered placeholder count of query.
func (s *Store) knownInputs(query string) (int, bool) {
	v, ok := s.inputs.Load(query)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// countPlaceholders returns the parameter count of query, preparing it on
// the raw driver connection the first time the text is seen.
func (s *Store) countPlaceholders(ctx context.Context, conn *sql.Conn, query string) (int, error) {
	if n, ok := s.knownInputs(query); ok {
		return n, nil
	}
	n, err := rawInputs(ctx, conn, query)
	if err != nil {
		return 0, err
	}
	s.inputs.Store(query, n)
	return n, nil
}

func rawInputs(ctx context.Context, conn *sql.Conn, query string) (int, error) {
	var n int
	err := conn.Raw(func(dc any) error {
		c, ok := dc.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", dc)
		}
		var st driver.Stmt
		var err error
		if cc, ok := dc.(driver.ConnPrepareContext); ok {
			st, err = cc.PrepareContext(ctx, query)
		} else {
			st, err = c.Prepare(query)
		}
		if err != nil {
			return err
		}
		defer st.Close()
		n = st.NumInput()
		return nil
	})
	if err != nil {
		return 0, statementError("prepare", query, err)
	}
	return n, nil
}

// Query returns the SQL text.
func (s *Statement) Query() string {
	return s.query
}

// NumInput returns the number of placeholders in the SQL text.
func (s *Statement) NumInput() int {
	return s.nInput
}

// Rebind replaces the bound parameters. The count must match the
// placeholder count.
func (s *Statement) Rebind(params ...Param) error {
	if len(params) != s.nInput {
		return statementError("bind", s.query,
			fmt.Errorf("statement has %d placeholders, got %d parameters", s.nInput, len(params)))
	}
	s.params = append(s.params[:0], params...)
	return nil
}

// Rollback marks the enclosing transaction to be rolled back on Close.
func (s *Statement) Rollback() {
	s.rootStatement().rollback = true
}

func (s *Statement) rootStatement() *Statement {
	if s.root != nil {
		return s.root
	}
	return s
}

func (s *Statement) prepared(ctx context.Context) (*sql.Stmt, error) {
	if s.closed {
		return nil, statementError("exec", s.query, errors.New("statement is closed"))
	}
	if s.stmt != nil {
		return s.stmt, nil
	}
	var p preparer = s.store.db
	if s.tx != nil {
		p = s.tx
	}
	st, err := p.PrepareContext(ctx, s.query)
	if err != nil {
		return nil, statementError("prepare", s.query, err)
	}
	s.stmt = st
	return st, nil
}

// Exec runs the statement for its side effects and returns StepDone on
// success. On failure the engine's result code is returned alongside the
// error, so callers can tell a constraint violation from a busy file.
func (s *Statement) Exec(ctx context.Context) (StepCode, error) {
	st, err := s.prepared(ctx)
	if err != nil {
		return StepCodeOf(err), err
	}
	s.store.calls.Add(1)
	if _, err := st.ExecContext(ctx, bindArgs(s.params)...); err != nil {
		se := statementError("exec", s.query, err)
		return se.Step, se
	}
	return StepDone, nil
}

// Each runs the statement and calls fn for every row. The rows are closed
// before Each returns; fn must not issue other statements.
func (s *Statement) Each(ctx context.Context, fn func(*sql.Rows) error) error {
	st, err := s.prepared(ctx)
	if err != nil {
		return err
	}
	s.store.calls.Add(1)
	rows, err := st.QueryContext(ctx, bindArgs(s.params)...)
	if err != nil {
		return statementError("query", s.query, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return statementError("step", s.query, err)
	}
	return nil
}

// errStopRows ends an Each loop early without reporting a failure.
var errStopRows = errors.New("stop rows")

// first returns the first column of the first row, or nil.
func (s *Statement) first(ctx context.Context) (any, error) {
	var v any
	err := s.Each(ctx, func(rows *sql.Rows) error {
		if err := rows.Scan(&v); err != nil {
			return statementError("scan", s.query, err)
		}
		return errStopRows
	})
	if errors.Is(err, errStopRows) {
		err = nil
	}
	return v, err
}

// column returns the first column of every row.
func (s *Statement) column(ctx context.Context) ([]any, error) {
	out := []any{}
	err := s.Each(ctx, func(rows *sql.Rows) error {
		var v any
		if err := rows.Scan(&v); err != nil {
			return statementError("scan", s.query, err)
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// FirstInt returns the first column of the first row as an integer.
// ok is false when there is no row, the value is NULL, or it is text that
// is not a number.
func (s *Statement) FirstInt(ctx context.Context) (v int, ok bool, err error) {
	raw, err := s.first(ctx)
	if err != nil {
		return 0, false, err
	}
	v, ok = asInt(raw)
	return v, ok, nil
}

// FirstFloat returns the first column of the first row as a double.
func (s *Statement) FirstFloat(ctx context.Context) (v float64, ok bool, err error) {
	raw, err := s.first(ctx)
	if err != nil {
		return 0, false, err
	}
	v, ok = asFloat(raw)
	return v, ok, nil
}

// FirstString returns the first column of the first row as text.
func (s *Statement) FirstString(ctx context.Context) (v string, ok bool, err error) {
	raw, err := s.first(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok = asString(raw)
	return v, ok, nil
}

// Ints returns the first column of every row. NULLs are skipped.
func (s *Statement) Ints(ctx context.Context) ([]int, error) {
	raw, err := s.column(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(raw))
	for _, r := range raw {
		if v, ok := asInt(r); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Floats returns the first column of every row. NULLs are skipped.
func (s *Statement) Floats(ctx context.Context) ([]float64, error) {
	raw, err := s.column(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		if v, ok := asFloat(r); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Strings returns the first column of every row. NULLs are skipped.
func (s *Statement) Strings(ctx context.Context) ([]string, error) {
	raw, err := s.column(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if v, ok := asString(r); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Close releases the statement. A root transaction-scoped statement
// commits, or rolls back when marked, and releases the connection. If the
// commit fails the transaction is rolled back before the error is returned.
// Close is idempotent.
func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.stmt != nil {
		errs = append(errs, s.stmt.Close())
	}
	if s.root != nil {
		return errors.Join(errs...)
	}

	if s.tx != nil {
		if s.rollback {
			if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				errs = append(errs, statementError("rollback", s.query, err))
			}
		} else if err := s.tx.Commit(); err != nil {
			errs = append(errs, statementError("commit", s.query, err))
			// A failed COMMIT can leave SQLite inside the transaction.
			_, _ = s.conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
	}
	return errors.Join(errs...)
}

func (s *Statement) String() string {
	return fmt.Sprintf("%s %s", oneLine(s.query), formatParams(s.params))
}

func asInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	}
	return 0, false
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		return int(f), true
	}
	return 0, false
}

func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func asString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	return "", false
}

func stepCodeFor(err error) StepCode {
	if err == nil {
		return StepOK
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		// Primary result code; extended codes carry detail in the high bits.
		return StepCode(int(se.Code) & 0xff)
	}
	return StepError
}
