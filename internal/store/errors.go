package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes store failures.
type ErrorCode string

const (
	// ErrCodeConnectionFatal indicates the file is missing, cannot be
	// opened, or is not a result file. The connection is unusable.
	ErrCodeConnectionFatal ErrorCode = "CONNECTION_FATAL"

	// ErrCodeStatementFatal indicates malformed SQL, a placeholder-count
	// mismatch, or an engine error while stepping a statement.
	ErrCodeStatementFatal ErrorCode = "STATEMENT_FATAL"
)

// Error is a hard failure surfaced to the caller. Soft misses (no rows, no
// matching series) are never reported as an Error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the failing operation ("open", "prepare", "exec", ...).
	Op string

	// Path is the result file path, when known.
	Path string

	// SQL is the statement text, for statement failures.
	SQL string

	// Step is the engine result code, or StepError when unknown.
	Step StepCode

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.SQL != "" {
		fmt.Fprintf(&b, " (sql=%q)", oneLine(e.SQL))
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func connectionError(op, path string, err error) *Error {
	return &Error{Code: ErrCodeConnectionFatal, Op: op, Path: path, Step: StepError, Err: err}
}

func statementError(op, query string, err error) *Error {
	return &Error{Code: ErrCodeStatementFatal, Op: op, SQL: query, Step: stepCodeFor(err), Err: err}
}

// IsConnectionError returns true if err is a connection-fatal store error.
// Uses errors.As to handle wrapped errors.
func IsConnectionError(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeConnectionFatal
	}
	return false
}

// IsStatementError returns true if err is a statement-fatal store error.
func IsStatementError(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeStatementFatal
	}
	return false
}

// StepCodeOf extracts the engine result code carried by err.
// Returns StepOK for a nil error and StepError when err carries no code.
func StepCodeOf(err error) StepCode {
	if err == nil {
		return StepOK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Step
	}
	return stepCodeFor(err)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
