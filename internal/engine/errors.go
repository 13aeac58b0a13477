package engine

import (
	"errors"
	"fmt"
)

// QueryError represents a query that cannot be executed.
type QueryError struct {
	// Code identifies the error category.
	Code QueryErrorCode

	// Message is a human-readable description.
	Message string

	// Query is the rendered query, when known.
	Query string
}

// QueryErrorCode categorizes query errors.
type QueryErrorCode string

const (
	// ErrCodeNotVetted indicates a ResolvedQuery that Expand did not produce.
	ErrCodeNotVetted QueryErrorCode = "NOT_VETTED"
)

// ErrNotVetted is returned when an unvetted ResolvedQuery is executed.
var ErrNotVetted = &QueryError{
	Code:    ErrCodeNotVetted,
	Message: "resolved query was not produced by expansion",
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("%s: %s (query=%s)", e.Code, e.Message, e.Query)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any QueryError with the same code, so errors.Is(err,
// ErrNotVetted) holds for copies carrying a query.
func (e *QueryError) Is(target error) bool {
	t, ok := target.(*QueryError)
	return ok && e.Code == t.Code
}

// IsNotVetted returns true if the error is an unvetted query error.
// Uses errors.As to handle wrapped errors.
func IsNotVetted(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeNotVetted
	}
	return false
}

func notVetted(rq ResolvedQuery) *QueryError {
	return &QueryError{
		Code:    ErrCodeNotVetted,
		Message: ErrNotVetted.Message,
		Query:   rq.String(),
	}
}
