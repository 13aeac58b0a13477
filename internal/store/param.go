package store

import (
	"fmt"
	"strconv"
)

// StepCode is the SQLite result code of a statement step.
type StepCode int

// Result codes callers branch on. Values match sqlite3.h.
const (
	StepOK         StepCode = 0
	StepError      StepCode = 1
	StepBusy       StepCode = 5
	StepLocked     StepCode = 6
	StepConstraint StepCode = 19
	StepRow        StepCode = 100
	StepDone       StepCode = 101
)

func (c StepCode) String() string {
	switch c {
	case StepOK:
		return "OK"
	case StepError:
		return "ERROR"
	case StepBusy:
		return "BUSY"
	case StepLocked:
		return "LOCKED"
	case StepConstraint:
		return "CONSTRAINT"
	case StepRow:
		return "ROW"
	case StepDone:
		return "DONE"
	}
	return "SQLITE_" + strconv.Itoa(int(c))
}

// ParamKind identifies the variant held by a Param.
type ParamKind int

const (
	ParamNull ParamKind = iota
	ParamInt
	ParamFloat
	ParamText
)

// Param is one typed bind value.
type Param struct {
	kind ParamKind
	i    int64
	f    float64
	s    string
}

// Int binds an integer.
func Int(v int) Param { return Param{kind: ParamInt, i: int64(v)} }

// Int64 binds an integer.
func Int64(v int64) Param { return Param{kind: ParamInt, i: v} }

// Float binds a double.
func Float(v float64) Param { return Param{kind: ParamFloat, f: v} }

// Text binds a string.
func Text(v string) Param { return Param{kind: ParamText, s: v} }

// Null binds SQL NULL.
func Null() Param { return Param{} }

// Bool binds 1 or 0.
func Bool(v bool) Param {
	if v {
		return Int(1)
	}
	return Int(0)
}

// Kind returns the variant.
func (p Param) Kind() ParamKind {
	return p.kind
}

// Value returns the driver value for the variant.
func (p Param) Value() any {
	switch p.kind {
	case ParamInt:
		return p.i
	case ParamFloat:
		return p.f
	case ParamText:
		return p.s
	}
	return nil
}

func (p Param) String() string {
	switch p.kind {
	case ParamInt:
		return strconv.FormatInt(p.i, 10)
	case ParamFloat:
		return strconv.FormatFloat(p.f, 'g', -1, 64)
	case ParamText:
		return strconv.Quote(p.s)
	}
	return "NULL"
}

func bindArgs(params []Param) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Value()
	}
	return args
}

// Texts binds each string in order.
func Texts(vs ...string) []Param {
	out := make([]Param, len(vs))
	for i, v := range vs {
		out[i] = Text(v)
	}
	return out
}

func formatParams(params []Param) string {
	return fmt.Sprint(params)
}
