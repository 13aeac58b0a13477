package queryir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/epsql/internal/ir"
)

// Query is a possibly partial time-series request. The zero Query asks for
// every series in the file.
type Query struct {
	// Environment selects environment periods. Nil means all.
	Environment Environment

	// Frequency is a reporting frequency label. Empty means all.
	Frequency string

	// Name selects series names. Nil means all.
	Name SeriesName

	// KeyValues selects key values. Nil means all.
	KeyValues KeyValues
}

// Environment identifies environment periods.
type Environment interface {
	environmentNode()
	String() string
}

// EnvironmentName selects one environment period by name.
type EnvironmentName string

func (EnvironmentName) environmentNode() {}

func (e EnvironmentName) String() string { return string(e) }

// EnvironmentOfType selects every environment period of a type.
type EnvironmentOfType struct {
	Type ir.EnvironmentType
}

func (EnvironmentOfType) environmentNode() {}

func (e EnvironmentOfType) String() string { return "type:" + e.Type.String() }

// SeriesName identifies series names.
type SeriesName interface {
	nameNode()
	String() string
}

// Name selects one series name.
type Name string

func (Name) nameNode() {}

func (n Name) String() string { return string(n) }

// NamePattern selects every series name the expression fully matches.
type NamePattern struct {
	Regexp *regexp.Regexp
}

func (NamePattern) nameNode() {}

func (n NamePattern) String() string { return patternString(n.Regexp) }

// Matches reports whether s is selected.
func (n NamePattern) Matches(s string) bool {
	return n.Regexp != nil && n.Regexp.MatchString(s)
}

// KeyValues identifies key values.
type KeyValues interface {
	keyValuesNode()
	String() string
}

// KeyValueList selects the listed key values, ignoring case.
type KeyValueList []string

func (KeyValueList) keyValuesNode() {}

func (k KeyValueList) String() string { return "[" + strings.Join(k, ", ") + "]" }

// KeyValuePattern selects every key value the expression fully matches.
type KeyValuePattern struct {
	Regexp *regexp.Regexp
}

func (KeyValuePattern) keyValuesNode() {}

func (k KeyValuePattern) String() string { return patternString(k.Regexp) }

// Matches reports whether s is selected.
func (k KeyValuePattern) Matches(s string) bool {
	return k.Regexp != nil && k.Regexp.MatchString(s)
}

// CompilePattern compiles expr so that it must match a whole value.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	return re, nil
}

// NewNamePattern compiles a full-match name pattern.
func NewNamePattern(expr string) (NamePattern, error) {
	re, err := CompilePattern(expr)
	if err != nil {
		return NamePattern{}, err
	}
	return NamePattern{Regexp: re}, nil
}

// NewKeyValuePattern compiles a full-match key value pattern.
func NewKeyValuePattern(expr string) (KeyValuePattern, error) {
	re, err := CompilePattern(expr)
	if err != nil {
		return KeyValuePattern{}, err
	}
	return KeyValuePattern{Regexp: re}, nil
}

func patternString(re *regexp.Regexp) string {
	if re == nil {
		return "/<nil>/"
	}
	s := strings.TrimSuffix(strings.TrimPrefix(re.String(), "^(?:"), ")$")
	return "/" + s + "/"
}

// String renders the query for logs.
func (q Query) String() string {
	parts := make([]string, 0, 4)
	parts = append(parts, "env="+stringOrAll(q.Environment))
	freq := q.Frequency
	if freq == "" {
		freq = "*"
	}
	parts = append(parts, "freq="+freq)
	parts = append(parts, "name="+stringOrAll(q.Name))
	parts = append(parts, "keys="+stringOrAll(q.KeyValues))
	return strings.Join(parts, " ")
}

func stringOrAll(v fmt.Stringer) string {
	if v == nil {
		return "*"
	}
	return v.String()
}
