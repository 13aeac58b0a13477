package queryir

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/epsql/internal/ir"
)

// QuerySpec is the decoded form of one query in a query file. At most one
// of Environment and EnvironmentType, of Name and NamePattern, and of
// KeyValues and KeyValuePattern may be set.
type QuerySpec struct {
	Environment     string   `yaml:"environment,omitempty" json:"environment,omitempty"`
	EnvironmentType string   `yaml:"environment_type,omitempty" json:"environment_type,omitempty"`
	Frequency       string   `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	Name            string   `yaml:"name,omitempty" json:"name,omitempty"`
	NamePattern     string   `yaml:"name_pattern,omitempty" json:"name_pattern,omitempty"`
	KeyValues       []string `yaml:"key_values,omitempty" json:"key_values,omitempty"`
	KeyValuePattern string   `yaml:"key_value_pattern,omitempty" json:"key_value_pattern,omitempty"`
}

// QueryFile is the top level of a query file.
type QueryFile struct {
	Queries []QuerySpec `yaml:"queries" json:"queries"`
}

// Validate reports every problem with the spec at once.
func (s QuerySpec) Validate() error {
	var errs []error

	if s.Environment != "" && s.EnvironmentType != "" {
		errs = append(errs, errors.New("environment and environment_type are mutually exclusive"))
	}
	if s.EnvironmentType != "" {
		if _, ok := ir.ParseEnvironmentType(s.EnvironmentType); !ok {
			errs = append(errs, fmt.Errorf("unknown environment_type %q", s.EnvironmentType))
		}
	}
	if s.Frequency != "" {
		if _, ok := ir.ParseReportingFrequency(s.Frequency); !ok {
			errs = append(errs, fmt.Errorf("unknown frequency %q", s.Frequency))
		}
	}
	if s.Name != "" && s.NamePattern != "" {
		errs = append(errs, errors.New("name and name_pattern are mutually exclusive"))
	}
	if s.NamePattern != "" {
		if _, err := CompilePattern(s.NamePattern); err != nil {
			errs = append(errs, fmt.Errorf("name_pattern: %w", err))
		}
	}
	if len(s.KeyValues) > 0 && s.KeyValuePattern != "" {
		errs = append(errs, errors.New("key_values and key_value_pattern are mutually exclusive"))
	}
	for i, kv := range s.KeyValues {
		if strings.TrimSpace(kv) == "" {
			errs = append(errs, fmt.Errorf("key_values[%d] is empty", i))
		}
	}
	if s.KeyValuePattern != "" {
		if _, err := CompilePattern(s.KeyValuePattern); err != nil {
			errs = append(errs, fmt.Errorf("key_value_pattern: %w", err))
		}
	}

	return errors.Join(errs...)
}

// ToQuery validates the spec and builds the Query it describes.
func (s QuerySpec) ToQuery() (Query, error) {
	if err := s.Validate(); err != nil {
		return Query{}, err
	}

	var q Query
	switch {
	case s.Environment != "":
		q.Environment = EnvironmentName(s.Environment)
	case s.EnvironmentType != "":
		t, _ := ir.ParseEnvironmentType(s.EnvironmentType)
		q.Environment = EnvironmentOfType{Type: t}
	}

	q.Frequency = s.Frequency

	switch {
	case s.Name != "":
		q.Name = Name(s.Name)
	case s.NamePattern != "":
		p, err := NewNamePattern(s.NamePattern)
		if err != nil {
			return Query{}, err
		}
		q.Name = p
	}

	switch {
	case len(s.KeyValues) > 0:
		q.KeyValues = KeyValueList(append([]string(nil), s.KeyValues...))
	case s.KeyValuePattern != "":
		p, err := NewKeyValuePattern(s.KeyValuePattern)
		if err != nil {
			return Query{}, err
		}
		q.KeyValues = p
	}

	return q, nil
}

// ToQueries converts every spec in the file. Errors carry the query's
// position.
func (f QueryFile) ToQueries() ([]Query, error) {
	out := make([]Query, 0, len(f.Queries))
	var errs []error
	for i, spec := range f.Queries {
		q, err := spec.ToQuery()
		if err != nil {
			errs = append(errs, fmt.Errorf("queries[%d]: %w", i, err))
			continue
		}
		out = append(out, q)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
