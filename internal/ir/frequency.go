package ir

import (
	"fmt"
	"strings"
)

// ReportingFrequency is the sampling cadence a series was recorded under.
type ReportingFrequency int

const (
	Detailed ReportingFrequency = iota + 1
	Timestep
	Hourly
	Daily
	Monthly
	RunPeriod
	Annual
)

// frequencyInfo pairs the short name with the label stored in result files.
type frequencyInfo struct {
	name  string
	label string
}

var frequencies = map[ReportingFrequency]frequencyInfo{
	Detailed:  {name: "Detailed", label: "HVAC System Timestep"},
	Timestep:  {name: "Timestep", label: "Zone Timestep"},
	Hourly:    {name: "Hourly", label: "Hourly"},
	Daily:     {name: "Daily", label: "Daily"},
	Monthly:   {name: "Monthly", label: "Monthly"},
	RunPeriod: {name: "RunPeriod", label: "Run Period"},
	Annual:    {name: "Annual", label: "Annual"},
}

// AllFrequencies lists every frequency in ascending cadence order.
func AllFrequencies() []ReportingFrequency {
	return []ReportingFrequency{Detailed, Timestep, Hourly, Daily, Monthly, RunPeriod, Annual}
}

// Name returns the short identifier (e.g. "RunPeriod").
func (f ReportingFrequency) Name() string {
	if info, ok := frequencies[f]; ok {
		return info.name
	}
	return ""
}

// Label returns the label result files store (e.g. "Run Period").
func (f ReportingFrequency) Label() string {
	if info, ok := frequencies[f]; ok {
		return info.label
	}
	return ""
}

func (f ReportingFrequency) String() string {
	return f.Label()
}

// MarshalText encodes f as its stored label.
func (f ReportingFrequency) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid reporting frequency %d", int(f))
	}
	return []byte(f.Label()), nil
}

// UnmarshalText accepts anything ParseReportingFrequency does.
func (f *ReportingFrequency) UnmarshalText(text []byte) error {
	v, ok := ParseReportingFrequency(string(text))
	if !ok {
		return fmt.Errorf("unknown reporting frequency %q", string(text))
	}
	*f = v
	return nil
}

// Valid reports whether f is one of the declared frequencies.
func (f ReportingFrequency) Valid() bool {
	_, ok := frequencies[f]
	return ok
}

// IsInterval reports whether series at this frequency are candidates for a
// single fixed sampling interval.
func (f ReportingFrequency) IsInterval() bool {
	return f == Timestep || f == Hourly || f == Daily
}

// ParseReportingFrequency resolves s against both the short names and the
// stored labels, ignoring case, spaces and underscores.
func ParseReportingFrequency(s string) (ReportingFrequency, bool) {
	want := squash(s)
	if want == "" {
		return 0, false
	}
	for _, f := range AllFrequencies() {
		info := frequencies[f]
		if squash(info.name) == want || squash(info.label) == want {
			return f, true
		}
	}
	return 0, false
}

func squash(s string) string {
	s = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(Canonical(s))
	return FoldName(s)
}
