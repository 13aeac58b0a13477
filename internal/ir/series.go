package ir

import (
	"fmt"
	"time"
)

// TimeSeries is a reconstructed sample sequence.
//
// Start is the timestamp of the first sample. A uniform series sets
// Interval and leaves Offsets nil; an irregular series sets one offset per
// sample (Offsets[0] is always 0) and leaves Interval zero.
type TimeSeries struct {
	Start    time.Time       `json:"start"`
	Interval time.Duration   `json:"interval,omitempty"`
	Offsets  []time.Duration `json:"offsets,omitempty"`
	Values   []float64       `json:"values"`
	Units    string          `json:"units"`
}

// NewIntervalSeries builds a uniform series.
func NewIntervalSeries(start time.Time, interval time.Duration, values []float64, units string) (TimeSeries, error) {
	if interval <= 0 {
		return TimeSeries{}, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return TimeSeries{
		Start:    start,
		Interval: interval,
		Values:   append([]float64(nil), values...),
		Units:    units,
	}, nil
}

// NewOffsetSeries builds an irregular series. offsets must be non-decreasing
// and start at zero.
func NewOffsetSeries(start time.Time, offsets []time.Duration, values []float64, units string) (TimeSeries, error) {
	if len(offsets) != len(values) {
		return TimeSeries{}, fmt.Errorf("offsets (%d) and values (%d) differ in length", len(offsets), len(values))
	}
	for i, off := range offsets {
		if i == 0 && off != 0 {
			return TimeSeries{}, fmt.Errorf("first offset must be zero, got %s", off)
		}
		if i > 0 && off < offsets[i-1] {
			return TimeSeries{}, fmt.Errorf("offset %d (%s) precedes offset %d (%s)", i, off, i-1, offsets[i-1])
		}
	}
	return TimeSeries{
		Start:   start,
		Offsets: append([]time.Duration(nil), offsets...),
		Values:  append([]float64(nil), values...),
		Units:   units,
	}, nil
}

// Len returns the number of samples.
func (s TimeSeries) Len() int {
	return len(s.Values)
}

// IsInterval reports whether the series has a single sampling interval.
func (s TimeSeries) IsInterval() bool {
	return s.Interval > 0
}

// Offset returns the elapsed time from Start to sample i.
func (s TimeSeries) Offset(i int) time.Duration {
	if s.IsInterval() {
		return time.Duration(i) * s.Interval
	}
	if i < len(s.Offsets) {
		return s.Offsets[i]
	}
	return 0
}

// Timestamps returns the timestamp of every sample.
func (s TimeSeries) Timestamps() []time.Time {
	out := make([]time.Time, len(s.Values))
	for i := range s.Values {
		out[i] = s.Start.Add(s.Offset(i))
	}
	return out
}

// Clone returns a deep copy.
func (s TimeSeries) Clone() TimeSeries {
	c := s
	if s.Offsets != nil {
		c.Offsets = append([]time.Duration(nil), s.Offsets...)
	}
	if s.Values != nil {
		c.Values = append([]float64(nil), s.Values...)
	}
	return c
}
