package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStampOf(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected Stamp
	}{
		{"on the hour", time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), Stamp{2024, time.January, 1, 1, 0}},
		{"midnight rolls back", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Stamp{2024, time.January, 1, 24, 0}},
		{"new year midnight", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Stamp{2024, time.December, 31, 24, 0}},
		{"sub-hourly", time.Date(2024, 3, 5, 0, 10, 0, 0, time.UTC), Stamp{2024, time.March, 5, 1, 10}},
		{"seconds 59 snap up", time.Date(2024, 1, 1, 0, 59, 59, 0, time.UTC), Stamp{2024, time.January, 1, 1, 0}},
		{"seconds 1 snap down", time.Date(2024, 1, 1, 2, 0, 1, 0, time.UTC), Stamp{2024, time.January, 1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StampOf(tt.input))
		})
	}
}

func TestStamp_TimeInvertsStampOf(t *testing.T) {
	inputs := []time.Time{
		time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 23, 50, 0, 0, time.UTC),
	}
	for _, in := range inputs {
		assert.Equal(t, in, StampOf(in).Time(), in.String())
	}
}

func TestStamp_TimeWithoutYear(t *testing.T) {
	s := Stamp{Month: time.July, Day: 4, Hour: 24}
	assert.Equal(t, time.Date(BaseYear, time.July, 5, 0, 0, 0, 0, time.UTC), s.Time())
	assert.Equal(t, s.Time(), s.EndOfDay())
}

func TestStamp_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		input    Stamp
		expected Stamp
	}{
		{"hour 0 rolls back", Stamp{2024, time.January, 2, 0, 0}, Stamp{2024, time.January, 1, 24, 0}},
		{"month rolls back", Stamp{2024, time.March, 1, 0, 0}, Stamp{2024, time.February, 29, 24, 0}},
		{"year rolls back", Stamp{2025, time.January, 1, 0, 0}, Stamp{2024, time.December, 31, 24, 0}},
		{"no year stays without year", Stamp{0, time.July, 1, 0, 0}, Stamp{0, time.June, 30, 24, 0}},
		{"no year crossing new year", Stamp{0, time.January, 1, 0, 0}, Stamp{BaseYear - 1, time.December, 31, 24, 0}},
		{"hour 24 unchanged", Stamp{2024, time.January, 1, 24, 0}, Stamp{2024, time.January, 1, 24, 0}},
		{"sub-hourly unchanged", Stamp{2024, time.January, 1, 1, 10}, Stamp{2024, time.January, 1, 1, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Normalize()
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.input.Time(), got.Time())
		})
	}
}

func TestHourStampOf(t *testing.T) {
	assert.Equal(t, Stamp{2024, time.January, 1, 12, 0}, HourStampOf(time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, Stamp{2024, time.January, 1, 24, 0}, HourStampOf(time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)))
}

func TestIsLeap(t *testing.T) {
	assert.True(t, IsLeap(2024))
	assert.True(t, IsLeap(2000))
	assert.False(t, IsLeap(1900))
	assert.False(t, IsLeap(2009))
}
