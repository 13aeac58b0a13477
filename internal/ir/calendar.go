package ir

import "time"

// BaseYear is assumed for calendars that carry no year.
const BaseYear = 2009

// Stamp is a calendar position in the producer's convention: hours run
// 1..24, and a row with Minute > 0 belongs to the hour that ends it
// (Hour 1, Minute 10 is 00:10).
type Stamp struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// StampOf converts t to the producer's convention. Midnight becomes hour
// 24 of the previous day.
func StampOf(t time.Time) Stamp {
	t = SnapSeconds(t)
	if t.Minute() == 0 {
		if t.Hour() == 0 {
			prev := t.AddDate(0, 0, -1)
			return Stamp{Year: prev.Year(), Month: prev.Month(), Day: prev.Day(), Hour: 24}
		}
		return Stamp{Year: t.Year(), Month: t.Month(), Day: t.Day(), Hour: t.Hour()}
	}
	return Stamp{Year: t.Year(), Month: t.Month(), Day: t.Day(), Hour: t.Hour() + 1, Minute: t.Minute()}
}

// HourStampOf converts t ignoring minutes, as illuminance map reports are
// hourly. Midnight becomes hour 24 of the previous day.
func HourStampOf(t time.Time) Stamp {
	return StampOf(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location()))
}

// Time converts s back to a UTC timestamp. A zero Year means BaseYear.
func (s Stamp) Time() time.Time {
	year := s.Year
	if year <= 0 {
		year = BaseYear
	}
	day := time.Date(year, s.Month, s.Day, 0, 0, 0, 0, time.UTC)
	if s.Minute == 0 {
		return day.Add(time.Duration(s.Hour) * time.Hour)
	}
	return day.Add(time.Duration(s.Hour-1)*time.Hour + time.Duration(s.Minute)*time.Minute)
}

// Normalize rewrites hour 0, which ends the previous day, as hour 24 of
// the previous day. Month and year roll back with the day. A zero Year
// stays zero unless the previous day falls before BaseYear.
func (s Stamp) Normalize() Stamp {
	if s.Hour != 0 || s.Minute != 0 {
		return s
	}
	prev := StampOf(s.Time())
	if s.Year <= 0 && prev.Year == BaseYear {
		prev.Year = 0
	}
	return prev
}

// EndOfDay returns midnight ending the stamp's date.
func (s Stamp) EndOfDay() time.Time {
	return Stamp{Year: s.Year, Month: s.Month, Day: s.Day, Hour: 24}.Time()
}

// SnapSeconds rounds away the one-second drift the producer leaves on
// timestamps: :59 moves up and :01 moves down, then seconds are dropped.
func SnapSeconds(t time.Time) time.Time {
	switch t.Second() {
	case 59:
		t = t.Add(time.Second)
	case 1:
		t = t.Add(-time.Second)
	}
	return t.Truncate(time.Minute)
}

// IsLeap reports whether year is a leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
