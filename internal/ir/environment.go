package ir

import "fmt"

// EnvironmentType classifies an environment period. The numeric values are
// the ones stored in EnvironmentPeriods.EnvironmentType.
type EnvironmentType int

const (
	DesignDay        EnvironmentType = 1
	DesignRunPeriod  EnvironmentType = 2
	WeatherRunPeriod EnvironmentType = 3
)

var environmentTypeNames = map[EnvironmentType]string{
	DesignDay:        "DesignDay",
	DesignRunPeriod:  "DesignRunPeriod",
	WeatherRunPeriod: "WeatherRunPeriod",
}

func (t EnvironmentType) String() string {
	if name, ok := environmentTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EnvironmentType(%d)", int(t))
}

// Valid reports whether t is a declared environment type.
func (t EnvironmentType) Valid() bool {
	_, ok := environmentTypeNames[t]
	return ok
}

// ParseEnvironmentType accepts the type name, ignoring case.
func ParseEnvironmentType(s string) (EnvironmentType, bool) {
	for t, name := range environmentTypeNames {
		if EqualFold(name, s) {
			return t, true
		}
	}
	return 0, false
}
