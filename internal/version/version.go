// Package version parses the producer version stored in a result file and
// derives the schema capability flags every SQL builder branches on.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a major.minor[.patch] producer version.
type Version struct {
	Major int
	Minor int
	Patch int
}

var (
	// Current is the newest producer version this module reads and the one
	// it stamps into files it creates.
	Current = Version{Major: 24, Minor: 2}

	// MinSupported is the oldest producer version with a known schema.
	MinSupported = Version{Major: 7, Minor: 0}
)

// Thresholds where the schema changed.
var (
	yearColumn        = Version{Major: 8, Minor: 9}
	illuminanceYear   = Version{Major: 9, Minor: 2}
	illuminanceNRefPt = Version{Major: 9, Minor: 6}
	calendarRunPeriod = Version{Major: 8, Minor: 3}
)

var versionPattern = regexp.MustCompile(`\d{1,}\.\d[\.\d]*`)

// Parse extracts the first dotted numeric token from s, so both "24.2.0" and
// "EnergyPlus, Version 8.9.0-40101eaafd, YMD=2018.06.04 10:31" are accepted.
func Parse(s string) (Version, error) {
	token := versionPattern.FindString(s)
	if token == "" {
		return Version{}, fmt.Errorf("no version number in %q", s)
	}

	var parts []int
	for _, field := range strings.Split(token, ".") {
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return Version{}, fmt.Errorf("parse version %q: %w", token, err)
		}
		parts = append(parts, n)
	}

	v := Version{Major: parts[0], Minor: parts[1]}
	if len(parts) > 2 {
		v.Patch = parts[2]
	}
	return v, nil
}

// MustParse is Parse for literals known to be well formed.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare orders two versions on major and minor only. Patch releases never
// changed the schema.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	default:
		return cmpInt(v.Minor, o.Minor)
	}
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

// IsZero reports whether v is the unparsed zero value.
func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Supported reports whether v is inside [MinSupported, Current].
func (v Version) Supported() bool {
	return v.AtLeast(MinSupported) && !Current.Less(v)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
