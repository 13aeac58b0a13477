package ir

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Canonical returns s in NFC form with surrounding whitespace removed.
// Result files written by different producer builds disagree on both, so
// every name that enters an index goes through here first.
func Canonical(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// UpperName returns the canonical upper-case form of s. Environment names
// are indexed in this form.
//
// A cases.Caser keeps state between calls, so one is built per call.
func UpperName(s string) string {
	return cases.Upper(language.Und).String(Canonical(s))
}

// FoldName returns a case-folded key for case-insensitive comparison.
func FoldName(s string) string {
	return cases.Fold().String(Canonical(s))
}

// EqualFold reports whether a and b are equal ignoring case.
func EqualFold(a, b string) bool {
	return FoldName(a) == FoldName(b)
}
