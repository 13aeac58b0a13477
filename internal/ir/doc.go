// Package ir provides the value types shared by every layer of epsql.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Reporting frequencies and environment types are closed enums with the
//     labels the result file stores (ParseReportingFrequency accepts both
//     the short name and the stored label)
//   - A TimeSeries is either uniform (Interval > 0) or carries one offset per
//     sample, never both
//   - Names are compared after NFC normalisation (see canonical.go)
package ir
