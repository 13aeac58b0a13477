// Package engine expands time-series queries against a Dictionary and
// reconstructs series from the sample tables.
//
// ARCHITECTURE:
//
// Expansion:
// Expand turns a partial queryir.Query into fully resolved queries in four
// stages, each narrowing the previous stage's candidates:
// 1. Environment: literal name (case-insensitive) or every period of a type
// 2. Frequency: every available label, or the requested one if present
// 3. Series name: pattern over available names, or a literal with fallbacks
// 4. Key values: pattern, literal list (case-insensitive) or every key
//
// Literal names that miss are retried in order, first hit wins:
// a. the name upper-cased, then compared case-insensitively
// b. "Annual" or "Environment" requested: the "Run Period" label
// c. the stored label with the same canonical frequency
//
// Only ResolvedQuery values returned by Expand carry the vetted mark; a
// hand-built ResolvedQuery is rejected with ErrNotVetted.
//
// Reconstruction:
// BuildSeries joins the entry's sample table to the calendar and derives a
// timestamp per row. Timestep, hourly and daily series whose rows share one
// interval come back as interval series; everything else carries explicit
// offsets from the first sample.
//
// Caching:
// Built series are memoized in a SeriesCache keyed by dictionary.EntryID.
// The cache is guarded by a mutex; the Dictionary itself is never mutated.
//
// The engine issues statements through one store connection. Every
// multi-row read is drained before the next statement starts.
package engine
