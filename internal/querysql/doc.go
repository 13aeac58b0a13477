// Package querysql builds the SQL text for every result-file query.
//
// Result files written by different producer versions disagree on layout:
// Time gained a Year column in 8.9, illuminance map reports gained one in
// 9.2, and DaylightMaps stored exactly two reference points between 9.2
// and 9.6. Every builder that depends on layout takes a version.Flags
// value explicitly, so each flag combination can be tested in isolation.
//
// Builders return SQL text only. Values are always bound as parameters;
// identifiers (table and column names) come from closed enums here, never
// from callers.
package querysql
