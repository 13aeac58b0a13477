// Package dictionary indexes the series catalog of an open result file.
//
// A Dictionary holds one Entry per (catalog record, environment period)
// pair. Catalog records are period-agnostic while sample rows are
// partitioned by period, so every record is crossed with every period.
// Entries live in one owned slice; the secondary indices map environment,
// frequency, name, key value and the composite of all four to stable
// EntryIDs into that slice.
//
// A Dictionary is immutable once built and safe for concurrent reads.
// Series values are not cached here; the engine keeps its own cache keyed
// by EntryID.
package dictionary
