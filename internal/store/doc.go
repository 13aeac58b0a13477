// Package store owns the SQLite connection to a simulation result file.
//
// A Store wraps one database/sql pool pinned to a single connection. Every
// read and write goes through a Statement, which carries:
//   - A fixed SQL text plus typed parameters (Int, Float, Text, Null)
//   - A placeholder-count check at construction (STATEMENT_FATAL on mismatch)
//   - Optional transaction scope: begun on construction, committed on Close
//
// # Connection Model
//
// Result files are written by a single producer and read by a single
// consumer, so the pool holds exactly one connection. A transaction-scoped
// Statement pins that connection until it is closed; statements that must
// run inside the same transaction are created with Statement.Prepare.
// Multi-row reads must be drained before the next statement is issued.
//
// # Database Configuration
//
//   - busy_timeout: bounded wait on lock contention (Options.BusyTimeout)
//   - foreign_keys=ON: enforce the schema's references on writes
//
// The journal mode is left as the producer wrote it.
//
// # Schema
//
// schema.sql is the result-file layout for the current producer version.
// Create applies it to new files only; existing files are never migrated.
package store
