// Package record implements the canonical object model for canvassing data.
//
// The record store holds Prospects with their embedded Knock and Note
// histories. It is the single source of truth for all reads; the relational
// mirror (internal/mirror) is a best-effort secondary index written through
// internal/sync.
//
// Concurrency model:
//
// All mutations go through a single mutex held for the duration of each
// logical write (insert, append, cascade delete, field update). This makes
// the single-writer discipline explicit rather than relying on callers to
// serialize access. Read methods return deep copies, so callers can iterate
// and aggregate without holding any lock.
//
// Durability:
//
// The working set lives in memory and is flushed to a JSON snapshot file
// after every successful mutation, using a temp-file-and-rename write so a
// crash never leaves a torn snapshot. Opening a store with an empty path
// keeps it memory-only, which tests use the same way the mirror uses an
// in-memory SQLite database.
package record
