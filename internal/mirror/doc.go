// Package mirror provides the SQLite-backed relational mirror of prospect
// and knock data.
//
// The mirror is a write-mostly secondary index: normal reads go through the
// record graph store (internal/record), and mirror writes are best-effort
// (internal/sync logs and swallows failures). It exists for durable
// structured queries over prospects joined with their knocks.
//
// Two tables, independently keyed by autoincrement row ids:
//   - prospects(id, full_name, address, list)
//   - knocks(id, prospect_id, date, status, latitude, longitude, user_email)
//
// Schema creation is idempotent and runs at Open; a schema or connection
// failure at Open is fatal to the store. The underlying connection is not
// safe for unsynchronized concurrent writes, so the pool is capped at a
// single connection and all writers serialize through it.
package mirror
