// Package sync coordinates writes between the canonical record graph store
// and the relational mirror.
//
// Every logical write lands in the record store first, so reads are
// immediately consistent, and is then mirrored into SQLite on a best-effort
// basis. Mirror failures are logged and swallowed: the record store is the
// authoritative state and the mirror is a secondary index, never a rollback
// source. A prospect whose creation-time mirror insert failed simply has no
// mirrored counterpart, and its knocks are not mirrored either.
//
// The only identity shared between the two stores is the normalized address
// (record.NormalizeAddress) plus the mirror row id captured when the
// creation-time insert succeeded.
//
// Address resolution is an external, best-effort, cancellable collaborator.
// Resolutions run asynchronously; deleting a prospect cancels its in-flight
// resolution so a late result never updates a removed record.
package sync
