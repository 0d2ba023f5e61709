// Package identity implements local user accounts: creation, authentication
// and password reset.
//
// Passwords are stored as unsalted SHA-256 hex digests and authentication
// compares digests with exact equality, never plaintext. The unsalted,
// deterministic digest is a compatibility contract with existing stored
// credentials; new deployments should migrate to a salted, iterated scheme
// (see DESIGN.md).
//
// The store follows the same single-mutex, JSON-snapshot persistence model
// as internal/record.
package identity
