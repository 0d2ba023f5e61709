package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase hex SHA-256 digest of the password.
//
// The digest is deliberately deterministic and unsalted so that equality
// against previously stored digests keeps working. Do not reuse this for
// anything beyond the stored-credential contract.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
