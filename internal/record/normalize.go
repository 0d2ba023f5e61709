package record

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeAddress produces the identity key used to match a knocked address
// against existing prospects. It is the only identity shared between the
// record store and the relational mirror, so both sides must agree on it.
//
// Normalization: Unicode NFC, surrounding whitespace trimmed, lowercased.
// "123 Main St" and " 123 MAIN ST " collapse to the same key.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(address)))
}
