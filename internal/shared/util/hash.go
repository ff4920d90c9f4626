package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ClientKey pseudonymizes a client identifier (IP address or admin ID) so
// rate limit keys never hold the raw value.
func ClientKey(principal string) string {
	sum := sha256.Sum256([]byte("client:" + principal))
	return hex.EncodeToString(sum[:16])
}
