package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey maps any key onto a fixed-length, filesystem-safe file stem.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:12])
}
