package cache

import (
	"crypto/sha1"
	"encoding/hex"
)

// Key generates a deterministic cache key for one batch.
// The joined batch string is hashed so arbitrary part numbers never
// produce unbounded or unsafe Redis keys.
//
// Format: mouser:search:<sha1 of joined batch string>
func Key(joined string) string {
	sum := sha1.Sum([]byte(joined))
	return "mouser:search:" + hex.EncodeToString(sum[:])
}
