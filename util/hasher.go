package util

import (
	"crypto/sha256"
	"fmt"
)

// ShortHashLength is the number of hex digits shown for abbreviated hashes.
const ShortHashLength = 12

// ContentHash returns the hex SHA-256 of an in-memory file body.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// ShortHash abbreviates a hex hash for display.
func ShortHash(hash string) string {
	if len(hash) <= ShortHashLength {
		return hash
	}
	return hash[:ShortHashLength]
}
