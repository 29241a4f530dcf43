package parser

import (
	"crypto/sha256"
	"fmt"
)

// fingerprint identifies file content for memoization.
func fingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
