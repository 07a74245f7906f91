package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a deterministic content hash of the raw document
// bytes, used as the idempotency key for indexing. Identical bytes always
// yield the identical fingerprint.
func Fingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
