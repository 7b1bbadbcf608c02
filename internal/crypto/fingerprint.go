package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of secret material.
//
// It hashes with SHA-256 and truncates to 6 bytes (12 hex chars): enough to
// tell two tokens apart in a log, too little to help anyone replay one.
func Fingerprint(secret []byte) string {
	sum := sha256.Sum256(secret)
	return hex.EncodeToString(sum[:6])
}
