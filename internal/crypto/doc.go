// Package crypto exposes the small helpers didclient needs around secrets.
//
// Contents
//
//   - Short fingerprints of secret material for display and logging
//     (Fingerprint). Bearer tokens are only ever logged this way.
//   - Best-effort memory wiping for derived keys and passphrases (Wipe).
//   - RSA identity keys as issued at signup: PEM encoding and parsing,
//     PKCS#1 v1.5 SHA-256 signatures carried as standard base64
//     (GenerateKeyPair, Sign, Verify).
package crypto
