// Package store provides durable persistence for the session token.
//
// Every type here implements domain.CredentialStore: Load never fails (broken
// storage reads as "no session"), Save and Clear wrap failures with
// domain.ErrStorageUnavailable, and Clear is idempotent. File-backed stores
// write through a temp file and rename so a crash never leaves a half-written
// credential behind.
//
// The package includes:
//   - FileStore: plain JSON under the profile directory (credentials.json)
//   - EncryptedFileStore: the same token sealed with scrypt + ChaCha20-Poly1305
//   - RedisStore: one Redis key shared by several client processes
//   - MemoryStore: process-local, for tests and throwaway sessions
package store
