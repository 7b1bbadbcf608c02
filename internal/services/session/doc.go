// Package session holds the session state machine.
//
// The Machine moves between Unauthenticated and Authenticated, persists each
// transition through a domain.CredentialStore, and notifies subscribers so
// guards and views react without polling.
package session
