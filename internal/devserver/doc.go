// Package devserver is an in-memory stand-in for the identity service.
//
// It speaks the same JSON over HTTP as the real service: POST /signup issues
// an account with a DID and an RSA key pair, POST /login returns an HS256
// bearer token, and GET /did, GET /protected and POST /verify require that
// token. Errors are {"detail": ...}. Nothing is persisted; restarting forgets
// every account.
//
// It exists for local development and for end-to-end tests of the client.
package devserver
