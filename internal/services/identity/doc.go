// Package identity drives the account flows: signup, login, logout, whoami
// and signature verification.
//
// It validates requests before they leave the client, sends them through the
// gateway and hands login tokens to the session machine. Signup never starts
// a session.
package identity
