package types

import (
	"log/slog"

	"didclient/internal/crypto"
)

// Token is the opaque bearer credential issued by the identity service.
//
// It is never parsed or decoded locally.
type Token string

// String returns the raw token.
func (t Token) String() string { return string(t) }

// IsZero reports whether the token is empty.
func (t Token) IsZero() bool { return t == "" }

// LogValue logs a fingerprint instead of the credential itself.
func (t Token) LogValue() slog.Value {
	if t == "" {
		return slog.StringValue("")
	}
	return slog.StringValue("fp:" + crypto.Fingerprint([]byte(t)))
}

// Username is the account name registered with the identity service.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// DID is a decentralized identifier minted by the identity service.
type DID string

// String returns the string form of the identifier.
func (d DID) String() string { return string(d) }
