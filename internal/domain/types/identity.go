package types

// IdentityRecord is the server-sourced identity of the logged-in user.
type IdentityRecord struct {
	Username  Username `json:"username"`
	DID       DID      `json:"did"`
	PublicKey string   `json:"public_key"`
}

// SignupResult is returned once by POST /signup. PrivateKey is handed to the
// caller and never stored by this client.
type SignupResult struct {
	ID         int64    `json:"id"`
	Username   Username `json:"username"`
	Email      string   `json:"email"`
	IsActive   bool     `json:"is_active"`
	DID        DID      `json:"did"`
	PublicKey  string   `json:"public_key"`
	PrivateKey string   `json:"private_key,omitempty"`
}

// LoginResult is the body of a successful POST /login. Services differ on the
// field name so both spellings are accepted.
type LoginResult struct {
	AccessToken Token  `json:"access_token"`
	Token       Token  `json:"token"`
	TokenType   string `json:"token_type"`
}

// Bearer returns whichever token field the service filled in.
func (r LoginResult) Bearer() Token {
	if !r.AccessToken.IsZero() {
		return r.AccessToken
	}
	return r.Token
}

// VerifyResult is the service's verdict on a signed message.
type VerifyResult struct {
	Message string `json:"message"`
}
