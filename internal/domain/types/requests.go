package types

import (
	"encoding/base64"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username Username `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
}

// Validate checks the request before it leaves the client.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest is the body of POST /login. Either Email or Username
// identifies the account; empty fields are left off the wire.
type LoginRequest struct {
	Email    string   `json:"email,omitempty"`
	Username Username `json:"username,omitempty"`
	Password string   `json:"password"`
}

// Validate checks the request before it leaves the client.
func (r LoginRequest) Validate() error {
	if r.Email == "" && r.Username == "" {
		return errors.New("email or username: cannot be blank")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// VerifyRequest is the body of POST /verify. Signature is base64 encoded.
type VerifyRequest struct {
	Username  Username `json:"username"`
	Message   string   `json:"message"`
	Signature string   `json:"signature"`
}

// Validate checks the request before it leaves the client.
func (r VerifyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Message, validation.Required),
		validation.Field(&r.Signature, validation.Required, validation.By(isBase64)),
	)
}

func isBase64(value interface{}) error {
	s, _ := value.(string)
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return errors.New("must be standard base64")
	}
	return nil
}
