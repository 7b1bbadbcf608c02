package interfaces

import (
	"context"

	domaintypes "didclient/internal/domain/types"
)

// Authenticator answers whether a valid session exists right now.
type Authenticator interface {
	IsAuthenticated() bool
}

// Subscriber lets views react to session changes without polling.
// Callbacks may run concurrently; keep the event with the highest Seq.
type Subscriber interface {
	Subscribe(fn func(domaintypes.Event)) (unsubscribe func())
}

// SessionSource is the part of the session machine the gateway depends on.
type SessionSource interface {
	Current() (domaintypes.Session, bool)
	// Expire ends the session only if it still carries token.
	Expire(ctx context.Context, token domaintypes.Token) bool
}

// SessionMachine owns the single active session.
type SessionMachine interface {
	Authenticator
	Subscriber
	SessionSource

	Start(ctx context.Context) domaintypes.State
	Establish(ctx context.Context, token domaintypes.Token) error
	Terminate(ctx context.Context) error
	State() domaintypes.State
}

// IdentityService drives the account flows on top of the gateway and the
// session machine.
type IdentityService interface {
	Signup(ctx context.Context, req domaintypes.SignupRequest) (domaintypes.SignupResult, error)
	Login(ctx context.Context, req domaintypes.LoginRequest) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (domaintypes.IdentityRecord, error)
	Verify(ctx context.Context, req domaintypes.VerifyRequest) (domaintypes.VerifyResult, error)
}
