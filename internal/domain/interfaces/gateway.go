package interfaces

import (
	"context"

	domaintypes "didclient/internal/domain/types"
)

// Gateway is how we talk to the identity service, all with context.
//
// Signup and Login need no session. Every other call requires one and
// carries it as a bearer token.
type Gateway interface {
	Signup(ctx context.Context, req domaintypes.SignupRequest) (domaintypes.SignupResult, error)
	Login(ctx context.Context, req domaintypes.LoginRequest) (domaintypes.Token, error)

	FetchIdentity(ctx context.Context) (domaintypes.IdentityRecord, error)
	Verify(ctx context.Context, req domaintypes.VerifyRequest) (domaintypes.VerifyResult, error)

	Call(ctx context.Context, method, endpoint string, body, out any) error
}
