package interfaces

import (
	"context"

	domaintypes "didclient/internal/domain/types"
)

// CredentialStore durably mirrors the current session token.
//
// Load never fails: unavailable or corrupted storage reads as absent.
// Save and Clear report storage failures wrapped with ErrStorageUnavailable;
// Clear on an empty store is not an error.
type CredentialStore interface {
	Load(ctx context.Context) (domaintypes.Token, bool)
	Save(ctx context.Context, token domaintypes.Token) error
	Clear(ctx context.Context) error
}
