package identity

import (
	"context"
	"fmt"
	"log/slog"

	"didclient/internal/domain"
	"didclient/internal/logging"
)

// Service implements domain.IdentityService over a gateway and a session
// machine.
type Service struct {
	gw       domain.Gateway
	sessions domain.SessionMachine
	log      *slog.Logger
}

// New returns an identity service. A nil logger discards.
func New(gw domain.Gateway, sessions domain.SessionMachine, log *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		sessions: sessions,
		log:      logging.OrDiscard(log).With("component", "identity"),
	}
}

// Signup registers a new account and returns the issued identity, private key
// included. The caller must log in separately.
func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (domain.SignupResult, error) {
	if err := req.Validate(); err != nil {
		return domain.SignupResult{}, fmt.Errorf("signup: %w", err)
	}
	res, err := s.gw.Signup(ctx, req)
	if err != nil {
		return domain.SignupResult{}, err
	}
	s.log.InfoContext(ctx, "account created", "username", res.Username, "did", res.DID)
	return res, nil
}

// Login exchanges credentials for a token and establishes the session with
// it. A storage failure still leaves the session active for this process and
// is returned for the caller to report.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	token, err := s.gw.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := s.sessions.Establish(ctx, token); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "logged in", "token", token)
	return nil
}

// Logout ends the session locally. The service is not contacted.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Terminate(ctx)
}

// Whoami fetches the identity record of the logged-in user.
func (s *Service) Whoami(ctx context.Context) (domain.IdentityRecord, error) {
	return s.gw.FetchIdentity(ctx)
}

// Verify asks the service to check a base64 signature over message.
func (s *Service) Verify(ctx context.Context, req domain.VerifyRequest) (domain.VerifyResult, error) {
	if err := req.Validate(); err != nil {
		return domain.VerifyResult{}, fmt.Errorf("verify: %w", err)
	}
	return s.gw.Verify(ctx, req)
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
