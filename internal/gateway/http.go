package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"didclient/internal/domain"
	"didclient/internal/logging"
)

// Identity service endpoints.
const (
	PathSignup = "/signup"
	PathLogin  = "/login"
	PathDID    = "/did"
	PathVerify = "/verify"
)

// DefaultUserAgent is sent when none is configured.
const DefaultUserAgent = "didclient/1.0"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// HTTP is the authenticated request gateway to the identity service.
type HTTP struct {
	Base      string
	HTTP      *http.Client
	UserAgent string

	sessions domain.SessionSource
	log      *slog.Logger
}

// NewHTTP returns a gateway for base that reads credentials from sessions.
// A nil httpClient selects http.DefaultClient; a nil logger discards.
func NewHTTP(base string, httpClient *http.Client, sessions domain.SessionSource, log *slog.Logger) *HTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTP{
		Base:      normalizeBase(base),
		HTTP:      httpClient,
		UserAgent: DefaultUserAgent,
		sessions:  sessions,
		log:       logging.OrDiscard(log).With("component", "gateway"),
	}
}

// Signup registers an account. No session is needed or used.
func (c *HTTP) Signup(ctx context.Context, req domain.SignupRequest) (domain.SignupResult, error) {
	var out domain.SignupResult
	if err := c.public(ctx, http.MethodPost, PathSignup, req, &out); err != nil {
		return domain.SignupResult{}, err
	}
	return out, nil
}

// Login exchanges credentials for a bearer token. The caller decides whether
// to establish a session with it; the gateway never does.
func (c *HTTP) Login(ctx context.Context, req domain.LoginRequest) (domain.Token, error) {
	var out domain.LoginResult
	if err := c.public(ctx, http.MethodPost, PathLogin, req, &out); err != nil {
		return "", err
	}
	token := out.Bearer()
	if token.IsZero() {
		return "", domain.ErrMissingToken
	}
	return token, nil
}

// FetchIdentity returns the identity record of the logged-in user.
func (c *HTTP) FetchIdentity(ctx context.Context) (domain.IdentityRecord, error) {
	var out domain.IdentityRecord
	if err := c.Call(ctx, http.MethodGet, PathDID, nil, &out); err != nil {
		return domain.IdentityRecord{}, err
	}
	return out, nil
}

// Verify submits a signed message for verification by the service.
func (c *HTTP) Verify(ctx context.Context, req domain.VerifyRequest) (domain.VerifyResult, error) {
	var out domain.VerifyResult
	if err := c.Call(ctx, http.MethodPost, PathVerify, req, &out); err != nil {
		return domain.VerifyResult{}, err
	}
	return out, nil
}

// Call performs a protected request.
//
// Without a session it fails with domain.ErrUnauthenticated and sends
// nothing. A 401 or 403 expires the session that made the call and yields
// domain.ErrSessionExpired. Other non-2xx statuses yield
// *domain.RequestFailedError and leave the session alone. On success the
// body is decoded into out as-is; out may be nil.
func (c *HTTP) Call(ctx context.Context, method, endpoint string, body, out any) error {
	sess, ok := c.sessions.Current()
	if !ok {
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrUnauthenticated)
	}

	resp, err := c.send(ctx, method, endpoint, sess.Token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		ended := c.sessions.Expire(ctx, sess.Token)
		c.log.InfoContext(ctx, "credential rejected",
			"method", method, "endpoint", endpoint, "status", resp.StatusCode, "session_ended", ended)
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrSessionExpired)
	}
	return decodeResponse(resp, out)
}

// public performs a request that carries no credential. Every non-2xx status,
// 401 included, is a RequestFailedError here.
func (c *HTTP) public(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.send(ctx, method, endpoint, "", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *HTTP) send(
	ctx context.Context,
	method, endpoint string,
	token domain.Token,
	body any,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
		}
		reader = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !token.IsZero() {
		req.Header.Set("Authorization", "Bearer "+token.String())
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "request failed",
			"method", method, "endpoint", endpoint, "request_id", requestID, "err", err)
		return nil, &domain.NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}
	c.log.DebugContext(ctx, "request completed",
		"method", method, "endpoint", endpoint, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

func normalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return strings.TrimRight(base, "/")
}

// Compile-time assertion that HTTP implements domain.Gateway.
var _ domain.Gateway = (*HTTP)(nil)
