package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"didclient/internal/crypto"
	"didclient/internal/domain"
)

const maxRequestBytes = 1 << 20

// Verification verdicts returned by POST /verify.
const (
	SignatureValid   = "Signature is valid"
	SignatureInvalid = "Signature verification failed"
)

type ctxKey struct{}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Decentralized Identity System is running!"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decode(w, r, &req) {
		return
	}
	acct, privPEM, err := s.register(req)
	switch {
	case errors.Is(err, errEmailTaken):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	case errors.Is(err, errUsernameTaken):
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	case err != nil:
		s.log.ErrorContext(r.Context(), "signup failed", "err", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.log.InfoContext(r.Context(), "account created", "username", acct.username, "did", acct.did)

	writeJSON(w, http.StatusOK, domain.SignupResult{
		ID:         acct.id,
		Username:   acct.username,
		Email:      acct.email,
		IsActive:   true,
		DID:        acct.did,
		PublicKey:  acct.publicKey,
		PrivateKey: privPEM,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	acct, ok := s.authenticate(req)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token, err := s.tokens.issue(acct.username)
	if err != nil {
		s.log.ErrorContext(r.Context(), "issue token", "err", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, domain.LoginResult{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleDID(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.lookup(r.Context().Value(ctxKey{}).(domain.Username))
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, domain.IdentityRecord{
		Username:  acct.username,
		DID:       acct.did,
		PublicKey: acct.publicKey,
	})
}

func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(ctxKey{}).(domain.Username)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello, %s! You have access to this protected route.", user),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyRequest
	if !decode(w, r, &req) {
		return
	}
	acct, ok := s.lookup(req.Username)
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	pub, err := crypto.ParsePublicKey([]byte(acct.publicKey))
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Invalid public key: "+err.Error())
		return
	}
	verdict := SignatureValid
	if err := crypto.Verify(pub, []byte(req.Message), req.Signature); err != nil {
		verdict = SignatureInvalid
	}
	writeJSON(w, http.StatusOK, domain.VerifyResult{Message: verdict})
}

// requireToken rejects requests without a valid bearer token and passes the
// token's username down in the request context.
func (s *Server) requireToken(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		username, err := s.tokens.subject(raw)
		if err != nil {
			s.log.DebugContext(r.Context(), "token rejected", "token", domain.Token(raw), "err", err)
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, username)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start))
	})
}

// decode reads a JSON body into v and validates it, answering 422 in the
// {"detail": [{"msg": ...}]} shape on failure.
func decode(w http.ResponseWriter, r *http.Request, v validation.Validatable) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v); err != nil {
		writeValidation(w, []string{"invalid JSON body: " + err.Error()})
		return false
	}
	if err := v.Validate(); err != nil {
		writeValidation(w, validationMessages(err))
		return false
	}
	return true
}

func validationMessages(err error) []string {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return []string{err.Error()}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, name+": "+fields[name].Error())
	}
	return msgs
}

type detailItem struct {
	Msg string `json:"msg"`
}

func writeValidation(w http.ResponseWriter, msgs []string) {
	items := make([]detailItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, detailItem{Msg: m})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
