package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"didclient/internal/crypto"
	"didclient/internal/domain"
	"didclient/internal/logging"
)

var (
	errEmailTaken    = errors.New("email already registered")
	errUsernameTaken = errors.New("username already registered")
)

// Options configure a Server. Zero values select the defaults.
type Options struct {
	// Secret signs bearer tokens. Empty means a random per-process secret.
	Secret []byte
	// TokenTTL bounds token lifetime. Zero issues tokens that never expire.
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// KeyBits defaults to crypto.DefaultKeyBits.
	KeyBits int
	Logger  *slog.Logger
}

type account struct {
	id        int64
	username  domain.Username
	email     string
	hash      []byte
	did       domain.DID
	publicKey string
}

// Server holds accounts in memory and serves the identity API.
type Server struct {
	tokens  *tokenIssuer
	cost    int
	keyBits int
	log     *slog.Logger

	mu         sync.RWMutex
	nextID     int64
	byUsername map[domain.Username]*account
	byEmail    map[string]*account
}

// New returns an empty server.
func New(opts Options) *Server {
	secret := opts.Secret
	if len(secret) == 0 {
		secret = []byte(uuid.NewString())
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Server{
		tokens:     &tokenIssuer{secret: secret, ttl: opts.TokenTTL},
		cost:       cost,
		keyBits:    opts.KeyBits,
		log:        logging.OrDiscard(opts.Logger).With("component", "devserver"),
		byUsername: make(map[domain.Username]*account),
		byEmail:    make(map[string]*account),
	}
}

// Handler returns the HTTP routes wrapped in access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.Handle("GET /did", s.requireToken(s.handleDID))
	mux.Handle("GET /protected", s.requireToken(s.handleProtected))
	mux.Handle("POST /verify", s.requireToken(s.handleVerify))
	return s.accessLog(mux)
}

// register creates an account and returns it with its private key.
func (s *Server) register(req domain.SignupRequest) (*account, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, "", err
	}
	privPEM, pubPEM, err := crypto.GenerateKeyPair(s.keyBits)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(req.Email)
	if _, ok := s.byEmail[email]; ok {
		return nil, "", errEmailTaken
	}
	if _, ok := s.byUsername[req.Username]; ok {
		return nil, "", errUsernameTaken
	}
	s.nextID++
	acct := &account{
		id:        s.nextID,
		username:  req.Username,
		email:     req.Email,
		hash:      hash,
		did:       newDID(req.Username),
		publicKey: pubPEM,
	}
	s.byEmail[email] = acct
	s.byUsername[acct.username] = acct
	return acct, privPEM, nil
}

// authenticate finds the account by username, falling back to email, and
// checks the password.
func (s *Server) authenticate(req domain.LoginRequest) (*account, bool) {
	s.mu.RLock()
	acct, ok := s.byUsername[req.Username]
	if !ok && req.Email != "" {
		acct, ok = s.byEmail[strings.ToLower(req.Email)]
	}
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		return nil, false
	}
	return acct, true
}

func (s *Server) lookup(username domain.Username) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.byUsername[username]
	return acct, ok
}

// newDID returns did:identity:<username>-<12 hex chars>.
func newDID(username domain.Username) domain.DID {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return domain.DID("did:identity:" + string(username) + "-" + suffix)
}
