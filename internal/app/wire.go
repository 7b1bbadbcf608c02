package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"didclient/internal/domain"
	"didclient/internal/gateway"
	"didclient/internal/guard"
	"didclient/internal/logging"
	identitysvc "didclient/internal/services/identity"
	sessionsvc "didclient/internal/services/session"
	"didclient/internal/store"
)

// Wire bundles the stores, services and clients for the CLI. There is one
// session machine per Wire and every component shares it.
type Wire struct {
	Store    domain.CredentialStore
	Sessions *sessionsvc.Machine
	Gateway  *gateway.HTTP
	Guard    *guard.Guard
	Identity *identitysvc.Service
	HTTP     *http.Client

	closers []func() error
}

// NewWire constructs the dependency graph from cfg and restores any saved
// session. httpClient may be nil, in which case one with cfg.Timeout is
// created.
func NewWire(ctx context.Context, cfg Config, httpClient *http.Client, log *slog.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log = logging.OrDiscard(log)

	w := &Wire{}
	cs, err := w.newStore(cfg, log)
	if err != nil {
		return nil, err
	}
	w.Store = cs

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	w.HTTP = httpClient

	w.Sessions = sessionsvc.New(cs, log)
	state := w.Sessions.Start(ctx)
	log.DebugContext(ctx, "session restored", "state", state, "backend", cfg.Store.Backend)

	w.Gateway = gateway.NewHTTP(cfg.ServerURL, httpClient, w.Sessions, log)
	w.Guard = guard.New(w.Sessions)
	w.Identity = identitysvc.New(w.Gateway, w.Sessions, log)
	return w, nil
}

func (w *Wire) newStore(cfg Config, log *slog.Logger) (domain.CredentialStore, error) {
	switch cfg.Store.Backend {
	case BackendFile:
		return store.NewFileStore(cfg.Home, log), nil
	case BackendEncrypted:
		return store.NewEncryptedFileStore(cfg.Home, cfg.Store.Passphrase, log)
	case BackendRedis:
		rc := cfg.Store.Redis
		rdb := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		w.closers = append(w.closers, rdb.Close)
		return store.NewRedisStore(rdb, rc.Key, rc.TTL, log), nil
	case BackendMemory:
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// Close releases connections held by the store.
func (w *Wire) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c())
	}
	w.closers = nil
	return errors.Join(errs...)
}
