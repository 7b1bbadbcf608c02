package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"didclient/internal/domain"
	"didclient/internal/logging"
)

// CredentialsFile is the single well-known name the token is kept under.
const CredentialsFile = "credentials.json"

// credentialRecord is the on-disk JSON structure.
type credentialRecord struct {
	Token domain.Token `json:"token"`
}

// FileStore persists the session token as a JSON file under a profile
// directory.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

// NewFileStore returns a FileStore rooted at dir. A nil logger discards.
func NewFileStore(dir string, log *slog.Logger) *FileStore {
	return &FileStore{
		path: filepath.Join(dir, CredentialsFile),
		log:  logging.OrDiscard(log).With("store", "file"),
	}
}

// Path returns the credential file location.
func (s *FileStore) Path() string { return s.path }

// Load returns the persisted token. Unreadable or corrupted files read as absent.
func (s *FileStore) Load(ctx context.Context) (domain.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec credentialRecord
	found, err := readJSON(s.path, &rec)
	if err != nil {
		s.log.WarnContext(ctx, "credential load failed; treating session as absent",
			"path", s.path, "err", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err))
		return "", false
	}
	if !found || rec.Token.IsZero() {
		return "", false
	}
	return rec.Token, true
}

// Save writes the token atomically with mode 0600.
func (s *FileStore) Save(ctx context.Context, token domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path, credentialRecord{Token: token}, 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	s.log.DebugContext(ctx, "credential saved", "path", s.path, "token", token)
	return nil
}

// Clear removes the credential file if present.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeFile(s.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	s.log.DebugContext(ctx, "credential cleared", "path", s.path)
	return nil
}

// Compile-time assertion that FileStore implements domain.CredentialStore.
var _ domain.CredentialStore = (*FileStore)(nil)
