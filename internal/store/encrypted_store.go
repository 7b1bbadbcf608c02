package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"didclient/internal/crypto"
	"didclient/internal/domain"
	"didclient/internal/logging"
)

// EncryptedCredentialsFile holds the sealed token for the encrypted backend.
const EncryptedCredentialsFile = CredentialsFile + ".enc"

// ErrNoPassphrase is returned when the encrypted store is built without one.
var ErrNoPassphrase = errors.New("encrypted credential store requires a passphrase")

// EncryptedFileStore keeps the token sealed with a passphrase-derived key
// (scrypt + ChaCha20-Poly1305). A wrong passphrase reads as no session.
type EncryptedFileStore struct {
	path       string
	passphrase string
	kdf        kdfParams
	mu         sync.Mutex
	log        *slog.Logger
}

// NewEncryptedFileStore returns an EncryptedFileStore rooted at dir.
func NewEncryptedFileStore(dir, passphrase string, log *slog.Logger) (*EncryptedFileStore, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return &EncryptedFileStore{
		path:       filepath.Join(dir, EncryptedCredentialsFile),
		passphrase: passphrase,
		kdf:        defaultKDF,
		log:        logging.OrDiscard(log).With("store", "encrypted"),
	}, nil
}

// Path returns the sealed credential file location.
func (s *EncryptedFileStore) Path() string { return s.path }

// Load opens the sealed token. Missing, corrupted or foreign-passphrase files
// read as absent.
func (s *EncryptedFileStore) Load(ctx context.Context) (domain.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path)
	if err == nil && b == nil {
		return "", false
	}
	var raw []byte
	if err == nil {
		raw, err = open(s.passphrase, b)
	}
	var rec credentialRecord
	if err == nil {
		err = json.Unmarshal(raw, &rec)
		crypto.Wipe(raw)
	}
	if err != nil {
		s.log.WarnContext(ctx, "credential load failed; treating session as absent",
			"path", s.path, "err", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err))
		return "", false
	}
	if rec.Token.IsZero() {
		return "", false
	}
	return rec.Token, true
}

// Save seals and writes the token atomically with mode 0600.
func (s *EncryptedFileStore) Save(ctx context.Context, token domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(credentialRecord{Token: token})
	if err != nil {
		return err
	}
	defer crypto.Wipe(raw)

	sealed, err := seal(s.passphrase, raw, s.kdf)
	if err != nil {
		return fmt.Errorf("%w: seal: %v", domain.ErrStorageUnavailable, err)
	}
	if err := writeFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	s.log.DebugContext(ctx, "credential saved", "path", s.path, "token", token)
	return nil
}

// Clear removes the sealed file if present.
func (s *EncryptedFileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeFile(s.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	s.log.DebugContext(ctx, "credential cleared", "path", s.path)
	return nil
}

// Compile-time assertion that EncryptedFileStore implements domain.CredentialStore.
var _ domain.CredentialStore = (*EncryptedFileStore)(nil)
