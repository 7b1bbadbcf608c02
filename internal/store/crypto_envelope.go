package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"didclient/internal/crypto"
)

const (
	// The current supported version of the encrypted blob format stored on disk.
	envelopeFormatVersion = 1

	// maxScryptN caps the cost read back from disk so a tampered file cannot
	// make Load allocate gigabytes.
	maxScryptN = 1 << 20
)

// envelopeAD binds ciphertexts to their purpose.
var envelopeAD = []byte("didclient/credential/v1")

var (
	// Returned when the passphrase is incorrect or the ciphertext has been modified / corrupted.
	errWrongPassphrase = errors.New("wrong passphrase or corrupted credential")
)

// kdfParams are the scrypt tunables recorded alongside each blob.
type kdfParams struct {
	N, R, P int
}

// defaultKDF matches the interactive-login recommendation for scrypt.
var defaultKDF = kdfParams{N: 1 << 15, R: 8, P: 1}

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// seal derives a key from passphrase and encrypts raw into a JSON blob.
func seal(passphrase string, raw []byte, kdf kdfParams) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt, kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return json.Marshal(blob{
		V:      envelopeFormatVersion,
		Salt:   salt,
		N:      kdf.N,
		R:      kdf.R,
		P:      kdf.P,
		Nonce:  nonce,
		Cipher: aead.Seal(nil, nonce, raw, envelopeAD),
	})
}

// open decrypts a blob produced by seal.
func open(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V != envelopeFormatVersion {
		return nil, fmt.Errorf("unsupported credential envelope version %d", bl.V)
	}
	if bl.N <= 1 || bl.N > maxScryptN || bl.R <= 0 || bl.P <= 0 {
		return nil, fmt.Errorf("implausible scrypt parameters N=%d r=%d p=%d", bl.N, bl.R, bl.P)
	}
	if len(bl.Nonce) != chacha20poly1305.NonceSize {
		return nil, errWrongPassphrase
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, envelopeAD)
	if err != nil {
		return nil, errWrongPassphrase
	}
	return pt, nil
}
