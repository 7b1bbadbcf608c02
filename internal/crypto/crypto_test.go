package crypto_test

import (
	"errors"
	"testing"

	"didclient/internal/crypto"
)

func TestFingerprint_StableAndShort(t *testing.T) {
	a := crypto.Fingerprint([]byte("token-a"))
	if a != crypto.Fingerprint([]byte("token-a")) {
		t.Fatal("fingerprint not deterministic")
	}
	if len(a) != 12 {
		t.Fatalf("want 12 hex chars, got %d (%q)", len(a), a)
	}
	if a == crypto.Fingerprint([]byte("token-b")) {
		t.Fatal("distinct inputs share a fingerprint")
	}
}

func TestWipe_ZeroesBuffer(t *testing.T) {
	b := []byte("derived key material")
	crypto.Wipe(b)
	for i, c := range b {
		if c != 0 {
			t.Fatalf("byte %d not wiped: %x", i, c)
		}
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	privPEM, pubPEM, err := crypto.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	priv, err := crypto.ParsePrivateKey([]byte(privPEM))
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	pub, err := crypto.ParsePublicKey([]byte(pubPEM))
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}

	sig, err := crypto.Sign(priv, []byte("hello"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := crypto.Verify(pub, []byte("hello"), sig); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := crypto.Verify(pub, []byte("tampered"), sig); !errors.Is(err, crypto.ErrBadSignature) {
		t.Fatalf("want ErrBadSignature, got %v", err)
	}
	if err := crypto.Verify(pub, []byte("hello"), "%%%"); err == nil {
		t.Fatal("non-base64 signature accepted")
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	if _, err := crypto.ParsePublicKey([]byte("not pem")); !errors.Is(err, crypto.ErrNoPEMBlock) {
		t.Fatalf("want ErrNoPEMBlock, got %v", err)
	}
	if _, err := crypto.ParsePrivateKey(nil); !errors.Is(err, crypto.ErrNoPEMBlock) {
		t.Fatalf("want ErrNoPEMBlock, got %v", err)
	}
}
