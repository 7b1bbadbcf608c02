package types_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"didclient/internal/domain/types"
)

func TestSignupRequest_Validate(t *testing.T) {
	ok := types.SignupRequest{Username: "alice", Email: "a@b.com", Password: "pw"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	for _, bad := range []types.SignupRequest{
		{Email: "a@b.com", Password: "pw"},
		{Username: "alice", Email: "not-an-email", Password: "pw"},
		{Username: "alice", Email: "a@b.com"},
		{Username: types.Username(strings.Repeat("x", 65)), Email: "a@b.com", Password: "pw"},
	} {
		if err := bad.Validate(); err == nil {
			t.Fatalf("invalid request accepted: %+v", bad)
		}
	}
}

func TestLoginRequest_ValidateAndWire(t *testing.T) {
	if err := (types.LoginRequest{Password: "pw"}).Validate(); err == nil {
		t.Fatal("login without email or username accepted")
	}
	req := types.LoginRequest{Email: "a@b.com", Password: "pw"}
	if err := req.Validate(); err != nil {
		t.Fatalf("email login rejected: %v", err)
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"email":"a@b.com","password":"pw"}` {
		t.Fatalf("unexpected wire form %s", b)
	}
}

func TestVerifyRequest_Validate(t *testing.T) {
	if err := (types.VerifyRequest{Username: "a", Message: "m", Signature: "c2ln"}).Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := (types.VerifyRequest{Username: "a", Message: "m", Signature: "not base64!"}).Validate(); err == nil {
		t.Fatal("bad signature accepted")
	}
}

func TestLoginResult_Bearer(t *testing.T) {
	var r types.LoginResult
	if err := json.Unmarshal([]byte(`{"token":"t1"}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Bearer() != "t1" {
		t.Fatalf("Bearer() = %q", r.Bearer())
	}
	r.AccessToken = "t2"
	if r.Bearer() != "t2" {
		t.Fatal("access_token should win")
	}
}

func TestToken_LogValueHidesSecret(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	log.Info("x", "token", types.Token("super-secret-token"))

	if strings.Contains(buf.String(), "super-secret-token") {
		t.Fatalf("raw token logged: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "token=fp:") {
		t.Fatalf("fingerprint missing: %s", buf.String())
	}
}
