package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestDevModeParsesWorkspaceAndRole(t *testing.T) {
	v := &Verifier{Mode: "dev"}
	p, err := v.Verify("acme:admin")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.Workspace != "acme" || p.Role != "admin" {
		t.Fatalf("got %+v", p)
	}
}

func TestDevModeRejectsMalformedToken(t *testing.T) {
	v := &Verifier{Mode: "dev"}
	if _, err := v.Verify("no-colon"); err == nil {
		t.Fatalf("expected an error for a token with no workspace:role separator")
	}
}

func signHS256(secret []byte, claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, _ := json.Marshal(claims)
	payloadB64 := base64.RawURLEncoding.EncodeToString(payload)
	signingInput := header + "." + payloadB64
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signingInput))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return signingInput + "." + sig
}

func TestHMACModeVerifiesValidToken(t *testing.T) {
	secret := []byte("topsecret")
	v := &Verifier{Mode: "hmac", HMACSecret: secret, WorkspaceClaim: "workspace", RoleClaim: "role"}
	token := signHS256(secret, map[string]any{"workspace": "acme", "role": "operator"})
	p, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.Workspace != "acme" || p.Role != "operator" {
		t.Fatalf("got %+v", p)
	}
}

func TestHMACModeRejectsBadSignature(t *testing.T) {
	v := &Verifier{Mode: "hmac", HMACSecret: []byte("topsecret"), WorkspaceClaim: "workspace", RoleClaim: "role"}
	token := signHS256([]byte("wrong-secret"), map[string]any{"workspace": "acme"})
	if _, err := v.Verify(token); err == nil {
		t.Fatalf("expected a signature verification error")
	}
}
