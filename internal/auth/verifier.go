// Package auth provides bearer-token verification for the run submission
// API (§13 of the expanded design): dev tokens for local use and HMAC
// (HS256) JWTs for anything that needs real verification. A JWKS/RSA mode
// existed in the system this is adapted from; a batch-job façade sitting
// in front of a single optimizer process doesn't carry enough surface to
// justify the added complexity, so it is dropped here (see DESIGN.md).
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// Verifier validates bearer tokens and extracts a Principal. Modes: "dev"
// (no verification, token is "workspace:role") and "hmac" (HS256 JWT).
type Verifier struct {
	Mode          string
	HMACSecret    []byte
	WorkspaceClaim string
	RoleClaim     string
}

// Principal is the authenticated caller of a run-submission request.
type Principal struct {
	Workspace string
	Role      string
}

func NewVerifierFromEnv() *Verifier {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if mode == "" {
		mode = "dev"
	}
	return &Verifier{
		Mode:           mode,
		HMACSecret:     []byte(os.Getenv("AUTH_HMAC_SECRET")),
		WorkspaceClaim: envOr("AUTH_WORKSPACE_CLAIM", "workspace"),
		RoleClaim:      envOr("AUTH_ROLE_CLAIM", "role"),
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func (v *Verifier) Verify(token string) (Principal, error) {
	if v.Mode == "dev" {
		parts := strings.Split(token, ":")
		if len(parts) >= 2 {
			return Principal{Workspace: parts[0], Role: parts[1]}, nil
		}
		return Principal{}, errors.New("invalid dev token; expected workspace:role")
	}

	segs := strings.Split(token, ".")
	if len(segs) != 3 {
		return Principal{}, errors.New("invalid JWT")
	}
	headerJSON, err := b64urlDecode(segs[0])
	if err != nil {
		return Principal{}, err
	}
	payloadJSON, err := b64urlDecode(segs[1])
	if err != nil {
		return Principal{}, err
	}
	sig, err := b64urlDecode(segs[2])
	if err != nil {
		return Principal{}, err
	}
	var hdr map[string]any
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return Principal{}, err
	}
	var claims map[string]any
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return Principal{}, err
	}
	alg, _ := hdr["alg"].(string)
	if v.Mode != "hmac" {
		return Principal{}, errors.New("unsupported auth mode")
	}
	if alg != "HS256" {
		return Principal{}, errors.New("unsupported alg for hmac")
	}
	signingInput := []byte(segs[0] + "." + segs[1])
	mac := hmac.New(sha256.New, v.HMACSecret)
	mac.Write(signingInput)
	if !hmac.Equal(mac.Sum(nil), sig) {
		return Principal{}, errors.New("bad signature")
	}

	workspace, _ := claims[v.WorkspaceClaim].(string)
	role, _ := claims[v.RoleClaim].(string)
	if workspace == "" {
		return Principal{}, errors.New("missing workspace claim")
	}
	if role == "" {
		role = "user"
	}
	return Principal{Workspace: workspace, Role: strings.ToLower(role)}, nil
}

func b64urlDecode(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }
