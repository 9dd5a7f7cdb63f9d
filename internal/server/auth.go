package server

import (
	"net/http"
	"strings"

	"lrpalns/internal/auth"
)

// principal extracts the bearer token from r and verifies it. Every
// run-submission endpoint requires one; dev mode accepts a plain
// "workspace:role" token so local use needs no real credential.
func (s *Server) principal(r *http.Request) (auth.Principal, error) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return auth.Principal{}, errMissingBearer
	}
	tok := strings.TrimSpace(authz[len("Bearer "):])
	return s.Auth.Verify(tok)
}

var errMissingBearer = authError("missing bearer token")

type authError string

func (e authError) Error() string { return string(e) }
