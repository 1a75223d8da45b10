package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthProvider decorates an outbound request with credentials.
type AuthProvider interface {
	Apply(req *http.Request) error
}

// BasicTokenAuth sends "Authorization: Basic <token>".
// A token of the form "user:secret" is encoded first; anything else is assumed to be pre-encoded.
type BasicTokenAuth struct {
	Token string
}

func (a BasicTokenAuth) Apply(req *http.Request) error {
	token := strings.TrimSpace(a.Token)
	if token == "" {
		return errors.New("empty basic token")
	}
	if strings.Contains(token, ":") {
		token = base64.StdEncoding.EncodeToString([]byte(token))
	}
	req.Header.Set("Authorization", "Basic "+token)
	return nil
}

// BearerAuth sends "Authorization: Bearer <token>".
type BearerAuth struct {
	Token string
}

func (a BearerAuth) Apply(req *http.Request) error {
	token := strings.TrimSpace(a.Token)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[len("bearer "):])
	}
	if token == "" {
		return errors.New("empty bearer token")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// NewAuth returns the provider for the configured scheme ("basic" or "bearer").
func NewAuth(scheme, token string) AuthProvider {
	if strings.EqualFold(scheme, "bearer") {
		return BearerAuth{Token: token}
	}
	return BasicTokenAuth{Token: token}
}

// SanitizeHeaders returns a copy of h with credentials redacted, safe for logging.
func SanitizeHeaders(h http.Header) http.Header {
	clean := http.Header{}
	for k, vals := range h {
		switch strings.ToLower(k) {
		case "authorization", "cookie", "set-cookie":
			clean[k] = []string{"<redacted>"}
		default:
			clean[k] = append([]string{}, vals...)
		}
	}
	return clean
}
