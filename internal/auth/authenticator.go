package auth

import (
	"net/http"
	"strings"
)

// Authenticator decides whether a request may use the audit API. The
// mechanism is pluggable; handlers only ever see the boolean.
type Authenticator interface {
	Authenticate(r *http.Request) bool
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(r *http.Request) bool

func (f AuthenticatorFunc) Authenticate(r *http.Request) bool { return f(r) }

// AllowAll accepts every request, for deployments where the service sits
// behind a trusted gateway that already authenticated the caller.
func AllowAll() Authenticator {
	return AuthenticatorFunc(func(*http.Request) bool { return true })
}

// BearerToken validates an HS256 access token from the Authorization header.
type BearerToken struct {
	tm *TokenManager
}

func NewBearerToken(tm *TokenManager) *BearerToken {
	return &BearerToken{tm: tm}
}

func (b *BearerToken) Authenticate(r *http.Request) bool {
	ah := r.Header.Get("Authorization")
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return false
	}
	token := strings.TrimSpace(ah[len("Bearer "):])
	_, err := b.tm.Parse(token)
	return err == nil
}
