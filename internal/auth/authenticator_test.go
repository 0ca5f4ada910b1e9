package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowAll(t *testing.T) {
	assert.True(t, AllowAll().Authenticate(httptest.NewRequest("GET", "/", nil)))
}

func TestBearerTokenAuthenticate(t *testing.T) {
	tm := NewTokenManager("secret", "audit-service")
	b := NewBearerToken(tm)

	token, err := tm.Sign("u1", "user", time.Minute)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	assert.True(t, b.Authenticate(r))
}

func TestBearerTokenRejectsMissingHeader(t *testing.T) {
	b := NewBearerToken(NewTokenManager("secret", "audit-service"))
	assert.False(t, b.Authenticate(httptest.NewRequest("GET", "/", nil)))
}

func TestBearerTokenRejectsGarbage(t *testing.T) {
	b := NewBearerToken(NewTokenManager("secret", "audit-service"))
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	assert.False(t, b.Authenticate(r))
}

func TestBearerTokenRejectsWrongIssuer(t *testing.T) {
	other := NewTokenManager("secret", "someone-else")
	token, err := other.Sign("u1", "user", time.Minute)
	require.NoError(t, err)

	b := NewBearerToken(NewTokenManager("secret", "audit-service"))
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	assert.False(t, b.Authenticate(r))
}

func TestBearerTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "audit-service")
	token, err := tm.Sign("u1", "user", -time.Minute)
	require.NoError(t, err)

	b := NewBearerToken(tm)
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	assert.False(t, b.Authenticate(r))
}
