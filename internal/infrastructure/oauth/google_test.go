package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, userInfoBody string, userInfoStatus int) *GoogleVerifier {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-access-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userInfoStatus)
		_, _ = w.Write([]byte(userInfoBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	verifier := NewGoogleVerifier(config.OAuthConfig{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURL:  "http://localhost:3000/auth/callback",
	})
	verifier.config.Endpoint.AuthURL = server.URL + "/auth"
	verifier.config.Endpoint.TokenURL = server.URL + "/token"
	verifier.userInfoURL = server.URL + "/userinfo"
	return verifier
}

func TestGoogleVerifier_ExchangeCode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns verified profile", func(t *testing.T) {
		verifier := newTestVerifier(t,
			`{"id":"sub-123","email":"shopper@example.com","verified_email":true,"name":"Test Shopper"}`,
			http.StatusOK)

		profile, err := verifier.ExchangeCode(ctx, "auth-code")
		require.NoError(t, err)
		assert.Equal(t, "sub-123", profile.Subject)
		assert.Equal(t, "shopper@example.com", profile.Email)
		assert.Equal(t, "Test Shopper", profile.Name)
	})

	t.Run("rejects unverified email", func(t *testing.T) {
		verifier := newTestVerifier(t,
			`{"id":"sub-123","email":"shopper@example.com","verified_email":false}`,
			http.StatusOK)

		_, err := verifier.ExchangeCode(ctx, "auth-code")
		assert.ErrorContains(t, err, "not verified")
	})

	t.Run("rejects missing email", func(t *testing.T) {
		verifier := newTestVerifier(t, `{"id":"sub-123"}`, http.StatusOK)

		_, err := verifier.ExchangeCode(ctx, "auth-code")
		assert.ErrorContains(t, err, "missing an email")
	})

	t.Run("propagates user info failure", func(t *testing.T) {
		verifier := newTestVerifier(t, `{"error":"invalid_token"}`, http.StatusUnauthorized)

		_, err := verifier.ExchangeCode(ctx, "auth-code")
		assert.ErrorContains(t, err, "status 401")
	})
}

func TestGoogleVerifier_AuthURL(t *testing.T) {
	verifier := NewGoogleVerifier(config.OAuthConfig{
		GoogleClientID:    "client-id",
		GoogleRedirectURL: "http://localhost:3000/auth/callback",
	})

	url := verifier.AuthURL("csrf-state")
	assert.Contains(t, url, "state=csrf-state")
	assert.Contains(t, url, "client_id=client-id")
}
