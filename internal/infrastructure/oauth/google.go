package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleVerifier exchanges OAuth authorization codes with Google and
// fetches the verified profile for the granted token.
type GoogleVerifier struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleVerifier creates a verifier from OAuth provider settings
func NewGoogleVerifier(cfg config.OAuthConfig) *GoogleVerifier {
	return &GoogleVerifier{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// AuthURL returns the consent page URL for the given CSRF state
func (v *GoogleVerifier) AuthURL(state string) string {
	return v.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// ExchangeCode trades an authorization code for the user's profile
func (v *GoogleVerifier) ExchangeCode(ctx context.Context, code string) (*appidentity.GoogleProfile, error) {
	token, err := v.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := v.config.Client(ctx, token)
	resp, err := client.Get(v.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("user info request returned status %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("user info response is missing an email")
	}
	if !info.VerifiedEmail {
		return nil, fmt.Errorf("google account email is not verified")
	}

	return &appidentity.GoogleProfile{
		Subject: info.ID,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}

var _ appidentity.GoogleVerifier = (*GoogleVerifier)(nil)
