package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
)

// AccountOutcome reports whether a sign-in resolved to an existing account
// or created a new one
type AccountOutcome string

const (
	AccountExisting AccountOutcome = "existing"
	AccountCreated  AccountOutcome = "created"
)

// RegisterInput represents a registration request
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
}

// LoginInput represents a login request
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginInput represents an OAuth code exchange request
type GoogleLoginInput struct {
	Code string `json:"code" binding:"required"`
}

// RefreshInput represents a token refresh request
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput carries the session tokens to revoke. The access token
// comes from the Authorization header; the refresh token is optional.
type LogoutInput struct {
	AccessToken  string
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult represents a successful authentication
type AuthResult struct {
	User    UserResponse   `json:"user"`
	Tokens  auth.TokenPair `json:"tokens"`
	Outcome AccountOutcome `json:"outcome,omitempty"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Provider:  string(u.Provider),
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
