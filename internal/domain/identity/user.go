package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// UserRole controls access to administrative operations
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// AuthProvider identifies how a user authenticates
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// Password cost for bcrypt
const bcryptCost = 12

// User represents a customer account
// It is the aggregate root for user-related operations
type User struct {
	shared.BaseAggregateRoot
	Email        string       `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string       `gorm:"type:varchar(255)"` // empty for OAuth accounts
	Name         string       `gorm:"type:varchar(200);not null"`
	Provider     AuthProvider `gorm:"type:varchar(20);not null;default:'local'"`
	ProviderID   string       `gorm:"type:varchar(255)"` // subject ID at the OAuth provider
	Role         UserRole     `gorm:"type:varchar(20);not null;default:'customer'"`
	Status       UserStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a local user with an email and password
func NewUser(email, password, name string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             normalizeEmail(email),
		PasswordHash:      passwordHash,
		Name:              strings.TrimSpace(name),
		Provider:          ProviderLocal,
		Role:              RoleCustomer,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// NewOAuthUser creates a user from an external identity provider.
// No password is stored; the account authenticates via the provider.
func NewOAuthUser(email, name string, provider AuthProvider, providerID string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if provider != ProviderGoogle {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Unsupported auth provider")
	}
	if providerID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_ID", "Provider ID cannot be empty")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             normalizeEmail(email),
		Name:              strings.TrimSpace(name),
		Provider:          provider,
		ProviderID:        providerID,
		Role:              RoleCustomer,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// IsAdmin returns true if the user may perform administrative operations
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// VerifyPassword verifies if the provided password matches.
// Always false for OAuth accounts, which carry no password hash.
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetName updates the user's display name
func (u *User) SetName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	u.Name = strings.TrimSpace(name)
	u.UpdatedAt = time.Now()

	return nil
}

// ChangePassword changes the user's password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if u.Provider != ProviderLocal {
		return shared.NewDomainError("OAUTH_ACCOUNT", "Password cannot be changed for externally managed accounts")
	}
	if !u.VerifyPassword(oldPassword) {
		return shared.ErrInvalidCredentials
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()

	return nil
}

// LinkProvider attaches an external identity to an existing local account
func (u *User) LinkProvider(provider AuthProvider, providerID string) error {
	if provider != ProviderGoogle {
		return shared.NewDomainError("INVALID_PROVIDER", "Unsupported auth provider")
	}
	if providerID == "" {
		return shared.NewDomainError("INVALID_PROVIDER_ID", "Provider ID cannot be empty")
	}

	u.Provider = provider
	u.ProviderID = providerID
	u.UpdatedAt = time.Now()

	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate deactivates the user
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}

	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()

	u.AddDomainEvent(NewUserDeactivatedEvent(u))

	return nil
}

// IsActive returns true if user is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive
}

// Validation functions

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
