package identity

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const (
	AggregateTypeUser = "User"
)

// Event type constants
const (
	EventTypeUserRegistered  = "user.registered"
	EventTypeUserDeactivated = "user.deactivated"
)

// UserRegisteredEvent is emitted when a new account is created, whether by
// password registration or first OAuth sign-in
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Provider AuthProvider `json:"provider"`
}

// NewUserRegisteredEvent creates a user registered event
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Name:            user.Name,
		Provider:        user.Provider,
	}
}

// UserDeactivatedEvent is emitted when an account is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserDeactivatedEvent creates a user deactivated event
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
}
