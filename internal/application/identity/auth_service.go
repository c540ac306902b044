package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// GoogleProfile is the subset of the OAuth userinfo response the service needs
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier exchanges an authorization code for a verified profile
type GoogleVerifier interface {
	ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error)
}

// AuthService handles registration and authentication
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	google     GoogleVerifier
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	google GoogleVerifier,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		google:     google,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Register creates a local account with an email and password
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrEmailTaken
	}

	user, err := identity.NewUser(input.Email, input.Password, input.Name)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user)
	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.authResult(user, AccountCreated)
}

// Login authenticates a local account. A missing account and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		s.logger.Warn("login attempt for deactivated account", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("invalid password attempt", zap.String("email", email))
		return nil, shared.ErrInvalidCredentials
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("failed to record login", zap.Error(err))
	}

	return s.authResult(user, AccountExisting)
}

// LoginWithGoogle exchanges an OAuth authorization code for a session,
// creating an account on first sign-in. The result's Outcome tells the
// caller which happened.
func (s *AuthService) LoginWithGoogle(ctx context.Context, input GoogleLoginInput) (*AuthResult, error) {
	profile, err := s.google.ExchangeCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("google code exchange failed", zap.Error(err))
		return nil, shared.ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.CanLogin() {
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		if user.Provider == identity.ProviderLocal {
			if linkErr := user.LinkProvider(identity.ProviderGoogle, profile.Subject); linkErr != nil {
				return nil, linkErr
			}
		}
		user.RecordLoginSuccess()
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login", zap.Error(err))
		}
		return s.authResult(user, AccountExisting)

	case errors.Is(err, shared.ErrNotFound):
		user, err = identity.NewOAuthUser(profile.Email, profile.Name, identity.ProviderGoogle, profile.Subject)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, user)
		s.logger.Info("user registered via google",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email))
		return s.authResult(user, AccountCreated)

	default:
		return nil, err
	}
}

// Refresh exchanges a valid refresh token for a new token pair. The
// used refresh token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("failed to check token revocation", zap.Error(err))
			return nil, shared.ErrStorage
		}
		if revoked {
			return nil, shared.ErrUnauthorized
		}
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("failed to revoke used refresh token", zap.Error(err))
		}
	}

	return pair, nil
}

// Logout revokes the session's tokens. Tokens that are already invalid
// are ignored so logout never fails from the caller's point of view.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil {
		return nil
	}

	if claims, err := s.jwtService.ValidateAccessToken(input.AccessToken); err == nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("failed to revoke access token", zap.Error(err))
			return shared.ErrStorage
		}
	}

	if input.RefreshToken == "" {
		return nil
	}
	if claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("failed to revoke refresh token", zap.Error(err))
			return shared.ErrStorage
		}
	}

	return nil
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

func (s *AuthService) authResult(user *identity.User, outcome AccountOutcome) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &AuthResult{
		User:    ToUserResponse(user),
		Tokens:  *pair,
		Outcome: outcome,
	}, nil
}

func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventBus == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	user.ClearDomainEvents()
}
