package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipstream/clipstream-server/internal/auth"
	"github.com/clipstream/clipstream-server/internal/color"
	"github.com/clipstream/clipstream-server/internal/domain"
	domainerrors "github.com/clipstream/clipstream-server/internal/errors"
	"github.com/clipstream/clipstream-server/internal/id"
	"github.com/clipstream/clipstream-server/internal/store"
)

// AuthService handles registration, login and identity resolution.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"max=64"`
	Bio         string `json:"bio" validate:"max=500"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url,max=2048"`
}

// AuthResponse contains the authenticated user's profile plus an optional
// access token. The profile ID doubles as the legacy identity header value.
type AuthResponse struct {
	User        domain.Profile `json:"user"`
	AccessToken string         `json:"access_token,omitempty"`
	ExpiresIn   int64          `json:"expires_in,omitempty"` // Seconds
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account. Duplicate email or username fails
// with a conflict error naming the duplicated field.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// Check both unique fields up front so the error can name the right one.
	if _, err := s.store.Users.GetByIndex(ctx, "email", req.Email); err == nil {
		return nil, domainerrors.Conflict("email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.store.Users.GetByIndex(ctx, "username", req.Username); err == nil {
		return nil, domainerrors.Conflict("username already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		AvatarURL:    req.AvatarURL,
		AvatarColor:  color.ForUser(userID),
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration.
			return nil, domainerrors.Conflict("email or username already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User registered", "user_id", userID, "username", user.Username)
	}

	return s.authResponse(user)
}

// Login verifies credentials by email. Unknown email and wrong password
// fail with the same invalid-credentials error so callers cannot
// enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials()
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return s.authResponse(user)
}

// Resolve maps an identity token to a validated existing user ID.
// Accepts either a raw user ID (the legacy trust-on-header contract) or a
// PASETO access token. Absent or unknown tokens fail with an
// authentication error.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerrors.Unauthorized("identity token required")
	}

	// Access tokens carry their own verified user ID.
	if strings.HasPrefix(token, "v4.local.") && s.tokenService != nil {
		claims, err := s.tokenService.VerifyAccessToken(token)
		if err != nil {
			return "", domainerrors.Unauthorized("invalid access token").WithCause(err)
		}
		token = claims.UserID
	}

	// A raw ID must resolve to an existing user.
	if _, err := s.store.Users.Get(ctx, token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domainerrors.Unauthorized("unknown user")
		}
		return "", fmt.Errorf("resolve user: %w", err)
	}

	return token, nil
}

// GetProfile returns a user's public profile.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	profile := user.Profile()
	return &profile, nil
}

// authResponse builds the profile-plus-token response for a user.
func (s *AuthService) authResponse(user *domain.User) (*AuthResponse, error) {
	resp := &AuthResponse{User: user.Profile()}

	if s.tokenService != nil {
		token, err := s.tokenService.GenerateAccessToken(user)
		if err != nil {
			return nil, fmt.Errorf("generate access token: %w", err)
		}
		resp.AccessToken = token
		resp.ExpiresIn = int64(s.tokenService.AccessTokenDuration().Seconds())
	}

	return resp, nil
}
