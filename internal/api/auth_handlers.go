package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clipstream/clipstream-server/internal/domain"
	"github.com/clipstream/clipstream-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account. Username and email must be unique.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user by email and password and returns the profile with an access token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)
}

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's public profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32" doc:"Unique username"`
	Email       string `json:"email" validate:"required,email,max=254" doc:"User email address"`
	Password    string `json:"password" validate:"required,min=8,max=1024" doc:"User password"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=64" doc:"Display name shown on the channel"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=500" doc:"Channel description"`
	AvatarURL   string `json:"avatar_url,omitempty" validate:"omitempty,url,max=2048" doc:"Avatar image URL"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"User email"`
	Password string `json:"password" validate:"required,max=1024" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// AuthResponse contains the user profile and an optional access token.
type AuthResponse struct {
	User        domain.Profile `json:"user" doc:"Authenticated user's public profile"`
	AccessToken string         `json:"access_token,omitempty" doc:"PASETO access token"`
	ExpiresIn   int64          `json:"expires_in,omitempty" doc:"Token expiry in seconds"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// ProfileOutput wraps a public profile for Huma.
type ProfileOutput struct {
	Body domain.Profile
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username:    input.Body.Username,
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
		Bio:         input.Body.Bio,
		AvatarURL:   input.Body.AvatarURL,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Auth.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: *profile}, nil
}

// mapAuthResponse converts a service auth response to the API shape.
func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		User:        resp.User,
		AccessToken: resp.AccessToken,
		ExpiresIn:   resp.ExpiresIn,
	}
}
