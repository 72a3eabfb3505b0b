package service

import (
	"context"
	"errors"

	"workorder-api/internal/apperror"
	"workorder-api/internal/auth"
	"workorder-api/internal/models"

	"github.com/rs/zerolog/log"
)

// AuthService forwards credential operations to the hosted auth provider.
type AuthService struct {
	provider AuthProvider
}

// AuthProvider interface for dependency injection
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (*models.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// NewAuthService creates a new auth service
func NewAuthService(provider AuthProvider) *AuthService {
	return &AuthService{provider: provider}
}

// providerError keeps the provider's message for rejected requests and hides
// transport failures behind a generic upstream error.
func providerError(err error, kind apperror.Kind) error {
	var perr *auth.ProviderError
	if errors.As(err, &perr) {
		return &apperror.Error{Kind: kind, Message: perr.Message, Err: err}
	}
	return apperror.Upstream("Authentication service unavailable", err)
}

func (s *AuthService) SignUp(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	resp, err := s.provider.SignUp(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, providerError(err, apperror.KindValidation)
	}
	return resp, nil
}

func (s *AuthService) SignIn(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	resp, err := s.provider.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, providerError(err, apperror.KindUnauthorized)
	}
	return resp, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	resp, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, providerError(err, apperror.KindUnauthorized)
	}
	return resp, nil
}

// Authenticate resolves a bearer token into its user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return nil, providerError(err, apperror.KindUnauthorized)
	}
	return user, nil
}

// SignOut revokes the session on the provider. Failures are logged, not returned.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) models.MessageResponse {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		log.Warn().Err(err).Msg("auth provider sign out failed")
	}
	return models.MessageResponse{Message: "Successfully signed out"}
}
