package services

import (
	"context"

	"feedbackbox_backend/internal/auth"
	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/oauth"
	"feedbackbox_backend/internal/repositories"
	"feedbackbox_backend/pkg/apperrors"
)

// AuthService handles OAuth sign-in and token issuance. There are no
// passwords: Google is the only identity source.
type AuthService struct {
	userRepo repositories.UserRepository
	provider oauth.Provider
}

func NewAuthService(userRepo repositories.UserRepository, provider oauth.Provider) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		provider: provider,
	}
}

// BeginLogin returns the consent URL plus a fresh CSRF state the client
// must echo back on the callback.
func (s *AuthService) BeginLogin(ctx context.Context) (*dto.OAuthRedirectResponse, error) {
	state, err := oauth.GenerateState()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.OAuthRedirectResponse{
		URL:   s.provider.GetConsentURL(state),
		State: state,
	}, nil
}

// HandleCallback exchanges the authorization code, upserts the user by
// email and issues the dashboard access token.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	info, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnauthorized, "auth", "OAuth exchange failed", 401)
	}
	if info.Email == "" {
		return nil, apperrors.NewUnauthorizedError("Provider returned no email")
	}

	user, err := s.upsertUser(ctx, info)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user signed in", "user_id", user.ID, "provider", s.provider.Name())
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

// upsertUser finds the account by email or creates one on first sign-in.
// Profile fields refresh on every login; plan and billing fields do not.
func (s *AuthService) upsertUser(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
		user = &models.User{
			Email:     info.Email,
			Name:      info.Name,
			AvatarURL: info.AvatarURL,
			Plan:      models.PlanFree,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "user created", "user_id", user.ID)
		return user, nil
	}

	if user.Name != info.Name || user.AvatarURL != info.AvatarURL {
		user.Name = info.Name
		user.AvatarURL = info.AvatarURL
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return user, nil
}

// GetUser returns the authenticated account for the /me endpoint.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
