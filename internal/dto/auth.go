package dto

import "feedbackbox_backend/internal/models"

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

type OAuthRedirectResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
