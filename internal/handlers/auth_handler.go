package handlers

import (
	"net/http"

	"feedbackbox_backend/internal/middleware"
	"feedbackbox_backend/internal/services"
	"feedbackbox_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const stateCookieName = "oauth_state"

type AuthHandler struct {
	*BaseHandler
	authService *services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/google/login", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
		auth.GET("/me", middleware.AuthMiddleware(), h.Me)
	}
}

// GoogleLogin returns the consent URL and pins the CSRF state in a
// short-lived cookie for the callback to check.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	redirect, err := h.authService.BeginLogin(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, redirect.State, 600, "/", "", false, true)
	c.JSON(http.StatusOK, redirect)
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing authorization code"))
		return
	}

	expectedState, err := c.Cookie(stateCookieName)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("OAuth state mismatch"))
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	resp, err := h.authService.HandleCallback(c.Request.Context(), code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
