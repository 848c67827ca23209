package handlers

import (
	"net/http"

	"feedbackbox_backend/internal/middleware"
	"feedbackbox_backend/internal/services"
	"feedbackbox_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/projects/:projectId/analytics")
	analytics.Use(middleware.AuthMiddleware())
	{
		analytics.GET("", h.GetAnalytics)
	}
}

func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	rangeStr := c.Query("range")
	switch rangeStr {
	case "", services.RangeToday, services.Range7Days, services.Range30Days:
	default:
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid range: use today, 7d or 30d"))
		return
	}

	resp, err := h.analyticsService.GetProjectAnalytics(c.Request.Context(), userID, c.Param("projectId"), rangeStr)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
