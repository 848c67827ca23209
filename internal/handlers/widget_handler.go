package handlers

import (
	"net/http"

	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/middleware"
	"feedbackbox_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// WidgetHandler serves the unauthenticated embed endpoints. The widget
// key in the payload is the only credential on this surface.
type WidgetHandler struct {
	*BaseHandler
	feedbackService *services.FeedbackService
}

func NewWidgetHandler(base *BaseHandler, feedbackService *services.FeedbackService) *WidgetHandler {
	return &WidgetHandler{
		BaseHandler:     base,
		feedbackService: feedbackService,
	}
}

func (h *WidgetHandler) RegisterRoutes(r *gin.RouterGroup) {
	widget := r.Group("/widget")
	widget.Use(middleware.WidgetCORS())
	{
		widget.POST("/feedback", h.SubmitFeedback)
		widget.OPTIONS("/feedback", h.Preflight)
		widget.GET("/config/:key", h.GetConfig)
		widget.OPTIONS("/config/:key", h.Preflight)
	}
}

// Preflight exists so the CORS middleware runs for OPTIONS; the
// middleware answers before this is reached.
func (h *WidgetHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *WidgetHandler) SubmitFeedback(c *gin.Context) {
	var req dto.WidgetSubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	feedback, err := h.feedbackService.Ingest(c.Request.Context(), req, c.Request.UserAgent())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WidgetSubmissionResponse{
		Success: true,
		ID:      feedback.ID,
	})
}

func (h *WidgetHandler) GetConfig(c *gin.Context) {
	config, err := h.feedbackService.WidgetConfig(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}
