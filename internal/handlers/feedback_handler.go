package handlers

import (
	"net/http"

	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/middleware"
	"feedbackbox_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler is the dashboard inbox: list, read, triage, delete.
// Everything here is scoped through the project's owner.
type FeedbackHandler struct {
	*BaseHandler
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(base *BaseHandler, feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     base,
		feedbackService: feedbackService,
	}
}

func (h *FeedbackHandler) RegisterRoutes(r *gin.RouterGroup) {
	feedback := r.Group("/projects/:projectId/feedbacks")
	feedback.Use(middleware.AuthMiddleware())
	{
		feedback.GET("", h.List)
		feedback.GET("/:feedbackId", h.Get)
		feedback.PATCH("/:feedbackId", h.Update)
		feedback.DELETE("/:feedbackId", h.Delete)
	}
}

func (h *FeedbackHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.FeedbackListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.feedbackService.List(c.Request.Context(), userID, c.Param("projectId"), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.Get(c.Request.Context(), userID, c.Param("projectId"), c.Param("feedbackId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

func (h *FeedbackHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FeedbackUpdateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	feedback, err := h.feedbackService.Update(c.Request.Context(), userID, c.Param("projectId"), c.Param("feedbackId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.feedbackService.Delete(c.Request.Context(), userID, c.Param("projectId"), c.Param("feedbackId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
