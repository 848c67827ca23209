package dto

import "feedbackbox_backend/internal/models"

// FeedbackListQuery are the dashboard list filters.
type FeedbackListQuery struct {
	Category string `form:"category" validate:"omitempty,oneof=all general bug feature question"`
	IsRead   string `form:"isRead" validate:"omitempty,oneof=all read unread"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// FeedbackUpdateRequest is a partial patch; only these two fields are
// owner-mutable, anything else in the body is ignored.
type FeedbackUpdateRequest struct {
	IsRead   *bool   `json:"isRead"`
	Category *string `json:"category" validate:"omitempty,feedback_category"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type FeedbackListResponse struct {
	Feedbacks  []models.Feedback `json:"feedbacks"`
	Pagination Pagination        `json:"pagination"`
}
