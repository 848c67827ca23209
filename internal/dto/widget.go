package dto

import "gorm.io/datatypes"

// WidgetSubmissionRequest is the public ingestion payload. userEmail is
// deliberately unvalidated here: a blank or malformed email is dropped
// by the service, never rejected.
type WidgetSubmissionRequest struct {
	ProjectKey string `json:"projectKey" validate:"required"`
	Message    string `json:"message" validate:"required,max=5000"`
	Category   string `json:"category" validate:"omitempty,feedback_category"`
	UserEmail  string `json:"userEmail"`
	PageURL    string `json:"pageUrl" validate:"omitempty,url"`
}

type WidgetSubmissionResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// WidgetConfigResponse feeds the embeddable script its appearance blob.
type WidgetConfigResponse struct {
	ProjectName string         `json:"projectName"`
	Settings    datatypes.JSON `json:"settings"`
}
