package dto

import "gorm.io/datatypes"

type CreateProjectRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Domain string `json:"domain" validate:"omitempty,max=255"`
}

// UpdateProjectRequest is a partial patch. The widget key is immutable
// and intentionally absent.
type UpdateProjectRequest struct {
	Name     *string         `json:"name" validate:"omitempty,max=200"`
	Domain   *string         `json:"domain" validate:"omitempty,max=255"`
	Settings *datatypes.JSON `json:"settings"`
}
