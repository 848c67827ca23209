package models

import "gorm.io/datatypes"

// Project is the unit a widget embeds against. WidgetKey is the only
// credential the public ingestion endpoint trusts: globally unique and
// immutable after creation.
type Project struct {
	BaseModel
	OwnerID   string         `json:"ownerId" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"not null"`
	Domain    string         `json:"domain"`
	WidgetKey string         `json:"widgetKey" gorm:"uniqueIndex;not null"`
	Settings  datatypes.JSON `json:"settings" gorm:"type:jsonb"` // widget appearance blob

	// Relations
	Owner     *User      `json:"-" gorm:"foreignKey:OwnerID"`
	Feedbacks []Feedback `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}
