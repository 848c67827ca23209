package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// SubscriptionPlan holds the per-tier ceilings. Seeded at startup;
// the quota guard reads Limits instead of hardcoding tier numbers.
type SubscriptionPlan struct {
	BaseModel
	Name     string         `json:"name" gorm:"uniqueIndex;not null"` // "Free", "Pro"
	Tier     UserPlan       `json:"tier" gorm:"type:varchar(20);uniqueIndex;not null"`
	Price    float64        `json:"price"`
	Currency string         `json:"currency" gorm:"default:'USD'"`
	Limits   datatypes.JSON `json:"limits" gorm:"type:jsonb"` // {"feedback_per_month": 50, "projects": 3}
	IsActive bool           `json:"isActive" gorm:"default:true"`
}

// PlanLimits is the decoded shape of SubscriptionPlan.Limits.
// -1 means unlimited.
type PlanLimits struct {
	FeedbackPerMonth int `json:"feedback_per_month"`
	Projects         int `json:"projects"`
}

func (p *SubscriptionPlan) DecodeLimits() (PlanLimits, error) {
	var limits PlanLimits
	err := json.Unmarshal(p.Limits, &limits)
	return limits, err
}
