package models

import "time"

type UserPlan string

const (
	PlanFree UserPlan = "free"
	PlanPro  UserPlan = "pro"
)

type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type PlanCadence string

const (
	CadenceMonthly PlanCadence = "monthly"
	CadenceYearly  PlanCadence = "yearly"
)

// User is a tenant. Identity comes from OAuth sign-in; billing fields
// are written only by the Stripe webhook handler (last write wins).
type User struct {
	BaseModel
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`

	Plan                 UserPlan           `json:"plan" gorm:"type:varchar(20);default:'free'"`
	SubscriptionStatus   SubscriptionStatus `json:"subscriptionStatus" gorm:"type:varchar(20);default:'none'"`
	PlanCadence          PlanCadence        `json:"planCadence" gorm:"type:varchar(20)"`
	StripeCustomerID     string             `json:"-" gorm:"index"`
	StripeSubscriptionID string             `json:"-"`
	CurrentPeriodEnd     *time.Time         `json:"currentPeriodEnd"`

	// Relations
	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:OwnerID"`
}

func (u *User) IsPro() bool {
	return u.Plan == PlanPro
}
