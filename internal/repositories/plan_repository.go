package repositories

import (
	"context"
	"errors"

	"feedbackbox_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("subscription plan not found")

type PlanRepository interface {
	FindByTier(ctx context.Context, tier models.UserPlan) (*models.SubscriptionPlan, error)
	// EnsureSeeded creates the plan when missing. Existing rows are left
	// untouched so operators can tune ceilings in place.
	EnsureSeeded(ctx context.Context, plan *models.SubscriptionPlan) error
}

type PlanRepositoryImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &PlanRepositoryImpl{db: db}
}

func (r *PlanRepositoryImpl) FindByTier(ctx context.Context, tier models.UserPlan) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := dbFrom(ctx, r.db).
		First(&plan, "tier = ? AND is_active = ?", tier, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepositoryImpl) EnsureSeeded(ctx context.Context, plan *models.SubscriptionPlan) error {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&models.SubscriptionPlan{}).
		Where("tier = ?", plan.Tier).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(plan).Error
}
