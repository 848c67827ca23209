package services

import (
	"context"
	"time"

	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/repositories"
	"feedbackbox_backend/pkg/apperrors"
)

// QuotaResult reports whether the tenant may accept more feedback this
// calendar month.
type QuotaResult struct {
	Allowed      bool `json:"allowed"`
	CurrentCount int  `json:"currentCount"`
	MaxAllowed   int  `json:"maxAllowed"`
}

// QuotaService is the read-only quota guard. It never reserves or
// decrements: two submissions racing at the ceiling may both land,
// which is acceptable for a soft monthly cap.
type QuotaService struct {
	userRepo     repositories.UserRepository
	feedbackRepo repositories.FeedbackRepository
	planRepo     repositories.PlanRepository
}

func NewQuotaService(
	userRepo repositories.UserRepository,
	feedbackRepo repositories.FeedbackRepository,
	planRepo repositories.PlanRepository,
) *QuotaService {
	return &QuotaService{
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		planRepo:     planRepo,
	}
}

// monthWindowUTC returns the [start, end) bounds of t's calendar month.
// All quota accounting is UTC.
func monthWindowUTC(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// CheckFeedbackQuota decides whether the owner's aggregate feedback
// volume for the current month is below the tier ceiling. An unknown
// owner is treated as not allowed.
func (s *QuotaService) CheckFeedbackQuota(ctx context.Context, ownerID string) (QuotaResult, error) {
	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWarn(ctx, "quota check for unknown owner", "owner_id", ownerID)
			return QuotaResult{Allowed: false}, nil
		}
		return QuotaResult{}, apperrors.InternalError(err)
	}

	limits, err := s.planLimits(ctx, user.Plan)
	if err != nil {
		return QuotaResult{}, err
	}

	from, to := monthWindowUTC(time.Now())
	count, err := s.feedbackRepo.CountByOwnerBetween(ctx, ownerID, from, to)
	if err != nil {
		return QuotaResult{}, apperrors.InternalError(err)
	}

	result := QuotaResult{
		CurrentCount: int(count),
		MaxAllowed:   limits.FeedbackPerMonth,
	}
	result.Allowed = limits.FeedbackPerMonth < 0 || int(count) < limits.FeedbackPerMonth
	return result, nil
}

// CheckProjectQuota decides whether the owner may create another project.
func (s *QuotaService) CheckProjectQuota(ctx context.Context, user *models.User, currentProjects int64) (bool, int, error) {
	limits, err := s.planLimits(ctx, user.Plan)
	if err != nil {
		return false, 0, err
	}
	if limits.Projects < 0 {
		return true, limits.Projects, nil
	}
	return currentProjects < int64(limits.Projects), limits.Projects, nil
}

func (s *QuotaService) planLimits(ctx context.Context, tier models.UserPlan) (models.PlanLimits, error) {
	plan, err := s.planRepo.FindByTier(ctx, tier)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			// Unknown tier falls back to free ceilings rather than
			// failing the submission path.
			logger.CtxWarn(ctx, "no plan row for tier, using free fallback", "tier", tier)
			return models.PlanLimits{FeedbackPerMonth: FreeMonthlyFeedbackLimit, Projects: FreeProjectLimit}, nil
		}
		return models.PlanLimits{}, apperrors.InternalError(err)
	}

	limits, err := plan.DecodeLimits()
	if err != nil {
		return models.PlanLimits{}, apperrors.InternalError(err)
	}
	return limits, nil
}

// Authoritative tier ceilings, used to seed the plan rows.
const (
	FreeMonthlyFeedbackLimit = 50
	FreeProjectLimit         = 3
	ProMonthlyFeedbackLimit  = 1000
	UnlimitedProjects        = -1
)
