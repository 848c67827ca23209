package services

import (
	"feedbackbox_backend/internal/config"
	"feedbackbox_backend/internal/oauth"
	"feedbackbox_backend/internal/pkg/email"
	"feedbackbox_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService      *AuthService
	ProjectService   *ProjectService
	FeedbackService  *FeedbackService
	AnalyticsService *AnalyticsService
	QuotaService     *QuotaService
	BillingService   *BillingService
}

// NewServiceContainer wires repositories and services off the shared DB
// handle. A nil mailer disables owner notifications.
func NewServiceContainer(db *gorm.DB, cfg *config.Config, mailer email.Sender) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)
	planRepo := repositories.NewPlanRepository(db)

	quota := NewQuotaService(userRepo, feedbackRepo, planRepo)
	provider := oauth.NewGoogleProvider(
		cfg.OAuth.GoogleClientID,
		cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
	)

	return &ServiceContainer{
		AuthService:      NewAuthService(userRepo, provider),
		ProjectService:   NewProjectService(projectRepo, userRepo, quota),
		FeedbackService:  NewFeedbackService(projectRepo, feedbackRepo, userRepo, quota, mailer, cfg.Dashboard.BaseURL),
		AnalyticsService: NewAnalyticsService(projectRepo, feedbackRepo),
		QuotaService:     quota,
		BillingService:   NewBillingService(userRepo, cfg),
	}
}
