package helpers

import (
	"fmt"
	"testing"
	"time"

	"feedbackbox_backend/internal/auth"
	"feedbackbox_backend/internal/models"

	"gorm.io/gorm"
)

// CreateOwner inserts a user and mints an access token for them. There
// is no password flow: production identity comes from OAuth, so tests
// issue tokens directly.
func CreateOwner(t *testing.T, db *gorm.DB, plan models.UserPlan) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Email: fmt.Sprintf("owner_%d@test.com", time.Now().UnixNano()),
		Name:  "Test Owner",
		Plan:  plan,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to mint test token: %v", err)
	}
	return token, user
}

// CreateProject inserts a project with a deterministic-enough unique key.
func CreateProject(t *testing.T, db *gorm.DB, ownerID, name string) *models.Project {
	t.Helper()

	project := &models.Project{
		OwnerID:   ownerID,
		Name:      name,
		WidgetKey: fmt.Sprintf("wk_test_%d", time.Now().UnixNano()),
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateFeedback inserts a feedback row directly.
func CreateFeedback(t *testing.T, db *gorm.DB, projectID, message string, category models.FeedbackCategory) *models.Feedback {
	t.Helper()

	feedback := &models.Feedback{
		ProjectID: projectID,
		Message:   message,
		Category:  category,
	}
	if err := db.Create(feedback).Error; err != nil {
		t.Fatalf("failed to create test feedback: %v", err)
	}
	return feedback
}
