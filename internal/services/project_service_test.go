package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectFixture(t *testing.T) (*ProjectService, *fakeUserRepo, *models.User) {
	t.Helper()
	userRepo := newFakeUserRepo()
	projectRepo := newFakeProjectRepo()
	feedbackRepo := newFakeFeedbackRepo(projectRepo)
	planRepo := newFakePlanRepo()
	seedPlanRows(planRepo)

	svc := NewProjectService(projectRepo, userRepo, NewQuotaService(userRepo, feedbackRepo, planRepo))

	owner := &models.User{Email: "owner@example.com", Plan: models.PlanFree}
	require.NoError(t, userRepo.Create(context.Background(), owner))
	return svc, userRepo, owner
}

func TestCreateProject_GeneratesWidgetKey(t *testing.T) {
	svc, _, owner := newProjectFixture(t)

	project, err := svc.Create(context.Background(), owner.ID, dto.CreateProjectRequest{Name: "My Site"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(project.WidgetKey, "wk_"))
	assert.Greater(t, len(project.WidgetKey), 20)

	// Keys are unique per project.
	other, err := svc.Create(context.Background(), owner.ID, dto.CreateProjectRequest{Name: "Other"})
	require.NoError(t, err)
	assert.NotEqual(t, project.WidgetKey, other.WidgetKey)
}

func TestCreateProject_FreeTierLimit(t *testing.T) {
	svc, _, owner := newProjectFixture(t)
	ctx := context.Background()

	for i := 0; i < FreeProjectLimit; i++ {
		_, err := svc.Create(ctx, owner.ID, dto.CreateProjectRequest{Name: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, owner.ID, dto.CreateProjectRequest{Name: "one too many"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeProjectLimitReached, appErr.Code)
}

func TestCreateProject_ProTierUnlimited(t *testing.T) {
	svc, userRepo, owner := newProjectFixture(t)
	ctx := context.Background()

	owner.Plan = models.PlanPro
	require.NoError(t, userRepo.Update(ctx, owner))

	for i := 0; i < FreeProjectLimit+2; i++ {
		_, err := svc.Create(ctx, owner.ID, dto.CreateProjectRequest{Name: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
	}
}

func TestGetProject_CrossTenantIsNotFound(t *testing.T) {
	svc, userRepo, owner := newProjectFixture(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, owner.ID, dto.CreateProjectRequest{Name: "Mine"})
	require.NoError(t, err)

	intruder := &models.User{Email: "intruder@example.com", Plan: models.PlanFree}
	require.NoError(t, userRepo.Create(ctx, intruder))

	_, err = svc.Get(ctx, intruder.ID, project.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestUpdateProject_PartialPatch(t *testing.T) {
	svc, _, owner := newProjectFixture(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, owner.ID, dto.CreateProjectRequest{Name: "Before", Domain: "before.com"})
	require.NoError(t, err)

	name := "After"
	updated, err := svc.Update(ctx, owner.ID, project.ID, dto.UpdateProjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "before.com", updated.Domain, "omitted fields stay put")
	assert.Equal(t, project.WidgetKey, updated.WidgetKey, "widget key is immutable")
}

func TestDeleteProject(t *testing.T) {
	svc, _, owner := newProjectFixture(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, owner.ID, dto.CreateProjectRequest{Name: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner.ID, project.ID))

	_, err = svc.Get(ctx, owner.ID, project.ID)
	require.Error(t, err)
}
