package services

import (
	"context"
	"strings"

	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/repositories"
	"feedbackbox_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type ProjectService struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	quota       *QuotaService
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	quota *QuotaService,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		quota:       quota,
	}
}

// newWidgetKey mints the public widget credential. Prefixed so keys are
// recognizable in support tickets and embed snippets.
func newWidgetKey() string {
	return "wk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *ProjectService) Create(ctx context.Context, ownerID string, req dto.CreateProjectRequest) (*models.Project, error) {
	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	count, err := s.projectRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	allowed, maxAllowed, err := s.quota.CheckProjectQuota(ctx, user, count)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NewProjectLimitError(maxAllowed)
	}

	project := &models.Project{
		OwnerID:   ownerID,
		Name:      req.Name,
		Domain:    req.Domain,
		WidgetKey: newWidgetKey(),
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "project created", "project_id", project.ID, "owner_id", ownerID)
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return projects, nil
}

// Get enforces ownership: a project owned by someone else is reported
// as absent, never as forbidden.
func (s *ProjectService) Get(ctx context.Context, ownerID, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, ownerID, projectID string, req dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.Get(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Domain != nil {
		project.Domain = *req.Domain
	}
	if req.Settings != nil {
		project.Settings = *req.Settings
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID string) error {
	project, err := s.Get(ctx, ownerID, projectID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, project.ID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "project deleted", "project_id", projectID, "owner_id", ownerID)
	return nil
}
