package services

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strings"

	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/pkg/email"
	"feedbackbox_backend/internal/repositories"
	"feedbackbox_backend/pkg/apperrors"
)

type FeedbackService struct {
	projectRepo  repositories.ProjectRepository
	feedbackRepo repositories.FeedbackRepository
	userRepo     repositories.UserRepository
	quota        *QuotaService
	mailer       email.Sender // nil disables notifications
	dashboardURL string
}

func NewFeedbackService(
	projectRepo repositories.ProjectRepository,
	feedbackRepo repositories.FeedbackRepository,
	userRepo repositories.UserRepository,
	quota *QuotaService,
	mailer email.Sender,
	dashboardURL string,
) *FeedbackService {
	return &FeedbackService{
		projectRepo:  projectRepo,
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		quota:        quota,
		mailer:       mailer,
		dashboardURL: dashboardURL,
	}
}

// sanitizeSubmitterEmail drops blank or malformed emails instead of
// rejecting the submission: the message is the payload, the email a
// nice-to-have.
func sanitizeSubmitterEmail(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return ""
	}
	return addr.Address
}

// Ingest is the public submission path: resolve the project by widget
// key, apply the quota guard against the owner, persist, then kick off
// the best-effort owner notification.
func (s *FeedbackService) Ingest(ctx context.Context, req dto.WidgetSubmissionRequest, userAgent string) (*models.Feedback, error) {
	project, err := s.projectRepo.FindByWidgetKey(ctx, req.ProjectKey)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("widget", "Unknown project key")
		}
		return nil, apperrors.InternalError(err)
	}

	quota, err := s.quota.CheckFeedbackQuota(ctx, project.OwnerID)
	if err != nil {
		return nil, err
	}
	if !quota.Allowed {
		return nil, apperrors.NewFeedbackLimitError(quota.CurrentCount, quota.MaxAllowed)
	}

	category := models.FeedbackCategory(req.Category)
	if category == "" {
		category = models.CategoryGeneral
	}

	feedback := &models.Feedback{
		ProjectID: project.ID,
		Message:   req.Message,
		Category:  category,
		UserEmail: sanitizeSubmitterEmail(req.UserEmail),
		PageURL:   req.PageURL,
		UserAgent: userAgent,
		IsRead:    false,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Fire-and-forget: the feedback row is authoritative, the email a
	// convenience. Runs on a fresh context so the HTTP request ending
	// cannot cancel it.
	go s.notifyOwner(context.Background(), project, feedback)

	return feedback, nil
}

func (s *FeedbackService) notifyOwner(ctx context.Context, project *models.Project, feedback *models.Feedback) {
	if s.mailer == nil {
		return
	}

	owner, err := s.userRepo.FindByID(ctx, project.OwnerID)
	if err != nil {
		logger.CtxWithError(ctx, "notification skipped: owner lookup failed", err, "project_id", project.ID)
		return
	}
	if owner.Email == "" {
		return
	}

	data := email.FeedbackNotificationData{
		ProjectName:  project.Name,
		Category:     string(feedback.Category),
		Message:      feedback.Message,
		UserEmail:    feedback.UserEmail,
		PageURL:      feedback.PageURL,
		DashboardURL: fmt.Sprintf("%s/projects/%s/feedback", strings.TrimRight(s.dashboardURL, "/"), project.ID),
	}
	if err := s.mailer.SendFeedbackNotification(owner.Email, data); err != nil {
		logger.CtxWithError(ctx, "failed to send feedback notification", err,
			"project_id", project.ID, "feedback_id", feedback.ID)
	}
}

// WidgetConfig returns the public appearance blob for the embed script.
func (s *FeedbackService) WidgetConfig(ctx context.Context, widgetKey string) (*dto.WidgetConfigResponse, error) {
	project, err := s.projectRepo.FindByWidgetKey(ctx, widgetKey)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("widget", "Unknown project key")
		}
		return nil, apperrors.InternalError(err)
	}
	return &dto.WidgetConfigResponse{
		ProjectName: project.Name,
		Settings:    project.Settings,
	}, nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// List returns the tenant-scoped, filtered, paginated feedback inbox.
func (s *FeedbackService) List(ctx context.Context, ownerID, projectID string, query dto.FeedbackListQuery) (*dto.FeedbackListResponse, error) {
	project, err := s.requireOwnedProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	feedbacks, total, err := s.feedbackRepo.ListWithFilter(ctx, repositories.FeedbackFilter{
		ProjectID: project.ID,
		Category:  query.Category,
		IsRead:    query.IsRead,
		Search:    query.Search,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}

	return &dto.FeedbackListResponse{
		Feedbacks: feedbacks,
		Pagination: dto.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *FeedbackService) Get(ctx context.Context, ownerID, projectID, feedbackID string) (*models.Feedback, error) {
	project, err := s.requireOwnedProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	return s.findFeedback(ctx, project.ID, feedbackID)
}

// Update applies the partial patch. Only isRead and category are
// owner-mutable; repeating the same patch is a no-op.
func (s *FeedbackService) Update(ctx context.Context, ownerID, projectID, feedbackID string, req dto.FeedbackUpdateRequest) (*models.Feedback, error) {
	project, err := s.requireOwnedProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	feedback, err := s.findFeedback(ctx, project.ID, feedbackID)
	if err != nil {
		return nil, err
	}

	if req.IsRead != nil {
		feedback.IsRead = *req.IsRead
	}
	if req.Category != nil {
		feedback.Category = models.FeedbackCategory(*req.Category)
	}

	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return feedback, nil
}

// Delete is a hard delete; there is no tombstone.
func (s *FeedbackService) Delete(ctx context.Context, ownerID, projectID, feedbackID string) error {
	project, err := s.requireOwnedProject(ctx, ownerID, projectID)
	if err != nil {
		return err
	}

	feedback, err := s.findFeedback(ctx, project.ID, feedbackID)
	if err != nil {
		return err
	}

	if err := s.feedbackRepo.Delete(ctx, feedback.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *FeedbackService) requireOwnedProject(ctx context.Context, ownerID, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *FeedbackService) findFeedback(ctx context.Context, projectID, feedbackID string) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.FindByIDAndProject(ctx, feedbackID, projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFeedbackNotFound) {
			return nil, apperrors.NewNotFoundError("feedback", "Feedback not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return feedback, nil
}
