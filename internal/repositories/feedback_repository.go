package repositories

import (
	"context"
	"errors"
	"time"

	"feedbackbox_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackFilter describes the dashboard list query. Category and
// IsRead use the wire values ("all" means no filter).
type FeedbackFilter struct {
	ProjectID string
	Category  string // "", "all" or one of the known categories
	IsRead    string // "", "all", "read", "unread"
	Search    string // case-insensitive substring over message OR user_email
	Page      int
	Limit     int
}

// CategoryCount is one group-by row.
type CategoryCount struct {
	Category string
	Count    int64
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByIDAndProject(ctx context.Context, id, projectID string) (*models.Feedback, error)
	ListWithFilter(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, int64, error)
	Update(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id string) error

	// Quota: feedback volume across all of the owner's projects in a window.
	CountByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) (int64, error)

	// Analytics primitives, all project-scoped.
	CountByProject(ctx context.Context, projectID string) (int64, error)
	CountUnread(ctx context.Context, projectID string) (int64, error)
	CountSince(ctx context.Context, projectID string, since time.Time) (int64, error)
	CountByCategory(ctx context.Context, projectID string) ([]CategoryCount, error)
	// ListCreatedSince returns rows in ascending creation order so
	// bucket assignment stays stable.
	ListCreatedSince(ctx context.Context, projectID string, since time.Time) ([]models.Feedback, error)
}

type FeedbackRepositoryImpl struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &FeedbackRepositoryImpl{db: db}
}

func (r *FeedbackRepositoryImpl) Create(ctx context.Context, feedback *models.Feedback) error {
	return dbFrom(ctx, r.db).Create(feedback).Error
}

func (r *FeedbackRepositoryImpl) FindByIDAndProject(ctx context.Context, id, projectID string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := dbFrom(ctx, r.db).
		First(&feedback, "id = ? AND project_id = ?", id, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepositoryImpl) ListWithFilter(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Feedback{}).
		Where("project_id = ?", filter.ProjectID)

	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}
	switch filter.IsRead {
	case "read":
		query = query.Where("is_read = ?", true)
	case "unread":
		query = query.Where("is_read = ?", false)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(message) LIKE LOWER(?) OR LOWER(user_email) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedbacks []models.Feedback
	offset := (filter.Page - 1) * filter.Limit
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&feedbacks).Error
	if err != nil {
		return nil, 0, err
	}

	return feedbacks, total, nil
}

func (r *FeedbackRepositoryImpl) Update(ctx context.Context, feedback *models.Feedback) error {
	return dbFrom(ctx, r.db).Save(feedback).Error
}

func (r *FeedbackRepositoryImpl) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Delete(&models.Feedback{}, "id = ?", id).Error
}

func (r *FeedbackRepositoryImpl) CountByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Feedback{}).
		Joins("JOIN projects ON projects.id = feedbacks.project_id").
		Where("projects.owner_id = ?", ownerID).
		Where("feedbacks.created_at >= ? AND feedbacks.created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *FeedbackRepositoryImpl) CountByProject(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Feedback{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *FeedbackRepositoryImpl) CountUnread(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Feedback{}).
		Where("project_id = ? AND is_read = ?", projectID, false).
		Count(&count).Error
	return count, err
}

func (r *FeedbackRepositoryImpl) CountSince(ctx context.Context, projectID string, since time.Time) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Feedback{}).
		Where("project_id = ? AND created_at >= ?", projectID, since).
		Count(&count).Error
	return count, err
}

func (r *FeedbackRepositoryImpl) CountByCategory(ctx context.Context, projectID string) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := dbFrom(ctx, r.db).Model(&models.Feedback{}).
		Select("category, COUNT(*) as count").
		Where("project_id = ?", projectID).
		Group("category").
		Scan(&rows).Error
	return rows, err
}

func (r *FeedbackRepositoryImpl) ListCreatedSince(ctx context.Context, projectID string, since time.Time) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := dbFrom(ctx, r.db).
		Where("project_id = ? AND created_at >= ?", projectID, since).
		Order("created_at ASC").
		Find(&feedbacks).Error
	return feedbacks, err
}
