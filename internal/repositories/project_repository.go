package repositories

import (
	"context"
	"errors"

	"feedbackbox_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	// FindByIDAndOwner is the tenant-isolation primitive: it never
	// returns a project that does not belong to ownerID.
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Project, error)
	FindByWidgetKey(ctx context.Context, widgetKey string) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *models.Project) error {
	return dbFrom(ctx, r.db).Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Project, error) {
	var project models.Project
	err := dbFrom(ctx, r.db).
		First(&project, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByWidgetKey(ctx context.Context, widgetKey string) (*models.Project, error) {
	var project models.Project
	err := dbFrom(ctx, r.db).First(&project, "widget_key = ?", widgetKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	var projects []models.Project
	err := dbFrom(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Project{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *models.Project) error {
	return dbFrom(ctx, r.db).Save(project).Error
}

// Delete removes the project and its feedback in one transaction.
// The FK cascade covers Postgres; the explicit delete keeps MySQL
// installations without the constraint consistent too.
func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}
