package services

import (
	"context"
	"fmt"
	"time"

	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/repositories"
	"feedbackbox_backend/pkg/apperrors"
)

const (
	RangeToday  = "today"
	Range7Days  = "7d"
	Range30Days = "30d"
)

// AnalyticsService aggregates a project's feedback into the dashboard
// counters and the dense chart series. All boundaries are UTC
// wall-clock at the moment the request executes.
type AnalyticsService struct {
	projectRepo  repositories.ProjectRepository
	feedbackRepo repositories.FeedbackRepository
}

func NewAnalyticsService(
	projectRepo repositories.ProjectRepository,
	feedbackRepo repositories.FeedbackRepository,
) *AnalyticsService {
	return &AnalyticsService{
		projectRepo:  projectRepo,
		feedbackRepo: feedbackRepo,
	}
}

func (s *AnalyticsService) GetProjectAnalytics(ctx context.Context, ownerID, projectID, rangeStr string) (*dto.AnalyticsResponse, error) {
	project, err := s.projectRepo.FindByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if rangeStr == "" {
		rangeStr = Range30Days
	}

	now := time.Now().UTC()

	total, err := s.feedbackRepo.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.feedbackRepo.CountUnread(ctx, project.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := s.feedbackRepo.CountSince(ctx, project.ID, midnight)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Rolling 7x24h window. Deliberately not the same notion of "week"
	// as the 7d chart, which uses calendar-day buckets.
	thisWeek, err := s.feedbackRepo.CountSince(ctx, project.ID, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	categoryRows, err := s.feedbackRepo.CountByCategory(ctx, project.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	start := chartWindowStart(rangeStr, now)
	rows, err := s.feedbackRepo.ListCreatedSince(ctx, project.ID, start)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AnalyticsResponse{
		Total:      total,
		Unread:     unread,
		Today:      today,
		ThisWeek:   thisWeek,
		Categories: sumCategories(categoryRows),
		ChartData:  buildChart(rangeStr, now, rows),
	}, nil
}

// sumCategories folds the group-by rows into the fixed-shape map.
// Stored values outside the known four are dropped, not an error.
func sumCategories(rows []repositories.CategoryCount) dto.CategoryCounts {
	var counts dto.CategoryCounts
	for _, row := range rows {
		switch models.FeedbackCategory(row.Category) {
		case models.CategoryGeneral:
			counts.General = int(row.Count)
		case models.CategoryBug:
			counts.Bug = int(row.Count)
		case models.CategoryFeature:
			counts.Feature = int(row.Count)
		case models.CategoryQuestion:
			counts.Question = int(row.Count)
		}
	}
	return counts
}

// chartWindowStart returns the inclusive lower bound of the chart
// window: today's UTC midnight for hourly, or the midnight opening the
// oldest daily bucket so the series ends on the current day.
func chartWindowStart(rangeStr string, now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch rangeStr {
	case RangeToday:
		return midnight
	case Range7Days:
		return midnight.AddDate(0, 0, -6)
	default:
		return midnight.AddDate(0, 0, -29)
	}
}

// buildChart produces the dense series: every bucket pre-seeded with
// zeros, rows folded in ascending creation order. Rows whose stored
// category is outside the known four count toward the bucket total but
// no category field.
func buildChart(rangeStr string, now time.Time, rows []models.Feedback) []dto.ChartPoint {
	start := chartWindowStart(rangeStr, now)

	var points []dto.ChartPoint
	if rangeStr == RangeToday {
		points = make([]dto.ChartPoint, 24)
		for h := 0; h < 24; h++ {
			points[h] = dto.ChartPoint{Label: fmt.Sprintf("%d:00", h)}
		}
	} else {
		days := 30
		if rangeStr == Range7Days {
			days = 7
		}
		points = make([]dto.ChartPoint, days)
		for d := 0; d < days; d++ {
			points[d] = dto.ChartPoint{Label: start.AddDate(0, 0, d).Format("Jan 2")}
		}
	}

	for _, row := range rows {
		created := row.CreatedAt.UTC()
		if created.Before(start) {
			continue
		}

		var idx int
		if rangeStr == RangeToday {
			idx = created.Hour()
		} else {
			idx = int(created.Sub(start) / (24 * time.Hour))
		}
		if idx < 0 || idx >= len(points) {
			continue
		}

		points[idx].Count++
		switch row.Category {
		case models.CategoryGeneral:
			points[idx].General++
		case models.CategoryBug:
			points[idx].Bug++
		case models.CategoryFeature:
			points[idx].Feature++
		case models.CategoryQuestion:
			points[idx].Question++
		}
	}

	return points
}
