package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/pkg/email"
	"feedbackbox_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// In-memory repository fakes. They implement the same contracts as the
// GORM-backed implementations, minus SQL.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByStripeCustomerID(_ context.Context, customerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.StripeCustomerID == customerID {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copy := *user
	r.users[user.ID] = &copy
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copy := *user
	r.users[user.ID] = &copy
	return nil
}

func (r *fakeUserRepo) UpdateBilling(_ context.Context, userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for k, v := range fields {
		switch k {
		case "plan":
			u.Plan = v.(models.UserPlan)
		case "subscription_status":
			u.SubscriptionStatus = v.(models.SubscriptionStatus)
		case "plan_cadence":
			u.PlanCadence = v.(models.PlanCadence)
		case "stripe_customer_id":
			u.StripeCustomerID = v.(string)
		case "stripe_subscription_id":
			u.StripeSubscriptionID = v.(string)
		case "current_period_end":
			t := v.(time.Time)
			u.CurrentPeriodEnd = &t
		}
	}
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*models.Project{}}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = time.Now().UTC()
	copy := *project
	r.projects[project.ID] = &copy
	return nil
}

func (r *fakeProjectRepo) FindByIDAndOwner(_ context.Context, id, ownerID string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.projects[id]; ok && p.OwnerID == ownerID {
		copy := *p
		return &copy, nil
	}
	return nil, repositories.ErrProjectNotFound
}

func (r *fakeProjectRepo) FindByWidgetKey(_ context.Context, widgetKey string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.WidgetKey == widgetKey {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repositories.ErrProjectNotFound
}

func (r *fakeProjectRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProjectRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return repositories.ErrProjectNotFound
	}
	copy := *project
	r.projects[project.ID] = &copy
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

type fakeFeedbackRepo struct {
	mu        sync.Mutex
	feedbacks map[string]*models.Feedback
	projects  *fakeProjectRepo // for owner joins
}

func newFakeFeedbackRepo(projects *fakeProjectRepo) *fakeFeedbackRepo {
	return &fakeFeedbackRepo{
		feedbacks: map[string]*models.Feedback{},
		projects:  projects,
	}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	copy := *feedback
	r.feedbacks[feedback.ID] = &copy
	return nil
}

func (r *fakeFeedbackRepo) FindByIDAndProject(_ context.Context, id, projectID string) (*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.feedbacks[id]; ok && f.ProjectID == projectID {
		copy := *f
		return &copy, nil
	}
	return nil, repositories.ErrFeedbackNotFound
}

func (r *fakeFeedbackRepo) ListWithFilter(_ context.Context, filter repositories.FeedbackFilter) ([]models.Feedback, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Feedback
	for _, f := range r.feedbacks {
		if f.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && string(f.Category) != filter.Category {
			continue
		}
		if filter.IsRead == "read" && !f.IsRead {
			continue
		}
		if filter.IsRead == "unread" && f.IsRead {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(f.Message), needle) &&
				!strings.Contains(strings.ToLower(f.UserEmail), needle) {
				continue
			}
		}
		matched = append(matched, *f)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))

	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeFeedbackRepo) Update(_ context.Context, feedback *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feedbacks[feedback.ID]; !ok {
		return repositories.ErrFeedbackNotFound
	}
	copy := *feedback
	r.feedbacks[feedback.ID] = &copy
	return nil
}

func (r *fakeFeedbackRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.feedbacks, id)
	return nil
}

func (r *fakeFeedbackRepo) CountByOwnerBetween(_ context.Context, ownerID string, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects.mu.Lock()
	defer r.projects.mu.Unlock()

	var count int64
	for _, f := range r.feedbacks {
		p, ok := r.projects.projects[f.ProjectID]
		if !ok || p.OwnerID != ownerID {
			continue
		}
		if !f.CreatedAt.Before(from) && f.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r *fakeFeedbackRepo) CountByProject(_ context.Context, projectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, f := range r.feedbacks {
		if f.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFeedbackRepo) CountUnread(_ context.Context, projectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, f := range r.feedbacks {
		if f.ProjectID == projectID && !f.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeFeedbackRepo) CountSince(_ context.Context, projectID string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, f := range r.feedbacks {
		if f.ProjectID == projectID && !f.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeFeedbackRepo) CountByCategory(_ context.Context, projectID string) ([]repositories.CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, f := range r.feedbacks {
		if f.ProjectID == projectID {
			counts[string(f.Category)]++
		}
	}
	var rows []repositories.CategoryCount
	for cat, count := range counts {
		rows = append(rows, repositories.CategoryCount{Category: cat, Count: count})
	}
	return rows, nil
}

func (r *fakeFeedbackRepo) ListCreatedSince(_ context.Context, projectID string, since time.Time) ([]models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Feedback
	for _, f := range r.feedbacks {
		if f.ProjectID == projectID && !f.CreatedAt.Before(since) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[models.UserPlan]*models.SubscriptionPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[models.UserPlan]*models.SubscriptionPlan{}}
}

func (r *fakePlanRepo) FindByTier(_ context.Context, tier models.UserPlan) (*models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plans[tier]; ok && p.IsActive {
		copy := *p
		return &copy, nil
	}
	return nil, repositories.ErrPlanNotFound
}

func (r *fakePlanRepo) EnsureSeeded(_ context.Context, plan *models.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.Tier]; ok {
		return nil
	}
	copy := *plan
	r.plans[plan.Tier] = &copy
	return nil
}

// recordingMailer captures notifications instead of dialing SMTP.
type recordingMailer struct {
	mu   sync.Mutex
	sent []struct {
		To   string
		Data email.FeedbackNotificationData
	}
	fail error
}

func (m *recordingMailer) Send(*email.Email) error {
	return m.fail
}

func (m *recordingMailer) SendFeedbackNotification(to string, data email.FeedbackNotificationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, struct {
		To   string
		Data email.FeedbackNotificationData
	}{to, data})
	return nil
}

func (m *recordingMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// seedPlanRows loads the standard free/pro ceilings into a fake plan repo.
func seedPlanRows(repo *fakePlanRepo) {
	for tier, limits := range map[models.UserPlan]models.PlanLimits{
		models.PlanFree: {FeedbackPerMonth: FreeMonthlyFeedbackLimit, Projects: FreeProjectLimit},
		models.PlanPro:  {FeedbackPerMonth: ProMonthlyFeedbackLimit, Projects: UnlimitedProjects},
	} {
		raw, _ := json.Marshal(limits)
		_ = repo.EnsureSeeded(context.Background(), &models.SubscriptionPlan{
			Name:     string(tier),
			Tier:     tier,
			Limits:   datatypes.JSON(raw),
			IsActive: true,
		})
	}
}
