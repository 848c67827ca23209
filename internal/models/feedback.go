package models

type FeedbackCategory string

const (
	CategoryGeneral  FeedbackCategory = "general"
	CategoryBug      FeedbackCategory = "bug"
	CategoryFeature  FeedbackCategory = "feature"
	CategoryQuestion FeedbackCategory = "question"
)

// KnownCategories lists the closed category set in presentation order.
var KnownCategories = []FeedbackCategory{
	CategoryGeneral, CategoryBug, CategoryFeature, CategoryQuestion,
}

func (c FeedbackCategory) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryBug, CategoryFeature, CategoryQuestion:
		return true
	}
	return false
}

// Feedback is a single widget submission. Created only by the public
// ingestion endpoint; mutated only by the owning user.
type Feedback struct {
	BaseModel
	ProjectID string           `json:"projectId" gorm:"not null;index"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	Category  FeedbackCategory `json:"category" gorm:"type:varchar(20);not null;default:'general';index"`
	UserEmail string           `json:"userEmail"`
	PageURL   string           `json:"pageUrl" gorm:"size:2000"`
	UserAgent string           `json:"userAgent" gorm:"size:500"`
	IsRead    bool             `json:"isRead" gorm:"default:false;index"`
}
