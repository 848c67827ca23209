package email

// Email is one outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// FeedbackNotificationData fills the new-feedback template.
type FeedbackNotificationData struct {
	ProjectName  string
	Category     string
	Message      string
	UserEmail    string // optional
	PageURL      string // optional
	DashboardURL string // deep link back to the project inbox
}

// Sender is the outbound email port. The notification dispatch is
// best-effort; callers must treat failures as log-only.
type Sender interface {
	Send(email *Email) error
	SendFeedbackNotification(to string, data FeedbackNotificationData) error
}
