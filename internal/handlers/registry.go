package handlers

// AppHandlers holds all of the application's HTTP handlers.
type AppHandlers struct {
	WidgetHandler    *WidgetHandler
	AuthHandler      *AuthHandler
	ProjectHandler   *ProjectHandler
	FeedbackHandler  *FeedbackHandler
	AnalyticsHandler *AnalyticsHandler
	BillingHandler   *BillingHandler
}
