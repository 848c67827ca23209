package apperrors

import "net/http"

// Domain-specific factories. Ownership failures deliberately surface as
// plain not-found so existence is never leaked to non-owners.

// NewNotFoundError builds a 404 for an absent (or not owned) resource.
func NewNotFoundError(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// NewFeedbackLimitError signals that the owner's monthly feedback quota
// is exhausted. The widget relies on the code, not the message.
func NewFeedbackLimitError(currentCount, maxAllowed int) *AppError {
	return New(CodeFeedbackLimitReached, "quota", "Monthly feedback limit reached", http.StatusTooManyRequests).
		WithDetails(map[string]int{
			"currentCount": currentCount,
			"maxAllowed":   maxAllowed,
		})
}

// NewProjectLimitError signals that the plan's project ceiling is reached.
func NewProjectLimitError(maxAllowed int) *AppError {
	return New(CodeProjectLimitReached, "quota", "Project limit reached for current plan", http.StatusTooManyRequests).
		WithDetails(map[string]int{"maxAllowed": maxAllowed})
}
