package apperrors

// ErrorCode is the machine-readable error code returned to clients.
type ErrorCode string

// Cross-cutting codes.
const (
	// System and unknown failures
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business-logic codes
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"

	// Authentication and authorization
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
)

// Quota codes. These are contractual: the widget and the dashboard key
// their upgrade prompts off of them.
const (
	CodeFeedbackLimitReached ErrorCode = "FEEDBACK_LIMIT_REACHED"
	CodeProjectLimitReached  ErrorCode = "PROJECT_LIMIT_REACHED"
)
