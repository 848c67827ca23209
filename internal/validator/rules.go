package validator

import (
	"github.com/go-playground/validator/v10"
)

// feedbackCategories is the closed set accepted at every boundary.
// Unknown categories are rejected, never stored.
var feedbackCategories = map[string]bool{
	"general":  true,
	"bug":      true,
	"feature":  true,
	"question": true,
}

// registerCustomRules wires domain rules into the validator instance.
func registerCustomRules(v *validator.Validate) error {
	return v.RegisterValidation("feedback_category", validateFeedbackCategory)
}

func validateFeedbackCategory(fl validator.FieldLevel) bool {
	return feedbackCategories[fl.Field().String()]
}
