package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submission struct {
	Message   string `json:"message" validate:"required,max=5000"`
	Category  string `json:"category" validate:"omitempty,feedback_category"`
	UserEmail string `json:"userEmail"`
	PageURL   string `json:"pageUrl" validate:"omitempty,url"`
}

func TestValidate_FeedbackCategoryRule(t *testing.T) {
	v := New()

	for _, category := range []string{"general", "bug", "feature", "question"} {
		err := v.Validate(submission{Message: "hi", Category: category})
		assert.NoError(t, err, "category %q should pass", category)
	}

	err := v.Validate(submission{Message: "hi", Category: "complaint"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be one of: general, bug, feature, question", vErr.Errors["category"])
}

func TestValidate_EmptyCategoryAllowed(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(submission{Message: "hi"}))
}

func TestValidate_RequiredUsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(submission{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	// Reported under the wire name, not the Go field name.
	assert.Contains(t, vErr.Errors, "message")
	assert.NotContains(t, vErr.Errors, "Message")
}

func TestValidate_URLRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(submission{Message: "hi", PageURL: "https://example.com/p"}))

	err := v.Validate(submission{Message: "hi", PageURL: "not a url"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a valid URL", vErr.Errors["pageUrl"])
}

func TestValidate_UserEmailNeverRejected(t *testing.T) {
	v := New()
	// The submitter email has no validation tag on purpose: a bad value
	// is dropped downstream, not bounced back to the widget.
	assert.NoError(t, v.Validate(submission{Message: "hi", UserEmail: "garbage"}))
}
