package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Templates are compiled in rather than read from disk so a bad deploy
// cannot silently break notifications.
const feedbackNotificationTmpl = `
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, Segoe UI, sans-serif; color: #1f2937; max-width: 560px; margin: 0 auto;">
  <h2 style="margin-bottom: 4px;">New {{.Category}} feedback</h2>
  <p style="color: #6b7280; margin-top: 0;">Project: {{.ProjectName}}</p>
  <blockquote style="border-left: 3px solid #6366f1; margin: 16px 0; padding: 8px 16px; background: #f9fafb;">
    {{.Message}}
  </blockquote>
  {{if .UserEmail}}<p>From: <a href="mailto:{{.UserEmail}}">{{.UserEmail}}</a></p>{{end}}
  {{if .PageURL}}<p>Page: <a href="{{.PageURL}}">{{.PageURL}}</a></p>{{end}}
  <p style="margin-top: 24px;">
    <a href="{{.DashboardURL}}" style="background: #6366f1; color: #fff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Open in dashboard</a>
  </p>
</body>
</html>
`

type TemplateManager struct {
	templates map[string]*template.Template
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}

	sources := map[string]string{
		"feedback_notification": feedbackNotificationTmpl,
	}
	for name, src := range sources {
		t, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tm.templates[name] = t
	}

	return tm, nil
}

// Render executes the named template into an HTML string.
func (tm *TemplateManager) Render(name string, data interface{}) (string, error) {
	t, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
