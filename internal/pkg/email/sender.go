package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers mail over SMTP via gomail.
type SMTPSender struct {
	config    Config
	templates *TemplateManager
	dialer    *gomail.Dialer
}

func NewSMTPSender(config Config) (Sender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &SMTPSender{
		config:    config,
		templates: tm,
		dialer:    gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password),
	}, nil
}

func (s *SMTPSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
	}
	if email.HTMLBody != "" {
		if email.Body != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		} else {
			m.SetBody("text/html", email.HTMLBody)
		}
	}

	return s.dialer.DialAndSend(m)
}

// SendFeedbackNotification sends the owner the "new feedback" email.
func (s *SMTPSender) SendFeedbackNotification(to string, data FeedbackNotificationData) error {
	htmlBody, err := s.templates.Render("feedback_notification", data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	textBody := fmt.Sprintf("New %s feedback on %s:\n\n%s\n\nOpen the dashboard: %s",
		data.Category, data.ProjectName, data.Message, data.DashboardURL)

	return s.Send(&Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("New %s feedback on %s", data.Category, data.ProjectName),
		Body:     textBody,
		HTMLBody: htmlBody,
	})
}
