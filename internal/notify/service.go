package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/keva-agency/keva-site/internal/contacts"
	"github.com/keva-agency/keva-site/pkg/logging"
)

// ServiceConfig describes who receives operator notifications.
type ServiceConfig struct {
	Provider      string
	OperatorEmail string
	OperatorName  string
	SiteName      string
}

// Service sends contact notifications to the site operator. A Service built
// with a nil EmailSender is disabled and never attempts delivery.
type Service struct {
	email  EmailSender
	cfg    ServiceConfig
	logger *logging.Logger
	now    func() time.Time
}

// NewService creates a notification service.
func NewService(email EmailSender, cfg ServiceConfig, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "keva.agency"
	}
	if strings.TrimSpace(cfg.OperatorEmail) == "" {
		email = nil
	}
	return &Service{
		email:  email,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Enabled reports whether a sender and operator address are configured.
func (s *Service) Enabled() bool {
	return s != nil && s.email != nil
}

// NotifyContact emails the operator about a saved contact, with the visitor
// as reply-to.
func (s *Service) NotifyContact(ctx context.Context, c *contacts.Contact) contacts.NotificationResult {
	if !s.Enabled() {
		return contacts.NotificationResult{}
	}
	result := contacts.NotificationResult{Attempted: true, Provider: s.cfg.Provider}

	msg, err := s.contactMessage(c)
	if err != nil {
		result.Err = err
		return result
	}
	if err := s.email.Send(ctx, msg); err != nil {
		result.Err = err
	}
	return result
}

// SendTest emails a fixed test message to the operator.
func (s *Service) SendTest(ctx context.Context) contacts.NotificationResult {
	if !s.Enabled() {
		return contacts.NotificationResult{}
	}
	result := contacts.NotificationResult{Attempted: true, Provider: s.cfg.Provider}
	msg := EmailMessage{
		To:      s.cfg.OperatorEmail,
		ToName:  s.cfg.OperatorName,
		Subject: "Test Email from Contact Form API",
		Body:    "This is a test email to verify contact notifications are working.",
		HTML:    "<h1>Test Email</h1><p>This is a test email to verify contact notifications are working.</p>",
	}
	if err := s.email.Send(ctx, msg); err != nil {
		result.Err = err
	}
	return result
}

type contactEmailData struct {
	FullName   string
	Email      string
	Lines      []string
	ReceivedAt string
	SiteName   string
}

var contactHTML = template.Must(template.New("contact").Parse(`<div style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px;">
<h2 style="color: #4F46E5;">New Contact Form Submission</h2>
<p>You have received a new message from your website's contact form.</p>
<hr style="border: none; border-top: 1px solid #eee;">
<p><strong>Name:</strong> {{.FullName}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}" style="color: #4F46E5;">{{.Email}}</a></p>
<h3 style="color: #4F46E5;">Message:</h3>
<p style="background-color: #f4f4f5; padding: 15px; border-radius: 5px; border: 1px solid #e4e4e7;">
{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}
</p>
<hr style="border: none; border-top: 1px solid #eee;">
<p style="font-size: 0.8em; color: #777;">Received: {{.ReceivedAt}}<br>This email was sent automatically from {{.SiteName}}.</p>
</div>`))

func (s *Service) contactMessage(c *contacts.Contact) (EmailMessage, error) {
	received := c.CreatedAt
	if received.IsZero() {
		received = s.now()
	}
	data := contactEmailData{
		FullName:   c.FullName(),
		Email:      c.Email,
		Lines:      splitLines(c.Message),
		ReceivedAt: received.UTC().Format("January 2, 2006 at 3:04 PM MST"),
		SiteName:   s.cfg.SiteName,
	}

	var html bytes.Buffer
	if err := contactHTML.Execute(&html, data); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render contact email: %w", err)
	}

	text := fmt.Sprintf("New contact form submission\n\nName: %s\nEmail: %s\n\nMessage:\n%s\n\nReceived: %s",
		data.FullName, data.Email, c.Message, data.ReceivedAt)

	return EmailMessage{
		To:      s.cfg.OperatorEmail,
		ToName:  s.cfg.OperatorName,
		ReplyTo: c.Email,
		Subject: "New Contact Form Submission from " + data.FullName,
		Body:    text,
		HTML:    html.String(),
	}, nil
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
