package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/keva-agency/keva-site/internal/contacts"
)

type mockEmailSender struct {
	sent    []EmailMessage
	callErr error
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.callErr != nil {
		return m.callErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testContact() *contacts.Contact {
	last := "Lovelace"
	return &contacts.Contact{
		ID:        "c-1",
		FirstName: "Ada",
		LastName:  &last,
		Email:     "ada@example.com",
		Message:   "Hello\nWorld <script>alert(1)</script>",
		CreatedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}
}

func TestService_NotifyContact(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, ServiceConfig{Provider: "sendgrid", OperatorEmail: "ops@keva.agency"}, nil)

	result := svc.NotifyContact(context.Background(), testContact())

	if !result.Attempted || result.Err != nil || result.Provider != "sendgrid" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "ops@keva.agency" {
		t.Errorf("expected operator recipient, got %q", msg.To)
	}
	if msg.ReplyTo != "ada@example.com" {
		t.Errorf("expected submitter as reply-to, got %q", msg.ReplyTo)
	}
	if msg.Subject != "New Contact Form Submission from Ada Lovelace" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Hello<br>World") {
		t.Errorf("expected line breaks preserved as <br>, got %s", msg.HTML)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Errorf("expected message to be escaped")
	}
	if !strings.Contains(msg.Body, "Hello\nWorld") {
		t.Errorf("expected plain text body to keep newlines")
	}
}

func TestService_NotifyContact_NoLastName(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, ServiceConfig{OperatorEmail: "ops@keva.agency"}, nil)
	c := testContact()
	c.LastName = nil

	svc.NotifyContact(context.Background(), c)

	if got := sender.sent[0].Subject; got != "New Contact Form Submission from Ada" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestService_NotifyContact_SendError(t *testing.T) {
	sender := &mockEmailSender{callErr: errors.New("sendgrid 500")}
	svc := NewService(sender, ServiceConfig{Provider: "sendgrid", OperatorEmail: "ops@keva.agency"}, nil)

	result := svc.NotifyContact(context.Background(), testContact())

	if !result.Attempted || result.Err == nil {
		t.Fatalf("expected attempted failure, got %+v", result)
	}
	if result.Status() != "failed" {
		t.Fatalf("expected failed status, got %s", result.Status())
	}
}

func TestService_Disabled(t *testing.T) {
	cases := map[string]*Service{
		"nil sender":      NewService(nil, ServiceConfig{OperatorEmail: "ops@keva.agency"}, nil),
		"no operator":     NewService(&mockEmailSender{}, ServiceConfig{}, nil),
		"nil service ptr": nil,
	}
	for name, svc := range cases {
		t.Run(name, func(t *testing.T) {
			if svc.Enabled() {
				t.Fatalf("expected disabled")
			}
			if result := svc.NotifyContact(context.Background(), testContact()); result.Attempted {
				t.Fatalf("expected no attempt, got %+v", result)
			}
			if result := svc.SendTest(context.Background()); result.Attempted {
				t.Fatalf("expected no test attempt, got %+v", result)
			}
		})
	}
}

func TestService_SendTest(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, ServiceConfig{Provider: "ses", OperatorEmail: "ops@keva.agency"}, nil)

	result := svc.SendTest(context.Background())

	if result.Err != nil || !result.Attempted {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "ops@keva.agency" {
		t.Fatalf("expected test email to operator, got %+v", sender.sent)
	}
}

var _ contacts.Notifier = (*Service)(nil)
