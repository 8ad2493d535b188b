package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/keva-agency/keva-site/pkg/logging"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig configures operator notifications sent through SES.
type SESConfig struct {
	FromEmail string
	FromName  string
	// ConfigurationSet routes delivery events to the named SES configuration
	// set. Optional.
	ConfigurationSet string
}

// SESSender delivers operator notifications through the SES v2 API.
type SESSender struct {
	client sesAPI
	from   string
	cfgSet string
	logger *logging.Logger
}

// NewSESSender returns nil without a client so callers can treat SES as
// unavailable.
func NewSESSender(client *sesv2.Client, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	return newSESSender(client, cfg, logger)
}

func newSESSender(client sesAPI, cfg SESConfig, logger *logging.Logger) *SESSender {
	if logger == nil {
		logger = logging.Default()
	}
	name := strings.TrimSpace(cfg.FromName)
	if name == "" {
		name = "Keva Website Contact Form"
	}
	return &SESSender{
		client: client,
		from:   (&mail.Address{Name: name, Address: strings.TrimSpace(cfg.FromEmail)}).String(),
		cfgSet: strings.TrimSpace(cfg.ConfigurationSet),
		logger: logger,
	}
}

var errNoRecipient = errors.New("notify: message has no recipient")

// Send delivers msg. Replies go to msg.ReplyTo so the operator answers the
// visitor directly.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return errNoRecipient
	}

	out, err := s.client.SendEmail(ctx, s.buildInput(msg))
	if err != nil {
		s.logger.Error("operator email rejected by ses", "error", err, "to", msg.To, "reply_to", msg.ReplyTo)
		return fmt.Errorf("notify: ses send: %w", err)
	}

	s.logger.Info("operator email sent",
		"provider", "ses",
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"message_id", aws.ToString(out.MessageId),
	)
	return nil
}

func (s *SESSender) buildInput(msg EmailMessage) *sesv2.SendEmailInput {
	body := &types.Body{}
	if msg.Body != "" {
		body.Text = utf8Content(msg.Body)
	}
	if msg.HTML != "" {
		body.Html = utf8Content(msg.HTML)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{Subject: utf8Content(msg.Subject), Body: body},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	if s.cfgSet != "" {
		input.ConfigurationSetName = aws.String(s.cfgSet)
	}
	return input
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

var _ EmailSender = (*SESSender)(nil)
