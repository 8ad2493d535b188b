package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{FromEmail: "hello@keva.agency"}, nil))
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "hello@keva.agency"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "ops@keva.agency",
		ReplyTo: "ada@example.com",
		Subject: "New Contact Form Submission from Ada",
		Body:    "plain",
		HTML:    "<p>html</p>",
	})
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, `"Keva Website Contact Form" <hello@keva.agency>`, aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, "New Contact Form Submission from Ada", aws.ToString(api.input.Content.Simple.Subject.Data))
	assert.Nil(t, api.input.ConfigurationSetName)
	assert.Equal(t, []string{"ops@keva.agency"}, api.input.Destination.ToAddresses)
	assert.Equal(t, []string{"ada@example.com"}, api.input.ReplyToAddresses)
	assert.Equal(t, "plain", aws.ToString(api.input.Content.Simple.Body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.ToString(api.input.Content.Simple.Body.Html.Data))
}

func TestSESSender_SendError(t *testing.T) {
	api := &fakeSES{err: errors.New("MessageRejected")}
	sender := newSESSender(api, SESConfig{FromEmail: "hello@keva.agency"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "ops@keva.agency", Subject: "x", Body: "y"})
	assert.ErrorContains(t, err, "MessageRejected")
}

func TestSESSender_ConfigurationSet(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "hello@keva.agency", ConfigurationSet: "contact-events"}, nil)

	require.NoError(t, sender.Send(context.Background(), EmailMessage{To: "ops@keva.agency", Subject: "x", Body: "y"}))
	assert.Equal(t, "contact-events", aws.ToString(api.input.ConfigurationSetName))
	assert.Empty(t, api.input.ReplyToAddresses)
	assert.Nil(t, api.input.Content.Simple.Body.Html)
}

func TestSESSender_RequiresRecipient(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "hello@keva.agency"}, nil)

	err := sender.Send(context.Background(), EmailMessage{Subject: "x", Body: "y"})
	assert.ErrorIs(t, err, errNoRecipient)
	assert.Nil(t, api.input)
}
