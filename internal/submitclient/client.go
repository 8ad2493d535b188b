// Package submitclient posts contact form submissions to the contact API,
// retrying transport failures with a linear backoff.
package submitclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/keva-agency/keva-site/pkg/logging"
)

const (
	MsgIncomplete   = "Please fill out all required fields."
	MsgSent         = "Your message has been sent successfully!"
	MsgNetwork      = "Network connection issue. Please check your internet connection and try again."
	MsgSomethingBad = "Something went wrong. Please try again."
	msgRetryingF    = "Network issue detected. Retrying... (%d/%d)"

	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
	maxResponseBytes   = 1 << 20
)

// Notifier receives the UI notices produced during a submit.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Loading(on bool)
}

// Outcome summarizes one user-initiated submit.
type Outcome struct {
	Attempts int
	Success  bool
	ID       string
	Err      error
}

// Client submits forms to a single endpoint.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	notifier    Notifier
	logger      *logging.Logger
	baseDelay   time.Duration
	maxAttempts int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithNotifier sets where notices are delivered.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseDelay sets the unit of the linear backoff. Attempt n waits n*d
// before the next try.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.baseDelay = d
		}
	}
}

// WithMaxAttempts bounds the total number of attempts, first try included.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// NewClient creates a client for the given contact endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:    endpoint,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		notifier:    discardNotifier{},
		logger:      logging.Default(),
		baseDelay:   defaultBaseDelay,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type serverResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

// Submit runs the pre-check, then posts the form with up to maxAttempts tries.
// Exactly one Success or Error notice is emitted per call. The form is
// cleared only on success.
func (c *Client) Submit(ctx context.Context, form *Form) Outcome {
	if !form.Ready() {
		c.notifier.Error(MsgIncomplete)
		return Outcome{Err: ErrIncomplete}
	}

	c.notifier.Loading(true)
	defer c.notifier.Loading(false)

	var (
		out  Outcome
		resp *serverResponse
	)
	payload := form.payload()
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), linearBackoff(c.baseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out.Attempts++
		r, err := c.post(ctx, payload)
		if err == nil {
			resp = r
			return nil
		}
		c.logger.Warn("contact submit attempt failed", "attempt", out.Attempts, "max_attempts", c.maxAttempts, "error", err)
		if IsTransport(err) && out.Attempts < c.maxAttempts {
			c.notifier.Warning(fmt.Sprintf(msgRetryingF, out.Attempts, c.maxAttempts))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		out.Err = err
		c.notifier.Error(failureMessage(err))
		return out
	}

	out.Success = true
	out.ID = resp.ID
	form.Clear()

	msg := resp.Message
	if msg == "" {
		msg = MsgSent
	}
	c.notifier.Success(msg)
	return out
}

func (c *Client) post(ctx context.Context, payload submitPayload) (*serverResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("submitclient: encode form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("submitclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer res.Body.Close()

	var data serverResponse
	decodeErr := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&data)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &RejectedError{Status: res.StatusCode, Message: data.Error}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("submitclient: decode response: %w", decodeErr)
	}
	return &data, nil
}

func failureMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	if IsTransport(err) {
		return MsgNetwork
	}
	return MsgSomethingBad
}

// linearBackoff waits base, 2*base, 3*base, ... between attempts.
func linearBackoff(base time.Duration) retry.Backoff {
	var n int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return time.Duration(n) * base, false
	})
}

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Warning(string) {}
func (discardNotifier) Error(string)   {}
func (discardNotifier) Loading(bool)   {}
