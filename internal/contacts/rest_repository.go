package contacts

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
)

// RESTConfig configures the hosted datastore client.
type RESTConfig struct {
	BaseURL string
	APIKey  string
	Table   string
	Timeout time.Duration
}

// RESTRepository inserts contacts through the hosted datastore's PostgREST
// interface.
type RESTRepository struct {
	client  *postgrest.Client
	table   string
	timeout time.Duration
}

// NewRESTRepository returns nil when the URL or key is missing. transport may
// be nil to use a default transport bounded by cfg.Timeout.
func NewRESTRepository(cfg RESTConfig, transport http.RoundTripper) *RESTRepository {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	apiKey := strings.TrimSpace(cfg.APIKey)
	if baseURL == "" || apiKey == "" {
		return nil
	}
	if cfg.Table == "" {
		cfg.Table = "contacts"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = cfg.Timeout
		transport = t
	}

	client := postgrest.NewClient(baseURL+"/rest/v1", "public", nil)
	if client.ClientError != nil {
		return nil
	}
	client.SetApiKey(apiKey).SetAuthToken(apiKey)
	client.Transport.Parent = transport

	return &RESTRepository{client: client, table: cfg.Table, timeout: cfg.Timeout}
}

type restInsertRow struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Create inserts the normalized record and reads the generated columns from
// the returned representation.
func (r *RESTRepository) Create(ctx context.Context, s *Submission) (*Contact, error) {
	var rows []restInsertRow
	err := r.do(ctx, func() error {
		_, err := r.client.From(r.table).
			Insert(s, false, "", "representation", "").
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("contacts: insert failed: %w", err)
	}
	if len(rows) == 0 || rows[0].ID == "" {
		return nil, fmt.Errorf("contacts: insert returned no row")
	}

	return &Contact{
		ID:        rows[0].ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Message:   s.Message,
		CreatedAt: rows[0].CreatedAt,
	}, nil
}

// Ping selects at most one id to confirm the table is reachable.
func (r *RESTRepository) Ping(ctx context.Context) error {
	err := r.do(ctx, func() error {
		_, _, err := r.client.From(r.table).Select("id", "", false).Limit(1, "").Execute()
		return err
	})
	if err != nil {
		return fmt.Errorf("contacts: ping failed: %w", err)
	}
	return nil
}

// do runs a postgrest call under ctx. The client has no context support, so
// the call is abandoned on cancellation and bounded by the transport timeout.
func (r *RESTRepository) do(ctx context.Context, call func() error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- call() }()

	select {
	case err := <-done:
		return asDatastoreError(err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// postgrest reports provider errors as "(code) message".
var providerErrorPattern = regexp.MustCompile(`^\(([^)]*)\) (.*)$`)

func asDatastoreError(err error) error {
	if err == nil {
		return nil
	}
	m := providerErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	return &DatastoreError{Code: m[1], Message: m[2]}
}

var _ Repository = (*RESTRepository)(nil)
