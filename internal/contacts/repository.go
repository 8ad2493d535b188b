package contacts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for contact storage
type Repository interface {
	// Create inserts s and returns the stored record with its generated id
	// and created_at.
	Create(ctx context.Context, s *Submission) (*Contact, error)
	// Ping checks that the datastore is reachable and the table exists.
	Ping(ctx context.Context) error
}

// InMemoryRepository keeps contacts in process memory. Used for local
// development and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	contacts map[string]*Contact
	order    []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		contacts: make(map[string]*Contact),
	}
}

// Create stores a copy of s under a fresh id.
func (r *InMemoryRepository) Create(ctx context.Context, s *Submission) (*Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contact := &Contact{
		ID:        uuid.New().String(),
		FirstName: s.FirstName,
		Email:     s.Email,
		Message:   s.Message,
		CreatedAt: time.Now().UTC(),
	}
	if s.LastName != nil {
		last := *s.LastName
		contact.LastName = &last
	}

	r.mu.Lock()
	r.contacts[contact.ID] = contact
	r.order = append(r.order, contact.ID)
	r.mu.Unlock()

	return contact, nil
}

// Ping always succeeds.
func (r *InMemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// All returns stored contacts in insertion order.
func (r *InMemoryRepository) All() []*Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Contact, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.contacts[id])
	}
	return out
}

var _ Repository = (*InMemoryRepository)(nil)
