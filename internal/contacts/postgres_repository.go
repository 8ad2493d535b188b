package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresRepository stores contacts in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("contacts: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q rowQuerier) *PostgresRepository {
	if q == nil {
		panic("contacts: querier required")
	}
	return &PostgresRepository{pool: q}
}

// Create inserts a new row. id and created_at come from column defaults.
func (r *PostgresRepository) Create(ctx context.Context, s *Submission) (*Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	var lastName any
	if s.LastName != nil {
		lastName = *s.LastName
	}

	contact := &Contact{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Message:   s.Message,
	}
	if err := r.pool.QueryRow(ctx, query,
		s.FirstName,
		lastName,
		s.Email,
		s.Message,
	).Scan(&contact.ID, &contact.CreatedAt); err != nil {
		return nil, fmt.Errorf("contacts: insert failed: %w", err)
	}
	return contact, nil
}

// Ping verifies connectivity and that the contacts table is queryable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("contacts: ping failed: %w", err)
	}
	var one int
	if err := r.pool.QueryRow(ctx, `SELECT 1 FROM contacts LIMIT 1`).Scan(&one); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("contacts: table check failed: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
