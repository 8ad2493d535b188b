package contacts

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrMissingFields is returned when first name, email or message is empty
	ErrMissingFields = errors.New("first name, email and message are required")

	// ErrInvalidEmail is returned when the email does not look like local@domain.tld
	ErrInvalidEmail = errors.New("invalid email address")
)

// SQLSTATE codes the datastore reports for setup problems.
const (
	codeUndefinedTable          = "42P01"
	codeInsufficientPermissions = "42501"
)

// FailureKind classifies a persistence error for operator logs.
type FailureKind string

const (
	FailureTableMissing     FailureKind = "table_missing"
	FailurePermissionDenied FailureKind = "permission_denied"
	FailureInsert           FailureKind = "insert_failed"
)

// Detail is the log line operators see for the failure kind.
func (k FailureKind) Detail() string {
	switch k {
	case FailureTableMissing:
		return "contacts table not found; run migrations"
	case FailurePermissionDenied:
		return "datastore denied the insert; check row level security policies and the access key"
	default:
		return "datastore insert failed"
	}
}

// DatastoreError is a provider error reported by the hosted datastore's
// PostgREST interface.
type DatastoreError struct {
	Code    string
	Message string
}

func (e *DatastoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("datastore: code %s: %s", e.Code, e.Message)
	}
	return "datastore: " + e.Message
}

// ErrorCode extracts the provider error code from err, if any.
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var dsErr *DatastoreError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ""
}

// ClassifyError maps a persistence error to a FailureKind.
func ClassifyError(err error) FailureKind {
	switch ErrorCode(err) {
	case codeUndefinedTable:
		return FailureTableMissing
	case codeInsufficientPermissions:
		return FailurePermissionDenied
	default:
		return FailureInsert
	}
}
