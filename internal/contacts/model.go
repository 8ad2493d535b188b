package contacts

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// SubmitRequest is the JSON body accepted by POST /api/contact.
type SubmitRequest struct {
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName,omitempty"`
	Email     string  `json:"email"`
	Message   string  `json:"message"`
}

// Submission is a normalized, validated request ready to be persisted.
type Submission struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email" validate:"required,emailshape"`
	Message   string  `json:"message" validate:"required"`
}

// Contact is a persisted submission. It is never mutated after creation.
type Contact struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins first and last name, omitting an absent last name.
func (c *Contact) FullName() string {
	if c.LastName == nil {
		return c.FirstName
	}
	return strings.TrimSpace(c.FirstName + " " + *c.LastName)
}

// emailShape accepts local@domain.tld with no whitespace and a single @.
// Whitespace covers Unicode separators and the BOM, not just ASCII.
var emailShape = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidEmail reports whether s has the basic local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailShape.MatchString(s)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func submissionValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
			return ValidEmail(fl.Field().String())
		})
	})
	return validate
}

// Normalize trims every field, lower-cases the email and turns an empty last
// name into nil.
func (r *SubmitRequest) Normalize() *Submission {
	s := &Submission{
		FirstName: strings.TrimSpace(r.FirstName),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Message:   strings.TrimSpace(r.Message),
	}
	if r.LastName != nil {
		if last := strings.TrimSpace(*r.LastName); last != "" {
			s.LastName = &last
		}
	}
	return s
}

// Validate checks required fields first and the email shape second, so a
// submission missing several things always reports ErrMissingFields.
func (s *Submission) Validate() error {
	err := submissionValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}
	return ErrInvalidEmail
}
