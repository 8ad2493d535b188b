package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/keva-agency/keva-site/internal/observability/metrics"
	"github.com/keva-agency/keva-site/pkg/logging"
)

var contactTracer = otel.Tracer("keva.internal.contacts")

const maxBodyBytes = 64 << 10

// User-facing messages. Provider detail never reaches the caller.
const (
	MsgThankYou       = "Thank you for your message! We'll get back to you within 24 hours."
	MsgInvalidBody    = "Invalid request body."
	MsgMissingFields  = "Please fill in all required fields (First Name, Email, and Message)."
	MsgInvalidEmail   = "Please enter a valid email address."
	MsgMisconfigured  = "Server configuration error. Please contact support."
	MsgUnexpected     = "Something went wrong. Please try again."
	msgPersistFailedF = "Failed to save your message. Please try again or contact us directly at %s."
)

// Outcome is the terminal state of one submission.
type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeRejected      Outcome = "rejected"
	OutcomeMisconfigured Outcome = "misconfigured"
	OutcomePersistFailed Outcome = "persist_failed"
	OutcomeInternalError Outcome = "internal_error"
)

// SubmitResponse is the 200 body for an accepted submission.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Handler handles HTTP requests for contact submissions
type Handler struct {
	repo         Repository
	notifier     Notifier
	metrics      *metrics.ContactMetrics
	logger       *logging.Logger
	supportEmail string
}

// Option customizes a Handler.
type Option func(*Handler)

// WithNotifier enables operator notifications.
func WithNotifier(n Notifier) Option {
	return func(h *Handler) { h.notifier = n }
}

// WithMetrics records submission metrics.
func WithMetrics(m *metrics.ContactMetrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithSupportEmail sets the address quoted when persistence fails.
func WithSupportEmail(addr string) Option {
	return func(h *Handler) {
		if addr != "" {
			h.supportEmail = addr
		}
	}
}

// NewHandler creates a contacts handler. A nil repo means the datastore is not
// configured and every submission fails with a configuration error.
func NewHandler(repo Repository, logger *logging.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		repo:         repo,
		logger:       logger,
		supportEmail: "hello@keva.agency",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Submit handles POST /api/contact requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, span := contactTracer.Start(r.Context(), "contacts.submit")
	defer span.End()

	start := time.Now()
	ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
	outcome := OutcomeInternalError
	defer func() {
		if rec := recover(); rec != nil {
			span.SetStatus(codes.Error, "panic")
			outcome = OutcomeInternalError
			if ww.Status() == 0 {
				h.logger.Error("contact handler panic", "panic", fmt.Sprint(rec))
				writeError(ww, http.StatusInternalServerError, MsgUnexpected)
			} else {
				h.logger.Error("contact handler panic after response started",
					"panic", fmt.Sprint(rec),
					"status", ww.Status(),
				)
			}
		}
		span.SetAttributes(attribute.String("contact.outcome", string(outcome)))
		h.metrics.ObserveSubmission(string(outcome), time.Since(start).Seconds())
	}()

	outcome = h.submit(ctx, ww, r)
}

func (h *Handler) submit(ctx context.Context, w http.ResponseWriter, r *http.Request) Outcome {
	var req SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode contact request", "error", err)
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return OutcomeRejected
	}

	sub := req.Normalize()
	if err := sub.Validate(); err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			h.logger.Info("contact rejected: missing required fields")
			writeError(w, http.StatusBadRequest, MsgMissingFields)
		case errors.Is(err, ErrInvalidEmail):
			h.logger.Info("contact rejected: invalid email format")
			writeError(w, http.StatusBadRequest, MsgInvalidEmail)
		default:
			h.logger.Error("contact validation failed unexpectedly", "error", err)
			writeError(w, http.StatusInternalServerError, MsgUnexpected)
			return OutcomeInternalError
		}
		return OutcomeRejected
	}

	if h.repo == nil {
		h.logger.Error("contact datastore not configured")
		writeError(w, http.StatusInternalServerError, MsgMisconfigured)
		return OutcomeMisconfigured
	}

	contact, err := h.repo.Create(ctx, sub)
	if err != nil {
		kind := ClassifyError(err)
		h.logger.Error("failed to save contact",
			"error", err,
			"failure", string(kind),
			"code", ErrorCode(err),
			"detail", kind.Detail(),
		)
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf(msgPersistFailedF, h.supportEmail))
		return OutcomePersistFailed
	}

	h.logger.Info("contact saved", "id", contact.ID)

	h.notifyBestEffort(ctx, contact)

	writeJSON(w, http.StatusOK, SubmitResponse{
		Success: true,
		Message: MsgThankYou,
		ID:      contact.ID,
	})
	return OutcomeAccepted
}

// notifyBestEffort is the only place a notification outcome is observed. The
// result is logged and counted, then dropped; it never reaches the response.
func (h *Handler) notifyBestEffort(ctx context.Context, contact *Contact) {
	if h.notifier == nil || !h.notifier.Enabled() {
		h.logger.Debug("contact notification disabled", "id", contact.ID)
		h.metrics.ObserveNotification("", NotificationResult{}.Status())
		return
	}

	var result NotificationResult
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				result = NotificationResult{Attempted: true, Err: fmt.Errorf("notify panic: %v", rec)}
			}
		}()
		result = h.notifier.NotifyContact(ctx, contact)
	}()

	h.metrics.ObserveNotification(result.Provider, result.Status())
	if result.Err != nil {
		h.logger.Warn("contact notification failed; response unaffected",
			"id", contact.ID,
			"provider", result.Provider,
			"error", result.Err,
		)
		return
	}
	if result.Attempted {
		h.logger.Info("contact notification sent", "id", contact.ID, "provider", result.Provider)
	}
}
