package contacts

import (
	"context"
	"net/http"
	"time"
)

const diagnosticsTimeout = 5 * time.Second

// HealthResponse describes whether the contact flow can accept submissions.
type HealthResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	Error       string             `json:"error,omitempty"`
	Database    DatabaseHealth     `json:"database"`
	Environment EnvironmentPresent `json:"environment"`
}

// DatabaseHealth reports datastore reachability.
type DatabaseHealth struct {
	Configured bool `json:"configured"`
	Connected  bool `json:"connected"`
}

// EnvironmentPresent reports which optional collaborators are configured.
type EnvironmentPresent struct {
	Datastore bool `json:"datastore"`
	Email     bool `json:"email"`
}

// Health handles GET /api/contact/health. Only booleans and a short sentence
// are returned; datastore error payloads stay in the logs.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Database: DatabaseHealth{Configured: h.repo != nil},
		Environment: EnvironmentPresent{
			Datastore: h.repo != nil,
			Email:     h.notifier != nil && h.notifier.Enabled(),
		},
	}

	if h.repo == nil {
		resp.Error = "Datastore is not configured."
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), diagnosticsTimeout)
	defer cancel()
	if err := h.repo.Ping(ctx); err != nil {
		h.logger.Error("contact datastore health check failed",
			"error", err,
			"failure", string(ClassifyError(err)),
			"code", ErrorCode(err),
		)
		resp.Error = "Database connection failed."
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Success = true
	resp.Database.Connected = true
	resp.Message = "Contact form setup is working correctly."
	writeJSON(w, http.StatusOK, resp)
}

// TestEmailResponse is the body returned by the test email endpoint.
type TestEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestEmail handles POST /api/contact/test-email by sending a fixed message to
// the operator address.
func (h *Handler) TestEmail(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil || !h.notifier.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "Email notifications are not configured.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), diagnosticsTimeout)
	defer cancel()
	result := h.notifier.SendTest(ctx)
	h.metrics.ObserveNotification(result.Provider, result.Status())
	if result.Err != nil {
		h.logger.Error("test email failed", "provider", result.Provider, "error", result.Err)
		writeError(w, http.StatusBadGateway, "Test email failed.")
		return
	}

	writeJSON(w, http.StatusOK, TestEmailResponse{
		Success: true,
		Message: "Test email sent successfully.",
	})
}
