package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/keva-agency/keva-site/internal/contacts"
	httpmiddleware "github.com/keva-agency/keva-site/internal/http/middleware"
	"github.com/keva-agency/keva-site/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ContactHandler     *contacts.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	// EnableDiagnostics mounts the test-email route. Health is always mounted.
	EnableDiagnostics bool
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ContactHandler != nil {
		r.Route("/api/contact", func(contact chi.Router) {
			contact.Post("/", cfg.ContactHandler.Submit)
			contact.Get("/health", cfg.ContactHandler.Health)
			if cfg.EnableDiagnostics {
				contact.Post("/test-email", cfg.ContactHandler.TestEmail)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
