package config

import (
	"testing"
	"time"
)

var managedKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT", "SUPPORT_EMAIL",
	"DATASTORE_MODE", "DATASTORE_URL", "DATASTORE_KEY", "DATASTORE_TABLE", "DATASTORE_TIMEOUT", "DATABASE_URL",
	"EMAIL_PROVIDER", "SENDGRID_API_KEY", "EMAIL_FROM", "EMAIL_FROM_NAME", "OPERATOR_EMAIL", "SES_ENABLED", "SES_CONFIGURATION_SET", "DIAGNOSTICS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if cfg.Datastore.Mode != DatastoreDisabled || cfg.Datastore.Enabled() {
		t.Fatalf("expected datastore disabled without credentials, got %q", cfg.Datastore.Mode)
	}
	if cfg.Email.Enabled {
		t.Fatalf("expected email disabled without api key")
	}
	if cfg.Email.Provider != EmailProviderSendGrid {
		t.Fatalf("expected sendgrid default provider, got %q", cfg.Email.Provider)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://keva.agency, ,https://www.keva.agency")
	t.Setenv("DATASTORE_URL", "https://project.example.co/")
	t.Setenv("DATASTORE_KEY", "anon-key")
	t.Setenv("DATASTORE_TIMEOUT", "3s")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("OPERATOR_EMAIL", "ops@example.com")

	cfg := Load()
	if cfg.Port != "9090" || cfg.Env != "production" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected basics: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Datastore.Mode != DatastoreREST {
		t.Fatalf("expected rest datastore, got %q", cfg.Datastore.Mode)
	}
	if cfg.Datastore.URL != "https://project.example.co" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Datastore.URL)
	}
	if cfg.Datastore.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Datastore.Timeout)
	}
	if !cfg.Email.Enabled || cfg.Email.OperatorEmail != "ops@example.com" {
		t.Fatalf("expected email enabled for ops@example.com, got %+v", cfg.Email)
	}
}

func TestLoadDatastoreSelection(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want DatastoreMode
	}{
		{"postgres from DATABASE_URL", map[string]string{"DATABASE_URL": "postgres://u@h/db"}, DatastorePostgres},
		{"rest wins over postgres", map[string]string{"DATABASE_URL": "postgres://u@h/db", "DATASTORE_URL": "https://x", "DATASTORE_KEY": "k"}, DatastoreREST},
		{"rest url without key is disabled", map[string]string{"DATASTORE_URL": "https://x"}, DatastoreDisabled},
		{"explicit memory", map[string]string{"DATASTORE_MODE": "memory"}, DatastoreMemory},
		{"explicit postgres without url", map[string]string{"DATASTORE_MODE": "postgres"}, DatastoreDisabled},
		{"explicit rest with credentials", map[string]string{"DATASTORE_MODE": "REST", "DATASTORE_URL": "https://x", "DATASTORE_KEY": "k"}, DatastoreREST},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := Load().Datastore.Mode; got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLoadEmailSES(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_PROVIDER", "ses")
	cfg := Load()
	if cfg.Email.Enabled {
		t.Fatalf("expected SES disabled until SES_ENABLED is set")
	}

	t.Setenv("SES_ENABLED", "true")
	cfg = Load()
	if !cfg.Email.Enabled || cfg.Email.Provider != EmailProviderSES {
		t.Fatalf("expected SES enabled, got %+v", cfg.Email)
	}
}

func TestLoadEmailDisabledWithoutOperator(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("OPERATOR_EMAIL", "   ")
	if Load().Email.Enabled {
		t.Fatalf("expected email disabled with blank operator address")
	}
}

func TestLoadDiagnosticsDefaultsByEnv(t *testing.T) {
	clearEnv(t)
	if !Load().DiagnosticsEnabled {
		t.Fatalf("expected diagnostics on in development")
	}

	t.Setenv("ENV", "production")
	if Load().DiagnosticsEnabled {
		t.Fatalf("expected diagnostics off in production")
	}

	t.Setenv("DIAGNOSTICS_ENABLED", "true")
	if !Load().DiagnosticsEnabled {
		t.Fatalf("expected explicit override to win")
	}
}

func TestLoadEmailStub(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_PROVIDER", "stub")
	cfg := Load()
	if !cfg.Email.Enabled || cfg.Email.Provider != EmailProviderStub {
		t.Fatalf("expected stub provider enabled, got %+v", cfg.Email)
	}
}

func TestLoadSESConfigurationSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_PROVIDER", "ses")
	t.Setenv("SES_ENABLED", "true")
	t.Setenv("SES_CONFIGURATION_SET", " contact-events ")
	cfg := Load()
	if !cfg.Email.Enabled || cfg.Email.Provider != EmailProviderSES {
		t.Fatalf("expected ses enabled, got %+v", cfg.Email)
	}
	if cfg.Email.SESConfigurationSet != "contact-events" {
		t.Fatalf("expected trimmed configuration set, got %q", cfg.Email.SESConfigurationSet)
	}
}
