package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatastoreMode selects the persistence backend for contact submissions.
type DatastoreMode string

const (
	DatastoreDisabled DatastoreMode = "disabled"
	DatastoreREST     DatastoreMode = "rest"
	DatastorePostgres DatastoreMode = "postgres"
	DatastoreMemory   DatastoreMode = "memory"
)

// EmailProvider selects the outbound email transport.
type EmailProvider string

const (
	EmailProviderSendGrid EmailProvider = "sendgrid"
	EmailProviderSES      EmailProvider = "ses"
	// EmailProviderStub logs notifications instead of sending them.
	EmailProviderStub EmailProvider = "stub"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Support address shown to visitors when persistence fails.
	SupportEmail string
	// Mounts POST /api/contact/test-email. Defaults to on outside production.
	DiagnosticsEnabled bool

	Datastore DatastoreConfig
	Email     EmailConfig

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// DatastoreConfig is resolved once at startup. Mode is DatastoreDisabled when
// no usable credentials are present.
type DatastoreConfig struct {
	Mode        DatastoreMode
	URL         string
	Key         string
	Table       string
	DatabaseURL string
	Timeout     time.Duration
}

// Enabled reports whether submissions can be persisted.
func (d DatastoreConfig) Enabled() bool {
	return d.Mode != "" && d.Mode != DatastoreDisabled
}

// EmailConfig is resolved once at startup. Enabled is false when the selected
// provider has no credentials; notifications are then skipped silently.
type EmailConfig struct {
	Enabled        bool
	Provider       EmailProvider
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	OperatorEmail  string

	// SESConfigurationSet is passed through on SES sends when set.
	SESConfigurationSet string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		SupportEmail:       getEnv("SUPPORT_EMAIL", "hello@keva.agency"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
	cfg.DiagnosticsEnabled = getEnvAsBool("DIAGNOSTICS_ENABLED", cfg.Env != "production")
	cfg.Datastore = loadDatastore()
	cfg.Email = loadEmail()
	return cfg
}

func loadDatastore() DatastoreConfig {
	d := DatastoreConfig{
		URL:         strings.TrimRight(strings.TrimSpace(getEnv("DATASTORE_URL", "")), "/"),
		Key:         strings.TrimSpace(getEnv("DATASTORE_KEY", "")),
		Table:       getEnv("DATASTORE_TABLE", "contacts"),
		DatabaseURL: strings.TrimSpace(getEnv("DATABASE_URL", "")),
		Timeout:     getEnvAsDuration("DATASTORE_TIMEOUT", 10*time.Second),
	}

	switch DatastoreMode(strings.ToLower(strings.TrimSpace(getEnv("DATASTORE_MODE", "")))) {
	case DatastoreMemory:
		d.Mode = DatastoreMemory
		return d
	case DatastorePostgres:
		d.Mode = modeIf(d.DatabaseURL != "", DatastorePostgres)
		return d
	case DatastoreREST:
		d.Mode = modeIf(d.URL != "" && d.Key != "", DatastoreREST)
		return d
	}

	switch {
	case d.URL != "" && d.Key != "":
		d.Mode = DatastoreREST
	case d.DatabaseURL != "":
		d.Mode = DatastorePostgres
	default:
		d.Mode = DatastoreDisabled
	}
	return d
}

func modeIf(ok bool, mode DatastoreMode) DatastoreMode {
	if ok {
		return mode
	}
	return DatastoreDisabled
}

func loadEmail() EmailConfig {
	e := EmailConfig{
		Provider:       EmailProvider(strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", string(EmailProviderSendGrid))))),
		SendGridAPIKey: strings.TrimSpace(getEnv("SENDGRID_API_KEY", "")),
		FromEmail:      getEnv("EMAIL_FROM", "hello@keva.agency"),
		FromName:       getEnv("EMAIL_FROM_NAME", "Keva Website Contact Form"),
		OperatorEmail:  getEnv("OPERATOR_EMAIL", "hello@keva.agency"),

		SESConfigurationSet: strings.TrimSpace(getEnv("SES_CONFIGURATION_SET", "")),
	}
	switch e.Provider {
	case EmailProviderSES:
		e.Enabled = getEnvAsBool("SES_ENABLED", false)
	case EmailProviderStub:
		e.Enabled = true
	default:
		e.Provider = EmailProviderSendGrid
		e.Enabled = e.SendGridAPIKey != ""
	}
	if strings.TrimSpace(e.OperatorEmail) == "" || strings.TrimSpace(e.FromEmail) == "" {
		e.Enabled = false
	}
	return e
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
