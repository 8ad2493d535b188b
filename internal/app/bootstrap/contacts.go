package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keva-agency/keva-site/cmd/mainconfig"
	"github.com/keva-agency/keva-site/internal/api/router"
	appconfig "github.com/keva-agency/keva-site/internal/config"
	"github.com/keva-agency/keva-site/internal/contacts"
	"github.com/keva-agency/keva-site/internal/notify"
	"github.com/keva-agency/keva-site/internal/observability/metrics"
	"github.com/keva-agency/keva-site/pkg/logging"
)

// BuildContactRepository returns the repository selected by the datastore
// mode, or nil when the datastore is disabled. The returned cleanup func is
// never nil.
func BuildContactRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (contacts.Repository, func(), error) {
	noop := func() {}
	if cfg == nil {
		return nil, noop, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ds := cfg.Datastore
	switch ds.Mode {
	case appconfig.DatastoreREST:
		repo := contacts.NewRESTRepository(contacts.RESTConfig{
			BaseURL: ds.URL,
			APIKey:  ds.Key,
			Table:   ds.Table,
			Timeout: ds.Timeout,
		}, nil)
		if repo == nil {
			logger.Warn("rest datastore selected without credentials; submissions disabled")
			return nil, noop, nil
		}
		logger.Info("contact datastore ready", "mode", string(ds.Mode), "table", ds.Table)
		return repo, noop, nil

	case appconfig.DatastorePostgres:
		pool, err := pgxpool.New(ctx, ds.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		logger.Info("contact datastore ready", "mode", string(ds.Mode))
		return contacts.NewPostgresRepository(pool), pool.Close, nil

	case appconfig.DatastoreMemory:
		logger.Warn("contact datastore is in-memory; submissions are lost on restart")
		return contacts.NewInMemoryRepository(), noop, nil

	default:
		logger.Warn("contact datastore not configured; every submission will fail")
		return nil, noop, nil
	}
}

// BuildEmailSender returns the sender for the configured provider, or nil when
// email is disabled. ses may be nil unless the provider is SES.
func BuildEmailSender(cfg *appconfig.Config, ses *sesv2.Client, logger *logging.Logger) notify.EmailSender {
	if cfg == nil || !cfg.Email.Enabled {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.Email.Provider {
	case appconfig.EmailProviderSES:
		sender := notify.NewSESSender(ses, notify.SESConfig{
			FromEmail:        cfg.Email.FromEmail,
			FromName:         cfg.Email.FromName,
			ConfigurationSet: cfg.Email.SESConfigurationSet,
		}, logger)
		if sender == nil {
			logger.Warn("ses selected but no client available; notifications disabled")
			return nil
		}
		return sender
	case appconfig.EmailProviderStub:
		return notify.NewStubEmailSender(logger)
	default:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.Email.SendGridAPIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	}
}

// BuildNotifier wraps the sender in the operator notification service.
func BuildNotifier(cfg *appconfig.Config, sender notify.EmailSender, logger *logging.Logger) *notify.Service {
	if logger == nil {
		logger = logging.Default()
	}
	svc := notify.NewService(sender, notify.ServiceConfig{
		Provider:      string(cfg.Email.Provider),
		OperatorEmail: cfg.Email.OperatorEmail,
	}, logger)
	if svc.Enabled() {
		logger.Info("contact notifications enabled", "provider", string(cfg.Email.Provider))
	} else {
		logger.Info("contact notifications disabled")
	}
	return svc
}

// ContactApp is the fully wired HTTP surface shared by the API server and the
// lambda entrypoint.
type ContactApp struct {
	Handler  http.Handler
	Registry *prometheus.Registry
	cleanup  func()
}

// Close releases datastore connections.
func (a *ContactApp) Close() {
	if a != nil && a.cleanup != nil {
		a.cleanup()
	}
}

// BuildContactApp wires repository, email, metrics and router from config.
func BuildContactApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*ContactApp, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	repo, cleanup, err := BuildContactRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var sesClient *sesv2.Client
	if cfg.Email.Enabled && cfg.Email.Provider == appconfig.EmailProviderSES {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		sesClient = mainconfig.NewSESClient(awsCfg, cfg)
	}
	notifier := BuildNotifier(cfg, BuildEmailSender(cfg, sesClient, logger), logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	contactMetrics := metrics.NewContactMetrics(reg)

	handler := contacts.NewHandler(repo, logger,
		contacts.WithNotifier(notifier),
		contacts.WithMetrics(contactMetrics),
		contacts.WithSupportEmail(cfg.SupportEmail),
	)

	r := router.New(&router.Config{
		Logger:             logger,
		ContactHandler:     handler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		EnableDiagnostics:  cfg.DiagnosticsEnabled,
	})

	return &ContactApp{Handler: r, Registry: reg, cleanup: cleanup}, nil
}
