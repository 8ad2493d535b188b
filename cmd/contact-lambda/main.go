package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/keva-agency/keva-site/internal/app/bootstrap"
	appconfig "github.com/keva-agency/keva-site/internal/config"
	"github.com/keva-agency/keva-site/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	app, err := bootstrap.BuildContactApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build contact app", "error", err)
		panic(err)
	}
	defer app.Close()

	adapter := newAdapter(app.Handler)
	logger.Info("contact lambda ready", "env", cfg.Env, "datastore", string(cfg.Datastore.Mode))
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, adapter, evt)
	})
}

// newAdapter bridges API Gateway HTTP events onto the same router the API
// server uses.
func newAdapter(h http.Handler) *httpadapter.HandlerAdapterV2 {
	return httpadapter.NewV2(withGatewayRequestID(h))
}

// handle proxies one event. A body that cannot be decoded is a client error,
// not a lambda failure.
func handle(ctx context.Context, adapter *httpadapter.HandlerAdapterV2, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if evt.IsBase64Encoded {
		if _, err := base64.StdEncoding.DecodeString(evt.Body); err != nil {
			return events.APIGatewayV2HTTPResponse{
				StatusCode: http.StatusBadRequest,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       `{"error":"Invalid request body."}`,
			}, nil
		}
	}
	return adapter.ProxyWithContext(ctx, evt)
}

// withGatewayRequestID reuses the gateway's request id so logs from both
// layers correlate.
func withGatewayRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			if gw, ok := core.GetAPIGatewayV2ContextFromContext(r.Context()); ok {
				if id := strings.TrimSpace(gw.RequestID); id != "" {
					r.Header.Set("X-Request-ID", id)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
