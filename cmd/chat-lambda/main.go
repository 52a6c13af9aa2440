package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wolfman30/rivertown-concierge/cmd/mainconfig"
	"github.com/wolfman30/rivertown-concierge/internal/api/router"
	"github.com/wolfman30/rivertown-concierge/internal/app/bootstrap"
	"github.com/wolfman30/rivertown-concierge/internal/chat"
	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set; sessions will not survive across lambda instances")
	}

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.Build(ctx, cfg, awsCfg, prometheus.NewRegistry(), logger)
	if err != nil {
		logger.Error("failed to build concierge", "error", err)
		os.Exit(1)
	}

	// Websockets and metrics are served by the long-running API only.
	handler := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chat.NewHandler(app.Chat, logger),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	adapter := httpadapter.NewV2(handler)
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, adapter, evt)
	})
}

func handle(ctx context.Context, adapter *httpadapter.HandlerAdapterV2, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = evt.RequestContext.HTTP.Path
	}
	if strings.HasSuffix(path, "/ws") {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotImplemented, Body: "websockets are not supported here"}, nil
	}

	if ip := strings.TrimSpace(evt.RequestContext.HTTP.SourceIP); ip != "" {
		headers := make(map[string]string, len(evt.Headers)+1)
		for k, v := range evt.Headers {
			headers[k] = v
		}
		headers["x-real-ip"] = ip
		evt.Headers = headers
	}

	resp, err := adapter.ProxyWithContext(ctx, evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: "invalid request"}, nil
	}
	return resp, nil
}
