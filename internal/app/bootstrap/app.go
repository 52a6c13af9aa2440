package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/rivertown-concierge/internal/chat"
	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/internal/intent"
	"github.com/wolfman30/rivertown-concierge/internal/llm"
	"github.com/wolfman30/rivertown-concierge/internal/observability/metrics"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// App is the fully wired concierge shared by every entrypoint.
type App struct {
	Config  *appconfig.Config
	Persona appconfig.Persona
	Metrics *metrics.RouterMetrics
	Router  *intent.Router
	Chat    *chat.Service

	closers []func()
}

// Build wires config, AWS clients, stores and the router. reg may be nil to
// use the default Prometheus registerer.
func Build(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, reg prometheus.Registerer, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	persona := appconfig.DefaultPersona()
	if cfg.PersonaFile != "" {
		p, err := appconfig.LoadPersona(cfg.PersonaFile)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		persona = p
	}

	app := &App{Config: cfg, Persona: persona, Metrics: metrics.NewRouterMetrics(reg)}

	orderStore, closeOrders, err := BuildOrderStore(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeOrders)

	bedrock := bedrockruntime.NewFromConfig(awsCfg)
	client, closeLLM := BuildLLMClient(ctx, cfg, bedrock, logger)
	app.closers = append(app.closers, closeLLM)

	completer := llm.NewCompleter(client, llm.CompleterConfig{
		Model:        cfg.BedrockModelID,
		SystemPrompt: persona.SystemPrompt,
		Retriever:    BuildKnowledge(ctx, cfg, awsCfg, bedrock, logger),
		Logger:       logger,
	})

	app.Router = intent.NewRouter(orderStore, completer, BuildCaller(cfg, logger), intent.Options{
		Persona:               persona,
		OrderStoreTimeout:     cfg.OrderStoreTimeout,
		LLMTimeout:            cfg.LLMTimeout,
		CallTimeout:           cfg.CallTimeout,
		RequireCallbackPrompt: cfg.CallbackRequirePrompt,
		Observer:              app.Metrics,
		Logger:                logger,
	})

	redisClient := BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
	}
	app.Chat = chat.NewService(app.Router, BuildSessionStore(redisClient, cfg, logger), chat.ServiceConfig{
		Welcome: persona.Welcome,
		Metrics: app.Metrics,
		Logger:  logger,
	})
	return app, nil
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
