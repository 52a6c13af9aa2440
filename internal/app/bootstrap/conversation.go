package bootstrap

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/rivertown-concierge/internal/callback"
	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/internal/intent"
	"github.com/wolfman30/rivertown-concierge/internal/knowledge"
	"github.com/wolfman30/rivertown-concierge/internal/llm"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// BuildLLMClient returns Bedrock backed by whichever of Gemini and an
// OpenAI-compatible API have keys, tried in that order. The returned func
// releases the Gemini client.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, bedrock *bedrockruntime.Client, logger *logging.Logger) (llm.Client, func()) {
	var fallbacks []llm.Client
	release := func() {}

	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("gemini fallback unavailable", "error", err)
		} else {
			logger.Info("llm fallback enabled", "provider", "gemini", "model", cfg.GeminiModelID)
			fallbacks = append(fallbacks, gemini)
			release = func() { _ = gemini.Close() }
		}
	}
	if cfg.OpenAIAPIKey != "" {
		openAI, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModelID)
		if err != nil {
			logger.Warn("openai fallback unavailable", "error", err)
		} else {
			logger.Info("llm fallback enabled", "provider", "openai", "model", cfg.OpenAIModelID)
			fallbacks = append(fallbacks, openAI)
		}
	}

	var client llm.Client = llm.NewBedrockClient(bedrock, logger)
	for _, fb := range fallbacks {
		client = llm.NewFallbackClient(client, fb, logger)
	}
	return client, release
}

// BuildKnowledge loads company documents from S3 into an embedding store.
// It returns nil when no bucket is configured or nothing could be loaded.
func BuildKnowledge(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, bedrock *bedrockruntime.Client, logger *logging.Logger) llm.ContextRetriever {
	if cfg.KnowledgeBucket == "" {
		return nil
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
	docs, err := knowledge.LoadS3Documents(ctx, s3Client, cfg.KnowledgeBucket, cfg.KnowledgePrefix)
	if err != nil {
		logger.Warn("knowledge documents unavailable", "error", err)
		return nil
	}

	store := knowledge.NewMemoryStore(knowledge.NewBedrockEmbedder(bedrock, cfg.BedrockEmbeddingModelID), cfg.KnowledgeTopK, logger)
	if err := store.AddDocuments(ctx, docs); err != nil {
		logger.Warn("failed to embed knowledge documents", "error", err)
		return nil
	}
	if store.Len() == 0 {
		return nil
	}
	return store
}

// BuildCaller returns the Bland client, or a stand-in that reports every
// call as not placed when no API key is configured.
func BuildCaller(cfg *appconfig.Config, logger *logging.Logger) intent.Caller {
	client, err := callback.NewBlandClient(callback.BlandClientConfig{
		APIKey:  cfg.BlandAPIKey,
		BaseURL: cfg.BlandBaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Warn("outbound calls disabled", "error", err)
		return callback.Unconfigured{Logger: logger}
	}
	return client
}
