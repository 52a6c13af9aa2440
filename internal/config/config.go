package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Order store
	OrderStoreBackend string // "dynamodb", "postgres" or "memory"
	OrdersTable       string
	OrdersIndex       string
	DatabaseURL       string
	OrderCacheSize    int
	OrderCacheTTL     time.Duration
	OrderStoreTimeout time.Duration

	// Language model
	BedrockModelID          string
	BedrockEmbeddingModelID string
	GeminiAPIKey            string
	GeminiModelID           string
	OpenAIAPIKey            string
	OpenAIBaseURL           string
	OpenAIModelID           string
	LLMTimeout              time.Duration

	// Knowledge context
	KnowledgeBucket string
	KnowledgePrefix string
	KnowledgeTopK   int

	// Outbound calls
	BlandAPIKey           string
	BlandBaseURL          string
	CallTimeout           time.Duration
	CallbackRequirePrompt bool

	// Sessions
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	PersonaFile string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		OrderStoreBackend: strings.ToLower(strings.TrimSpace(getEnv("ORDER_STORE", "dynamodb"))),
		OrdersTable:       getEnv("ORDERS_TABLE", "customer_orders"),
		OrdersIndex:       getEnv("ORDERS_INDEX", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		OrderCacheSize:    getEnvAsInt("ORDER_CACHE_SIZE", 256),
		OrderCacheTTL:     getEnvAsDuration("ORDER_CACHE_TTL", time.Minute),
		OrderStoreTimeout: getEnvAsDuration("ORDER_STORE_TIMEOUT", 5*time.Second),

		BedrockModelID:          getEnv("BEDROCK_MODEL_ID", "us.anthropic.claude-3-5-haiku-20241022-v1:0"),
		BedrockEmbeddingModelID: getEnv("BEDROCK_EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v2:0"),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:           getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		OpenAIAPIKey:            getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:           getEnv("OPENAI_BASE_URL", ""),
		OpenAIModelID:           getEnv("OPENAI_MODEL_ID", "gpt-4o-mini"),
		LLMTimeout:              getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),

		KnowledgeBucket: getEnv("KNOWLEDGE_BUCKET", ""),
		KnowledgePrefix: getEnv("KNOWLEDGE_PREFIX", "knowledge/"),
		KnowledgeTopK:   getEnvAsInt("KNOWLEDGE_TOP_K", 3),

		BlandAPIKey:           getEnv("BLAND_API_KEY", ""),
		BlandBaseURL:          getEnv("BLAND_BASE_URL", "https://us.api.bland.ai/v1"),
		CallTimeout:           getEnvAsDuration("CALL_TIMEOUT", 30*time.Second),
		CallbackRequirePrompt: getEnvAsBool("CALLBACK_REQUIRE_PROMPT", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		PersonaFile: getEnv("PERSONA_FILE", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
