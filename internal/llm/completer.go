package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

const (
	DefaultMaxTokens   int32   = 2048
	DefaultTemperature float32 = 0.7
	DefaultTopP        float32 = 1
	HumanStopSequence          = "\n\nHuman:"

	noContext = "No additional context available."
)

// ContextRetriever supplies company knowledge relevant to a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

type CompleterConfig struct {
	Model        string
	SystemPrompt string
	// Retriever is optional. Without it the utterance is sent bare.
	Retriever ContextRetriever
	Logger    *logging.Logger
}

// Completer turns a customer utterance into a single chat reply.
type Completer struct {
	client Client
	cfg    CompleterConfig
	logger *logging.Logger
}

func NewCompleter(client Client, cfg CompleterConfig) *Completer {
	if client == nil {
		panic("llm: client cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Completer{client: client, cfg: cfg, logger: cfg.Logger}
}

// Complete returns the model's reply to utterance. An empty reply is not an
// error.
func (c *Completer) Complete(ctx context.Context, utterance string) (string, error) {
	req := Request{
		Model:         c.cfg.Model,
		Messages:      []Message{{Role: RoleUser, Content: FramePrompt(c.withContext(ctx, utterance))}},
		MaxTokens:     DefaultMaxTokens,
		Temperature:   DefaultTemperature,
		TopP:          DefaultTopP,
		StopSequences: []string{HumanStopSequence},
	}
	if strings.TrimSpace(c.cfg.SystemPrompt) != "" {
		req.System = []string{c.cfg.SystemPrompt}
	}

	resp, err := c.client.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	c.logger.Debug("llm: completion",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
	)
	return resp.Text, nil
}

func (c *Completer) withContext(ctx context.Context, utterance string) string {
	if c.cfg.Retriever == nil {
		return utterance
	}
	kb, err := c.cfg.Retriever.Retrieve(ctx, utterance)
	if err != nil {
		c.logger.Warn("llm: knowledge retrieval failed", "error", err)
		return utterance
	}
	return ContextPrompt(kb, utterance)
}

// ContextPrompt prefixes a query with retrieved knowledge.
func ContextPrompt(knowledge, query string) string {
	if strings.TrimSpace(knowledge) == "" {
		knowledge = noContext
	}
	return fmt.Sprintf("Context:\n%s\n\nCustomer Query:\n%s", knowledge, query)
}

// FramePrompt wraps a prompt in the Human/Assistant turn markers.
func FramePrompt(prompt string) string {
	return fmt.Sprintf("%s %s\n\nAssistant:", HumanStopSequence, prompt)
}
