package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type Request struct {
	Model         string
	System        []string
	Messages      []Message
	MaxTokens     int32
	Temperature   float32
	TopP          float32
	StopSequences []string
}

type Response struct {
	Text       string
	Usage      Usage
	StopReason string
}

// Client is implemented by every model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
