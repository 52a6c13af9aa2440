package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client using Google's Gemini API.
type GeminiClient struct {
	client  *genai.Client
	chat    geminiChat
	modelID string
}

// geminiChat sends one chat turn to a Gemini model.
type geminiChat interface {
	SendChat(ctx context.Context, turn geminiTurn) (*genai.GenerateContentResponse, error)
}

type geminiTurn struct {
	Config  genai.GenerationConfig
	System  *genai.Content
	History []*genai.Content
	Message genai.Text
}

type sdkGeminiChat struct {
	client  *genai.Client
	modelID string
}

func (c sdkGeminiChat) SendChat(ctx context.Context, turn geminiTurn) (*genai.GenerateContentResponse, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.GenerationConfig = turn.Config
	model.SystemInstruction = turn.System
	cs := model.StartChat()
	cs.History = turn.History
	return cs.SendMessage(ctx, turn.Message)
}

// NewGeminiClient creates a Gemini client. The model in each Request is
// ignored in favour of modelID.
func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("llm: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		client:  client,
		chat:    sdkGeminiChat{client: client, modelID: modelID},
		modelID: modelID,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (Response, error) {
	if len(req.Messages) == 0 {
		return Response{}, errors.New("llm: gemini requires at least one message")
	}

	var turn geminiTurn
	if req.Temperature >= 0 {
		turn.Config.SetTemperature(req.Temperature)
	}
	if req.TopP > 0 {
		turn.Config.SetTopP(req.TopP)
	}
	if req.MaxTokens > 0 {
		turn.Config.SetMaxOutputTokens(req.MaxTokens)
	}
	if len(req.StopSequences) > 0 {
		turn.Config.StopSequences = req.StopSequences
	}

	system := req.System
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
		}
	}
	if systemText := strings.TrimSpace(strings.Join(system, "\n\n")); systemText != "" {
		turn.System = genai.NewUserContent(genai.Text(systemText))
	}

	for _, msg := range req.Messages[:len(req.Messages)-1] {
		content := strings.TrimSpace(msg.Content)
		if content == "" || msg.Role == RoleSystem {
			continue
		}
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		turn.History = append(turn.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(content)},
		})
	}
	turn.Message = genai.Text(req.Messages[len(req.Messages)-1].Content)

	resp, err := c.chat.SendChat(ctx, turn)
	if err != nil {
		return Response{}, fmt.Errorf("llm: gemini completion failed: %w", err)
	}
	if resp == nil {
		return Response{}, nil
	}

	result := Response{}
	if resp.UsageMetadata != nil {
		result.Usage = Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return result, nil
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	result.Text = strings.TrimSpace(text.String())
	result.StopReason = candidate.FinishReason.String()
	return result, nil
}

// Close releases resources held by the Gemini client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
