package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeminiChat struct {
	resp *genai.GenerateContentResponse
	err  error
	turn geminiTurn
}

func (f *fakeGeminiChat) SendChat(_ context.Context, turn geminiTurn) (*genai.GenerateContentResponse, error) {
	f.turn = turn
	return f.resp, f.err
}

func geminiResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates:    []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 9, CandidatesTokenCount: 4, TotalTokenCount: 13},
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	chat := &fakeGeminiChat{resp: geminiResponse("Hello ", "from Rivertown!  ")}
	client := &GeminiClient{chat: chat, modelID: "gemini-2.5-flash"}

	resp, err := client.Complete(context.Background(), Request{
		System: []string{"You are Sara."},
		Messages: []Message{
			{Role: RoleSystem, Content: "Be brief."},
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "Hello! How can I help?"},
			{Role: RoleUser, Content: "   "},
			{Role: RoleUser, Content: "what balls do you sell?"},
		},
		MaxTokens:     2048,
		Temperature:   0.7,
		TopP:          1,
		StopSequences: []string{HumanStopSequence},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello from Rivertown!", resp.Text)
	assert.Equal(t, genai.FinishReasonStop.String(), resp.StopReason)
	assert.Equal(t, int32(13), resp.Usage.TotalTokens)

	turn := chat.turn
	require.NotNil(t, turn.System)
	assert.Equal(t, []genai.Part{genai.Text("You are Sara.\n\nBe brief.")}, turn.System.Parts)
	require.Len(t, turn.History, 2)
	assert.Equal(t, "user", turn.History[0].Role)
	assert.Equal(t, "model", turn.History[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("Hello! How can I help?")}, turn.History[1].Parts)
	assert.Equal(t, genai.Text("what balls do you sell?"), turn.Message)

	require.NotNil(t, turn.Config.Temperature)
	assert.InDelta(t, 0.7, *turn.Config.Temperature, 1e-6)
	require.NotNil(t, turn.Config.MaxOutputTokens)
	assert.Equal(t, int32(2048), *turn.Config.MaxOutputTokens)
	assert.Equal(t, []string{HumanStopSequence}, turn.Config.StopSequences)
}

func TestGeminiClient_MalformedResponseIsEmptyText(t *testing.T) {
	cases := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"blank text":    geminiResponse("  "),
	}
	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			client := &GeminiClient{chat: &fakeGeminiChat{resp: out}}
			resp, err := client.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
			require.NoError(t, err)
			assert.Empty(t, resp.Text)
		})
	}
}

func TestGeminiClient_Errors(t *testing.T) {
	client := &GeminiClient{chat: &fakeGeminiChat{err: errors.New("quota exceeded")}}

	_, err := client.Complete(context.Background(), Request{})
	require.Error(t, err)

	_, err = client.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = NewGeminiClient(context.Background(), " ", "")
	require.Error(t, err)
}
