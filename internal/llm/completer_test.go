package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

type stubClient struct {
	resp  Response
	err   error
	calls int
	req   Request
}

func (s *stubClient) Complete(_ context.Context, req Request) (Response, error) {
	s.calls++
	s.req = req
	return s.resp, s.err
}

type stubRetriever struct {
	text string
	err  error
}

func (s stubRetriever) Retrieve(context.Context, string) (string, error) {
	return s.text, s.err
}

func TestCompleter_FramesPromptWithFixedParameters(t *testing.T) {
	client := &stubClient{resp: Response{Text: "Sure thing."}}
	c := NewCompleter(client, CompleterConfig{Model: "claude", SystemPrompt: "You are Sara.", Logger: logging.Discard()})

	reply, err := c.Complete(context.Background(), "tell me a joke")
	require.NoError(t, err)
	assert.Equal(t, "Sure thing.", reply)

	req := client.req
	assert.Equal(t, "claude", req.Model)
	assert.Equal(t, []string{"You are Sara."}, req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, RoleUser, req.Messages[0].Role)
	assert.Equal(t, "\n\nHuman: tell me a joke\n\nAssistant:", req.Messages[0].Content)
	assert.Equal(t, int32(2048), req.MaxTokens)
	assert.Equal(t, float32(0.7), req.Temperature)
	assert.Equal(t, float32(1), req.TopP)
	assert.Equal(t, []string{"\n\nHuman:"}, req.StopSequences)
}

func TestCompleter_AddsKnowledgeContext(t *testing.T) {
	client := &stubClient{}
	c := NewCompleter(client, CompleterConfig{
		Retriever: stubRetriever{text: "Founded in 1952."},
		Logger:    logging.Discard(),
	})

	_, err := c.Complete(context.Background(), "how old are you?")
	require.NoError(t, err)
	assert.Equal(t, "\n\nHuman: Context:\nFounded in 1952.\n\nCustomer Query:\nhow old are you?\n\nAssistant:", client.req.Messages[0].Content)
	assert.Nil(t, client.req.System)
}

func TestCompleter_EmptyKnowledgeUsesPlaceholder(t *testing.T) {
	assert.Equal(t, "Context:\nNo additional context available.\n\nCustomer Query:\nhi", ContextPrompt(" ", "hi"))
}

func TestCompleter_RetrievalFailureSendsBareUtterance(t *testing.T) {
	client := &stubClient{}
	c := NewCompleter(client, CompleterConfig{Retriever: stubRetriever{err: errors.New("kb down")}, Logger: logging.Discard()})

	_, err := c.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, FramePrompt("hi"), client.req.Messages[0].Content)
}

func TestCompleter_PropagatesClientError(t *testing.T) {
	c := NewCompleter(&stubClient{err: errors.New("boom")}, CompleterConfig{Logger: logging.Discard()})

	_, err := c.Complete(context.Background(), "hi")
	assert.EqualError(t, err, "boom")
}

func TestFallbackClient(t *testing.T) {
	ctx := context.Background()
	req := Request{Model: "m"}

	primary := &stubClient{resp: Response{Text: "primary"}}
	secondary := &stubClient{resp: Response{Text: "secondary"}}
	resp, err := NewFallbackClient(primary, secondary, logging.Discard()).Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "primary", resp.Text)
	assert.Zero(t, secondary.calls)

	primary.err = errors.New("bedrock down")
	resp, err = NewFallbackClient(primary, secondary, logging.Discard()).Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "secondary", resp.Text)

	secondary.err = errors.New("gemini down")
	_, err = NewFallbackClient(primary, secondary, logging.Discard()).Complete(ctx, req)
	assert.EqualError(t, err, "gemini down")

	_, err = NewFallbackClient(primary, nil, logging.Discard()).Complete(ctx, req)
	assert.EqualError(t, err, "bedrock down")
}

func TestFallbackClient_SkipsFallbackAfterDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := &stubClient{err: context.Canceled}
	secondary := &stubClient{}

	_, err := NewFallbackClient(primary, secondary, logging.Discard()).Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, secondary.calls)
}
