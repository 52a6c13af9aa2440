package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockInvokeModel struct {
	inputs []string
	model  string
	body   []byte
	err    error
}

func (m *mockInvokeModel) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	var req struct {
		InputText string `json:"inputText"`
	}
	if err := json.Unmarshal(in.Body, &req); err != nil {
		return nil, err
	}
	m.inputs = append(m.inputs, req.InputText)
	m.model = aws.ToString(in.ModelId)
	return &bedrockruntime.InvokeModelOutput{Body: m.body}, nil
}

func TestBedrockEmbedder_Embed(t *testing.T) {
	api := &mockInvokeModel{body: []byte(`{"embedding":[0.25,-0.5,1]}`)}
	embedder := NewBedrockEmbedder(api, "")

	vecs, err := embedder.Embed(context.Background(), []string{"maple", "walnut"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{0.25, -0.5, 1}, vecs[0])
	assert.Equal(t, []string{"maple", "walnut"}, api.inputs)
	assert.Equal(t, DefaultEmbeddingModel, api.model)
}

func TestBedrockEmbedder_Errors(t *testing.T) {
	_, err := NewBedrockEmbedder(&mockInvokeModel{body: []byte(`{"embedding":[]}`)}, "m").Embed(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "empty")

	_, err = NewBedrockEmbedder(&mockInvokeModel{body: []byte(`not json`)}, "m").Embed(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "parse")

	_, err = NewBedrockEmbedder(&mockInvokeModel{err: errors.New("AccessDenied")}, "m").Embed(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "AccessDenied")
}
