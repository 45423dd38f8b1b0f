package vertex

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

type fakeEmbedder struct {
	model    string
	config   *genai.EmbedContentConfig
	contents []*genai.Content
	resp     *genai.EmbedContentResponse
	err      error
}

func (f *fakeEmbedder) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func response(vectors ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range vectors {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func TestNewWithEmbedder_Defaults(t *testing.T) {
	svc := NewWithEmbedder(&fakeEmbedder{}, Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultTaskType, svc.taskType)
	assert.NoError(t, svc.Close())
}

func TestNewEmbeddingService_RequiresProject(t *testing.T) {
	_, err := NewEmbeddingService(context.Background(), Config{})
	assert.Error(t, err)
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	fake := &fakeEmbedder{resp: response([]float32{1, 0}, []float32{0, 1})}
	svc := NewWithEmbedder(fake, Config{Model: "custom-model", TaskType: "RETRIEVAL_DOCUMENT"})

	out, err := svc.EmbedBatch(context.Background(), []string{"שלום", "hello"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, out)

	assert.Equal(t, "custom-model", fake.model)
	assert.Equal(t, "RETRIEVAL_DOCUMENT", fake.config.TaskType)
	require.Len(t, fake.contents, 2)
	assert.Equal(t, "שלום", fake.contents[0].Parts[0].Text)
}

func TestEmbedBatch_Empty(t *testing.T) {
	fake := &fakeEmbedder{}
	out, err := NewWithEmbedder(fake, Config{}).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Nil(t, fake.contents)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	fake := &fakeEmbedder{resp: response([]float32{1})}
	_, err := NewWithEmbedder(fake, Config{}).EmbedBatch(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbed_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"rate limited", genai.APIError{Code: 429, Message: "quota"}, true},
		{"server error", genai.APIError{Code: 503, Message: "unavailable"}, true},
		{"bad request", genai.APIError{Code: 400, Message: "invalid"}, false},
		{"network", errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewWithEmbedder(&fakeEmbedder{err: tt.err}, Config{})
			_, err := svc.Embed(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, tt.transient, errors.Is(err, domain.ErrTransient))
		})
	}
}

func TestPing(t *testing.T) {
	ok := NewWithEmbedder(&fakeEmbedder{resp: response([]float32{1})}, Config{})
	assert.NoError(t, ok.Ping(context.Background()))

	bad := NewWithEmbedder(&fakeEmbedder{err: errors.New("denied")}, Config{})
	assert.Error(t, bad.Ping(context.Background()))
}
