package openai

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/sashabaranov/go-openai"
	"github.com/zhifalaw/counsel/embedder"
)

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
	dim     atomic.Int64
}

func (e *openAIEmbedder) Name() string {
	return "openai/" + e.options.Model
}

// Dimension is 0 until the first successful embedding call.
func (e *openAIEmbedder) Dimension() int {
	return int(e.dim.Load())
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *openAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) != len(texts) {
		return nil, errors.New("incomplete embedding response from OpenAI")
	}

	vectors := make([][]float32, len(rsp.Data))
	for i, d := range rsp.Data {
		if len(d.Embedding) == 0 {
			return nil, errors.New("empty embedding from OpenAI")
		}
		vectors[i] = d.Embedding
	}

	e.dim.Store(int64(len(vectors[0])))

	return vectors, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &openAIEmbedder{
		options: options,
	}

	config := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseURL) > 0 {
		config.BaseURL = options.BaseURL
	}

	e.client = openai.NewClientWithConfig(config)

	return e
}
