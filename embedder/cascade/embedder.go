package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zhifalaw/counsel/embedder"
)

const (
	probeText    = "你好"
	probeTimeout = 30 * time.Second
)

// cascadeEmbedder tries a prioritized list of candidates at construction and
// delegates to the first one that produces a vector. The chosen candidate and
// its dimension are fixed for the lifetime of the embedder.
type cascadeEmbedder struct {
	chosen embedder.Embedder
	dim    int
}

func (e *cascadeEmbedder) Name() string {
	return e.chosen.Name()
}

func (e *cascadeEmbedder) Dimension() int {
	return e.dim
}

func (e *cascadeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.chosen.Embed(ctx, text)
}

func (e *cascadeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.chosen.EmbedBatch(ctx, texts)
}

func NewEmbedder(ctx context.Context, candidates ...embedder.Embedder) (embedder.Embedder, error) {
	for _, candidate := range candidates {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		vector, err := candidate.Embed(probeCtx, probeText)
		cancel()

		if err != nil || len(vector) == 0 {
			slog.WarnContext(ctx, "embedding candidate unavailable", "candidate", candidate.Name(), "error", err)
			continue
		}

		slog.InfoContext(ctx, "embedding candidate selected", "candidate", candidate.Name(), "dimension", len(vector))

		return &cascadeEmbedder{
			chosen: candidate,
			dim:    len(vector),
		}, nil
	}

	return nil, fmt.Errorf("tried %d candidates: %w", len(candidates), embedder.ErrProviderUnavailable)
}
