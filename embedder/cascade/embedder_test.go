package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/zhifalaw/counsel/embedder"
)

type fakeEmbedder struct {
	name string
	dim  int
	err  error
}

func (e fakeEmbedder) Name() string   { return e.name }
func (e fakeEmbedder) Dimension() int { return e.dim }

func (e fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return make([]float32, e.dim), nil
}

func (e fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		v, err := e.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func TestFirstHealthyCandidateWins(t *testing.T) {
	e, err := NewEmbedder(
		context.Background(),
		fakeEmbedder{name: "broken", err: errors.New("model failed to load")},
		fakeEmbedder{name: "healthy", dim: 384},
		fakeEmbedder{name: "never-reached", dim: 768},
	)
	if err != nil {
		t.Fatal(err)
	}

	if e.Name() != "healthy" {
		t.Fatalf("expected the first working candidate, got %s", e.Name())
	}
	if e.Dimension() != 384 {
		t.Fatalf("dimension must be fixed by the chosen candidate, got %d", e.Dimension())
	}
}

func TestAllCandidatesFailing(t *testing.T) {
	_, err := NewEmbedder(
		context.Background(),
		fakeEmbedder{name: "a", err: errors.New("down")},
		fakeEmbedder{name: "b", err: errors.New("also down")},
	)
	if !errors.Is(err, embedder.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNoCandidates(t *testing.T) {
	_, err := NewEmbedder(context.Background())
	if !errors.Is(err, embedder.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
