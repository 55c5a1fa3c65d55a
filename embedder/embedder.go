package embedder

import (
	"context"
	"errors"
)

// ErrProviderUnavailable means no embedding backend could be initialized.
// It is fatal; the owning process must not start without an embedder.
var ErrProviderUnavailable = errors.New("no embedding provider available")

type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
