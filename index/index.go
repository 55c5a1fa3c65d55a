package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zhifalaw/counsel/embedder"
	"github.com/zhifalaw/counsel/index/storer"
	"github.com/zhifalaw/counsel/index/storer/memory"
)

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeMemory Mode = "memory"
)

// Namespace for deriving point ids from non-UUID document ids. Must never
// change, or re-ingestion stops being idempotent.
var pointNamespace = uuid.MustParse("3f2d1c8e-5a47-4e9b-9d31-7c20c1e5b104")

// Index owns all persisted document state. It starts against a remote storer
// when one verifies within the configured timeout and degrades to an
// in-memory storer otherwise. Degradation is one-way; there is no background
// reconnect.
type Index struct {
	options  Options
	embedder embedder.Embedder

	mtx    sync.RWMutex
	storer storer.Storer
	mode   Mode
}

func New(ctx context.Context, opts ...Option) (*Index, error) {
	options := NewOptions(opts...)

	if options.Embedder == nil {
		return nil, errors.New("an embedder is required")
	}

	dim := options.Embedder.Dimension()
	if dim <= 0 {
		return nil, fmt.Errorf("embedder %s has no fixed dimension", options.Embedder.Name())
	}

	i := &Index{
		options:  options,
		embedder: options.Embedder,
	}

	if options.Remote != nil {
		verifyCtx, cancel := context.WithTimeout(ctx, options.VerifyWithin)
		err := options.Remote.Ensure(verifyCtx)
		if err == nil {
			_, err = options.Remote.Info(verifyCtx)
		}
		cancel()

		if err == nil {
			i.storer = options.Remote
			i.mode = ModeRemote
			slog.InfoContext(ctx, "index connected to remote storage", "collection", options.Collection)
			return i, nil
		}

		slog.WarnContext(ctx, "remote storage unavailable, degrading to in-memory index", "collection", options.Collection, "error", err)
	}

	i.storer = i.newMemoryStorer()
	i.mode = ModeMemory

	return i, nil
}

func (i *Index) Collection() string {
	return i.options.Collection
}

func (i *Index) Mode() Mode {
	i.mtx.RLock()
	defer i.mtx.RUnlock()
	return i.mode
}

func (i *Index) Info(ctx context.Context) (storer.Info, error) {
	st, _ := i.current()
	return st.Info(ctx)
}

// Upsert embeds all documents in one batch and writes them to the current
// storer. A connectivity-classified write failure in remote mode switches
// the index to memory and retries exactly once; there is no queuing.
func (i *Index) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		slog.InfoContext(ctx, "no documents to upsert")
		return nil
	}

	texts := make([]string, len(docs))
	for n, doc := range docs {
		texts[n] = doc.Content
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d documents: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	points := make([]storer.Point, len(docs))
	for n, doc := range docs {
		points[n] = storer.Point{
			Id:      PointId(doc.Id),
			Vector:  vectors[n],
			Payload: buildPayload(doc),
		}
	}

	st, mode := i.current()

	err = st.Upsert(ctx, points)
	if err == nil {
		slog.InfoContext(ctx, "documents upserted", "count", len(points), "mode", mode)
		return nil
	}

	if mode == ModeRemote && isConnectivityError(err) {
		i.degrade(ctx, err)

		st, _ = i.current()
		if retryErr := st.Upsert(ctx, points); retryErr != nil {
			return fmt.Errorf("upsert retry after degrading: %w", retryErr)
		}

		slog.InfoContext(ctx, "documents upserted after degrading", "count", len(points))
		return nil
	}

	return fmt.Errorf("upsert %d documents: %w", len(points), err)
}

// Search returns the topK most relevant documents. An unreadable or empty
// collection is a valid no-knowledge outcome, not an error, and any vector
// search failure falls back to keyword matching over a bounded scroll.
func (i *Index) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if topK < 1 {
		topK = 5
	}

	st, _ := i.current()

	info, err := st.Info(ctx)
	if err != nil {
		slog.WarnContext(ctx, "collection unreadable, returning no hits", "collection", i.options.Collection, "error", err)
		return nil, nil
	}
	if info.Points == 0 {
		slog.InfoContext(ctx, "collection is empty", "collection", i.options.Collection)
		return nil, nil
	}

	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "query embedding failed, falling back to keyword search", "error", err)
		return i.keywordSearch(ctx, st, query, topK)
	}

	scored, err := st.Search(ctx, vector, topK)
	if err != nil {
		slog.WarnContext(ctx, "vector search failed, falling back to keyword search", "error", err)
		return i.keywordSearch(ctx, st, query, topK)
	}

	hits := make([]Hit, 0, len(scored))
	for _, p := range scored {
		hits = append(hits, hitFromPayload(p.Payload, p.Score))
	}

	return hits, nil
}

// PointId maps a document id to its storage id. Well-formed UUIDs pass
// through in canonical form; anything else derives a stable UUID from the
// fixed namespace so re-ingestion of the same id hits the same point.
func PointId(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.NewSHA1(pointNamespace, []byte(id)).String()
}

func (i *Index) current() (storer.Storer, Mode) {
	i.mtx.RLock()
	defer i.mtx.RUnlock()
	return i.storer, i.mode
}

func (i *Index) degrade(ctx context.Context, cause error) {
	i.mtx.Lock()
	defer i.mtx.Unlock()

	if i.mode == ModeMemory {
		return
	}

	slog.WarnContext(ctx, "write failure classified as connectivity loss, degrading to in-memory index", "collection", i.options.Collection, "error", cause)

	i.storer = i.newMemoryStorer()
	i.mode = ModeMemory
}

func (i *Index) newMemoryStorer() storer.Storer {
	return memory.NewStorer(
		storer.WithCollection(i.options.Collection),
		storer.WithVectorSize(i.embedder.Dimension()),
	)
}

func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	detail := strings.ToLower(err.Error())

	for _, marker := range []string{
		"timeout",
		"deadline exceeded",
		"connection",
		"dial tcp",
		"no such host",
		"broken pipe",
	} {
		if strings.Contains(detail, marker) {
			return true
		}
	}

	return false
}
