package storer

import "context"

// Point is one stored document vector with its payload.
type Point struct {
	Id      string
	Vector  []float32
	Payload map[string]any
}

// ScoredPoint is a point ranked by a similarity search.
type ScoredPoint struct {
	Point
	Score float64
}

type Info struct {
	Points int
}

// Storer is the vector index client. Both networked and in-process
// implementations sit behind it; the collection is fixed via options.
type Storer interface {
	Ensure(ctx context.Context) error
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]ScoredPoint, error)
	Scroll(ctx context.Context, limit int) ([]Point, error)
	Info(ctx context.Context) (Info, error)
}
