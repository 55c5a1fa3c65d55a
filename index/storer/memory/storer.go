package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/zhifalaw/counsel/index/storer"
)

// memoryStorer is the in-process fallback index. It holds every point in a
// map guarded by a RWMutex and ranks searches by cosine similarity.
type memoryStorer struct {
	options storer.Options
	points  map[string]storer.Point
	order   []string
	mtx     sync.RWMutex
}

func (s *memoryStorer) Ensure(ctx context.Context) error {
	return nil
}

func (s *memoryStorer) Upsert(ctx context.Context, points []storer.Point) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, p := range points {
		cpy := storer.Point{
			Id:      p.Id,
			Vector:  append([]float32(nil), p.Vector...),
			Payload: maps.Clone(p.Payload),
		}

		if _, exists := s.points[p.Id]; !exists {
			s.order = append(s.order, p.Id)
		}

		s.points[p.Id] = cpy
	}

	return nil
}

func (s *memoryStorer) Search(ctx context.Context, vector []float32, limit int) ([]storer.ScoredPoint, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]storer.ScoredPoint, 0, len(s.points))

	for _, id := range s.order {
		p := s.points[id]
		candidates = append(candidates, storer.ScoredPoint{
			Point: p,
			Score: storer.CosineSimilarity(vector, p.Vector),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (s *memoryStorer) Scroll(ctx context.Context, limit int) ([]storer.Point, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	results := make([]storer.Point, 0, limit)

	for _, id := range s.order {
		if len(results) >= limit {
			break
		}
		results = append(results, s.points[id])
	}

	return results, nil
}

func (s *memoryStorer) Info(ctx context.Context) (storer.Info, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return storer.Info{Points: len(s.points)}, nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	s := &memoryStorer{
		options: options,
		points:  map[string]storer.Point{},
	}

	return s
}
