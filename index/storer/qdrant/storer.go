package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zhifalaw/counsel/index/storer"
)

type qdrantStorer struct {
	options storer.Options
	client  *http.Client
}

func (s *qdrantStorer) Ensure(ctx context.Context) error {
	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.options.VectorSize,
			"distance": s.options.Distance,
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		// a collection created by a previous run is fine
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		if strings.Contains(strings.ToLower(rsp.Status.Error), "already exists") {
			return nil
		}
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (s *qdrantStorer) Upsert(ctx context.Context, points []storer.Point) error {
	if len(points) == 0 {
		return nil
	}

	converted := make([]map[string]any, len(points))
	for i, p := range points {
		converted[i] = map[string]any{
			"id":      p.Id,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}

	req := map[string]any{
		"points": converted,
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (s *qdrantStorer) Search(ctx context.Context, vector []float32, limit int) ([]storer.ScoredPoint, error) {
	if limit < 1 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[[]qdrantScoredPoint]

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	results := make([]storer.ScoredPoint, 0, len(rsp.Result))

	for _, p := range rsp.Result {
		results = append(results, storer.ScoredPoint{
			Point: storer.Point{
				Id:      p.Id,
				Vector:  p.Vector,
				Payload: p.Payload,
			},
			Score: p.Score,
		})
	}

	return results, nil
}

func (s *qdrantStorer) Scroll(ctx context.Context, limit int) ([]storer.Point, error) {
	if limit < 1 {
		return nil, nil
	}

	req := map[string]any{
		"limit":        limit,
		"with_payload": true,
	}

	path := fmt.Sprintf("/collections/%s/points/scroll", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[qdrantScrollResult]

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	results := make([]storer.Point, 0, len(rsp.Result.Points))

	for _, p := range rsp.Result.Points {
		results = append(results, storer.Point{
			Id:      p.Id,
			Vector:  p.Vector,
			Payload: p.Payload,
		})
	}

	return results, nil
}

func (s *qdrantStorer) Info(ctx context.Context) (storer.Info, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[qdrantCollectionInfo]

	if err := s.do(ctx, http.MethodGet, path, nil, &rsp); err != nil {
		return storer.Info{}, err
	}

	return storer.Info{Points: rsp.Result.PointsCount}, nil
}

func (s *qdrantStorer) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := s.options.Location + path

	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(s.options.ApiKey) > 0 {
		request.Header.Set("api-key", s.options.ApiKey)
		request.Header.Set("Authorization", "Bearer "+s.options.ApiKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Collection) == 0 ||
		options.VectorSize == 0 {
		panic("missing location, collection, or vector size for qdrant storer")
	}

	client := &http.Client{
		Timeout: options.Timeout,
	}

	s := &qdrantStorer{
		options: options,
		client:  client,
	}

	return s
}
