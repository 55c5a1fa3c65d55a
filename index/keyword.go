package index

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/zhifalaw/counsel/index/storer"
	getsafe "github.com/zhifalaw/counsel/util/get_safe"
)

// keywordSearch is the degraded-recall substitute for vector search: a
// bounded scroll with additive substring scoring. Indexes larger than the
// scroll limit are not fully covered.
func (i *Index) keywordSearch(ctx context.Context, st storer.Storer, query string, topK int) ([]Hit, error) {
	points, err := st.Scroll(ctx, i.options.ScrollLimit)
	if err != nil {
		slog.WarnContext(ctx, "keyword scroll failed, returning no hits", "error", err)
		return nil, nil
	}

	words := queryWords(query)
	if len(words) == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, len(points))

	for _, p := range points {
		score := keywordScore(
			getsafe.String(p.Payload, keyContent),
			getsafe.String(p.Payload, keyArticleName),
			getsafe.String(p.Payload, keySection),
			words,
		)
		if score <= 0 {
			continue
		}
		hits = append(hits, hitFromPayload(p.Payload, score))
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}

	return hits, nil
}

// +2 per query word found in content, +1 in article name, +1 in section,
// normalized by 10.
func keywordScore(content, articleName, section string, words []string) float64 {
	content = strings.ToLower(content)
	articleName = strings.ToLower(articleName)
	section = strings.ToLower(section)

	score := 0
	for _, w := range words {
		if strings.Contains(content, w) {
			score += 2
		}
		if strings.Contains(articleName, w) {
			score++
		}
		if strings.Contains(section, w) {
			score++
		}
	}

	return float64(score) / 10.0
}

func queryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))

	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))

	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		words = append(words, f)
	}

	return words
}
