package composer

import (
	"regexp"

	"github.com/zhifalaw/counsel/index"
)

const excerptLimit = 200

// Matches the inline marker contract between the prompt and this parser:
// double square brackets, no internal closing bracket.
var citationPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// Citation ties one cited source id in the answer back to its document.
// Citations are built per answer and never persisted.
type Citation struct {
	SourceId    string `json:"source_id"`
	ArticleName string `json:"article_name"`
	Section     string `json:"section,omitempty"`
	Content     string `json:"content"`
	URL         string `json:"url,omitempty"`
}

// extractCitations scans the answer for [[source_id]] markers in order of
// first appearance. Markers not matching a shown hit, and repeats, are
// silently dropped; the model is only trusted as far as set membership.
func extractCitations(answer string, hits []index.Hit) []Citation {
	bySourceId := make(map[string]index.Hit, len(hits))
	for _, hit := range hits {
		if _, exists := bySourceId[hit.SourceId]; exists {
			continue // first match wins
		}
		bySourceId[hit.SourceId] = hit
	}

	citations := []Citation{}
	emitted := map[string]struct{}{}

	for _, match := range citationPattern.FindAllStringSubmatch(answer, -1) {
		sourceId := match[1]

		hit, known := bySourceId[sourceId]
		if !known {
			continue
		}
		if _, dup := emitted[sourceId]; dup {
			continue
		}
		emitted[sourceId] = struct{}{}

		citations = append(citations, Citation{
			SourceId:    sourceId,
			ArticleName: hit.ArticleName,
			Section:     hit.Section,
			Content:     truncate(hit.Content, excerptLimit),
			URL:         hit.URL,
		})
	}

	return citations
}

// truncate cuts at a rune boundary and appends an ellipsis marker. Content
// at or under the limit passes through unchanged.
func truncate(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
