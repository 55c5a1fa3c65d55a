package index

import (
	getsafe "github.com/zhifalaw/counsel/util/get_safe"
)

// Reserved payload keys. Metadata entries colliding with these are dropped
// at ingestion so one lookup path serves both storage and citation matching.
const (
	keyContent     = "content"
	keyArticleName = "article_name"
	keySection     = "section"
	keySourceId    = "source_id"
	keyOriginalId  = "original_id"
	keyDocType     = "doc_type"
	keyURL         = "url"
)

var reservedKeys = map[string]struct{}{
	keyContent:     {},
	keyArticleName: {},
	keySection:     {},
	keySourceId:    {},
	keyOriginalId:  {},
	keyDocType:     {},
	keyURL:         {},
}

// Document is the unit of retrieval supplied by an ingestion source.
type Document struct {
	Id          string         `json:"id"`
	SourceId    string         `json:"source_id,omitempty"`
	ArticleName string         `json:"article_name,omitempty"`
	Section     string         `json:"section,omitempty"`
	Content     string         `json:"content"`
	DocType     string         `json:"doc_type,omitempty"`
	URL         string         `json:"url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Hit is a ranked search result.
type Hit struct {
	SourceId    string         `json:"source_id"`
	ArticleName string         `json:"article_name"`
	Section     string         `json:"section"`
	Content     string         `json:"content"`
	DocType     string         `json:"doc_type"`
	URL         string         `json:"url"`
	Score       float64        `json:"score"`
	Metadata    map[string]any `json:"metadata"`
}

// buildPayload flattens a document into a storage payload. This is the one
// place reserved-key collisions are resolved: metadata loses.
func buildPayload(doc Document) map[string]any {
	sourceId := doc.SourceId
	if len(sourceId) == 0 {
		sourceId = doc.Id
	}

	docType := doc.DocType
	if len(docType) == 0 {
		docType = "statute"
	}

	payload := map[string]any{
		keyContent:     doc.Content,
		keyArticleName: doc.ArticleName,
		keySection:     doc.Section,
		keySourceId:    sourceId,
		keyOriginalId:  doc.Id,
		keyDocType:     docType,
		keyURL:         doc.URL,
	}

	for k, v := range doc.Metadata {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		payload[k] = v
	}

	return payload
}

// hitFromPayload projects a stored payload back into the hit shape, with the
// open metadata map holding everything outside the reserved fields.
func hitFromPayload(payload map[string]any, score float64) Hit {
	metadata := map[string]any{}
	for k, v := range payload {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		metadata[k] = v
	}

	return Hit{
		SourceId:    getsafe.String(payload, keySourceId),
		ArticleName: getsafe.String(payload, keyArticleName),
		Section:     getsafe.String(payload, keySection),
		Content:     getsafe.String(payload, keyContent),
		DocType:     getsafe.String(payload, keyDocType),
		URL:         getsafe.String(payload, keyURL),
		Score:       score,
		Metadata:    metadata,
	}
}
