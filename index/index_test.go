package index

import (
	"testing"
)

func TestPointIdPassesThroughWellFormedUUIDs(t *testing.T) {
	id := "6BA7B810-9DAD-11D1-80B4-00C04FD430C8"

	got := PointId(id)
	if got != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("expected canonical form, got %s", got)
	}
}

func TestPointIdIsDeterministicForOpaqueIds(t *testing.T) {
	first := PointId("xingfa-232")
	second := PointId("xingfa-232")

	if first != second {
		t.Fatalf("same input id produced %s and %s", first, second)
	}

	if first == PointId("xingfa-234") {
		t.Fatal("distinct input ids produced the same point id")
	}
}

func TestBuildPayloadDefaultsAndReservedKeys(t *testing.T) {
	doc := Document{
		Id:      "xingfa-20",
		Content: "正当防卫……",
		Metadata: map[string]any{
			"chapter":   "第二章 犯罪",
			"source_id": "spoofed", // collides with a reserved field
		},
	}

	payload := buildPayload(doc)

	if payload["source_id"] != "xingfa-20" {
		t.Fatalf("source_id should default to id, got %v", payload["source_id"])
	}
	if payload["original_id"] != "xingfa-20" {
		t.Fatalf("original_id missing, got %v", payload["original_id"])
	}
	if payload["doc_type"] != "statute" {
		t.Fatalf("doc_type should default to statute, got %v", payload["doc_type"])
	}
	if payload["chapter"] != "第二章 犯罪" {
		t.Fatalf("open metadata key lost: %v", payload["chapter"])
	}
}

func TestHitFromPayloadExcludesReservedFields(t *testing.T) {
	payload := map[string]any{
		"content":      "条文内容",
		"article_name": "中华人民共和国刑法",
		"section":      "第二十条",
		"source_id":    "xingfa-20",
		"original_id":  "xingfa-20",
		"doc_type":     "statute",
		"url":          "https://example.com/xingfa#20",
		"chapter":      "第二章 犯罪",
	}

	hit := hitFromPayload(payload, 0.9)

	if hit.SourceId != "xingfa-20" || hit.Content != "条文内容" {
		t.Fatalf("unexpected hit: %+v", hit)
	}
	if hit.Score != 0.9 {
		t.Fatalf("unexpected score: %v", hit.Score)
	}
	if _, reserved := hit.Metadata["content"]; reserved {
		t.Fatal("reserved field leaked into metadata")
	}
	if hit.Metadata["chapter"] != "第二章 犯罪" {
		t.Fatalf("open field missing from metadata: %v", hit.Metadata)
	}
}

func TestKeywordScore(t *testing.T) {
	words := queryWords("故意杀人")

	score := keywordScore("故意杀人的，处死刑、无期徒刑或者十年以上有期徒刑。", "中华人民共和国刑法", "第二百三十二条", words)
	if score != 0.2 {
		t.Fatalf("expected 2/10 for a content match, got %v", score)
	}

	miss := keywordScore("民事主体从事民事活动，不得违反法律。", "中华人民共和国民法典", "第八条", words)
	if miss != 0 {
		t.Fatalf("expected zero score without matches, got %v", miss)
	}
}

func TestKeywordScoreCountsEveryField(t *testing.T) {
	words := queryWords("刑法 杀人")

	// "刑法" appears in the article name, "杀人" in the content.
	score := keywordScore("故意杀人的，处死刑。", "中华人民共和国刑法", "", words)
	if score != 0.3 {
		t.Fatalf("expected (2+1)/10, got %v", score)
	}
}

func TestQueryWordsDeduplicates(t *testing.T) {
	words := queryWords("正当防卫 正当防卫 正当防卫")
	if len(words) != 1 {
		t.Fatalf("expected one unique word, got %v", words)
	}
}

func TestIsConnectivityError(t *testing.T) {
	for _, detail := range []string{
		"dial tcp 127.0.0.1:6333: connect: connection refused",
		"context deadline exceeded",
		"Client.Timeout exceeded while awaiting headers",
	} {
		if !isConnectivityError(errForTest(detail)) {
			t.Fatalf("%q should classify as connectivity", detail)
		}
	}

	if isConnectivityError(errForTest("qdrant http 400: bad vector size")) {
		t.Fatal("a rejected write is not a connectivity failure")
	}
	if isConnectivityError(nil) {
		t.Fatal("nil is not a connectivity failure")
	}
}

type errForTest string

func (e errForTest) Error() string { return string(e) }
