package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhifalaw/counsel/generator"
	"github.com/zhifalaw/counsel/index"
)

type stubEmbedder struct {
	dim int
}

func (e stubEmbedder) Name() string   { return "stub" }
func (e stubEmbedder) Dimension() int { return e.dim }

func (e stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, e.dim)
	v[0] = 1
	return v, nil
}

func (e stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i], _ = e.Embed(ctx, texts[i])
	}
	return vectors, nil
}

type stubGenerator struct {
	answer string
	err    error

	gotMessages    []generator.Message
	gotTemperature float32
	calls          int
}

func (g *stubGenerator) Generate(ctx context.Context, messages []generator.Message, temperature float32) (string, error) {
	g.calls++
	g.gotMessages = messages
	g.gotTemperature = temperature
	return g.answer, g.err
}

func newTestIndex(t *testing.T, docs ...index.Document) *index.Index {
	t.Helper()

	idx, err := index.New(
		context.Background(),
		index.WithCollection("composer_test"),
		index.WithEmbedder(stubEmbedder{dim: 3}),
	)
	if err != nil {
		t.Fatal(err)
	}

	if len(docs) > 0 {
		if err := idx.Upsert(context.Background(), docs); err != nil {
			t.Fatal(err)
		}
	}

	return idx
}

func statuteDoc() index.Document {
	return index.Document{
		Id:          "xingfa-232",
		SourceId:    "xingfa-232",
		ArticleName: "中华人民共和国刑法",
		Section:     "第二百三十二条",
		Content:     "故意杀人的，处死刑、无期徒刑或者十年以上有期徒刑。",
		DocType:     "statute",
		URL:         "https://example.com/xingfa#232",
	}
}

func TestAnswerWithoutKnowledgeIsTerminal(t *testing.T) {
	gen := &stubGenerator{answer: "should never be used"}
	c := New(newTestIndex(t), gen)

	rsp, err := c.Answer(context.Background(), "什么是正当防卫？")
	if err != nil {
		t.Fatal(err)
	}

	if rsp.Answer != noKnowledgeAnswer {
		t.Fatalf("expected the fixed no-knowledge answer, got %q", rsp.Answer)
	}
	if len(rsp.Citations) != 0 || len(rsp.Sources) != 0 {
		t.Fatalf("expected empty citations and sources, got %+v", rsp)
	}
	if gen.calls != 0 {
		t.Fatal("the generator must not be invoked without context")
	}
}

func TestAnswerComposesCitationsAndSources(t *testing.T) {
	gen := &stubGenerator{answer: "故意杀人处死刑 [[xingfa-232]]。"}
	c := New(newTestIndex(t, statuteDoc()), gen)

	rsp, err := c.Answer(context.Background(), "故意杀人怎么判？")
	if err != nil {
		t.Fatal(err)
	}

	if len(rsp.Citations) != 1 {
		t.Fatalf("expected one citation, got %d", len(rsp.Citations))
	}
	if rsp.Citations[0].SourceId != "xingfa-232" {
		t.Fatalf("unexpected citation: %+v", rsp.Citations[0])
	}
	if len(rsp.Sources) != 1 {
		t.Fatalf("sources should carry the full hit list, got %d", len(rsp.Sources))
	}
	if gen.gotTemperature != 0.3 {
		t.Fatalf("expected the default temperature 0.3, got %v", gen.gotTemperature)
	}
}

func TestAnswerPropagatesUpstreamFailureOnce(t *testing.T) {
	upstream := errors.New("503 from completion endpoint")
	gen := &stubGenerator{err: upstream}
	c := New(newTestIndex(t, statuteDoc()), gen)

	_, err := c.Answer(context.Background(), "故意杀人怎么判？")
	if err == nil {
		t.Fatal("expected the upstream failure to surface")
	}
	if !errors.Is(err, upstream) {
		t.Fatalf("expected the wrapped upstream error, got %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("no retries allowed, generator called %d times", gen.calls)
	}
}

func TestBuildPrompt(t *testing.T) {
	hits := []index.Hit{
		{SourceId: "xingfa-20", ArticleName: "中华人民共和国刑法", Section: "第二十条", Content: "正当防卫……"},
		{SourceId: "case-002", ArticleName: "典型案例", Section: "案例002", Content: "王五……"},
	}

	messages := buildPrompt("什么是正当防卫？", hits)

	if len(messages) != 2 {
		t.Fatalf("expected a two-message prompt, got %d", len(messages))
	}
	if messages[0].Role != generator.RoleSystem {
		t.Fatalf("first message must be the system instruction, got %s", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "[[来源ID]]") {
		t.Fatal("system instruction must mandate the citation marker format")
	}

	user := messages[1]
	if user.Role != generator.RoleUser {
		t.Fatalf("second message must be the user message, got %s", user.Role)
	}
	for _, want := range []string{
		"【参考资料 1】",
		"【参考资料 2】",
		"[来源ID: xingfa-20]",
		"[来源ID: case-002]",
		"什么是正当防卫？",
	} {
		if !strings.Contains(user.Content, want) {
			t.Fatalf("user message missing %q", want)
		}
	}
}
