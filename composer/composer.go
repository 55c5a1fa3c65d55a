package composer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zhifalaw/counsel/generator"
	"github.com/zhifalaw/counsel/index"
)

const (
	systemPrompt = `你是一名资深的中国法律顾问。请严格基于以下【参考资料】回答用户问题。

【回答要求】：
1. 引用规范：每一处法律结论必须在句尾标注来源，格式为 [[来源ID]]。
2. 严谨性：如果【参考资料】中没有包含回答问题所需的信息，请直接说明"现有资料不足以回答该问题"，严禁编造法律条文。
3. 结构：先给出简短结论，再展开法律依据，最后给出实务建议。
`

	noKnowledgeAnswer = "抱歉，知识库中未找到相关信息，无法回答您的问题。请检查：1) 向量库是否成功加载数据 2) 查询是否与知识库内容相关"
)

// Response is the structured answer returned to the caller: the free-text
// answer, citations parsed out of it, and the full hit list used as context.
type Response struct {
	Answer    string      `json:"answer"`
	Citations []Citation  `json:"citations"`
	Sources   []index.Hit `json:"sources"`
}

// Composer retrieves context from the index and asks the generator for a
// cited answer. It holds no per-request state.
type Composer struct {
	options   Options
	index     *index.Index
	generator generator.Generator
}

func New(idx *index.Index, gen generator.Generator, opts ...Option) *Composer {
	return &Composer{
		options:   NewOptions(opts...),
		index:     idx,
		generator: gen,
	}
}

func (c *Composer) Answer(ctx context.Context, question string) (Response, error) {
	hits, err := c.index.Search(ctx, question, c.options.TopK)
	if err != nil {
		return Response{}, fmt.Errorf("search context: %w", err)
	}

	if len(hits) == 0 {
		slog.InfoContext(ctx, "no relevant documents for question")
		return Response{
			Answer:    noKnowledgeAnswer,
			Citations: []Citation{},
			Sources:   []index.Hit{},
		}, nil
	}

	messages := buildPrompt(question, hits)

	genCtx, cancel := context.WithTimeout(ctx, c.options.Timeout)
	defer cancel()

	answer, err := c.generator.Generate(genCtx, messages, c.options.Temperature)
	if err != nil {
		return Response{}, fmt.Errorf("upstream completion failed: %w", err)
	}

	return Response{
		Answer:    answer,
		Citations: extractCitations(answer, hits),
		Sources:   hits,
	}, nil
}

func buildPrompt(question string, hits []index.Hit) []generator.Message {
	var b strings.Builder

	b.WriteString("【参考资料】：\n\n")

	for n, hit := range hits {
		if n > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "【参考资料 %d】\n", n+1)
		fmt.Fprintf(&b, "来源: %s %s\n", hit.ArticleName, hit.Section)
		fmt.Fprintf(&b, "内容: %s\n", hit.Content)
		fmt.Fprintf(&b, "[来源ID: %s]", hit.SourceId)
	}

	fmt.Fprintf(&b, "\n\n【用户问题】：\n%s", question)

	return []generator.Message{
		{Role: generator.RoleSystem, Content: systemPrompt},
		{Role: generator.RoleUser, Content: b.String()},
	}
}
