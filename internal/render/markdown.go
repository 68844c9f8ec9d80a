package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownRenderer renders GFM. Raw HTML inside content is allowed through
// goldmark and then cleaned by a UGC policy, since editors paste embeds.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span", "div")
	return &MarkdownRenderer{md: md, policy: policy}
}

type MarkdownResult struct {
	HTML     []byte
	Headings []Heading
}

func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext()
	reader := text.NewReader(src)
	doc := r.md.Parser().Parse(reader, parser.WithContext(ctx))

	var heads []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var idStr string
		if id, ok := h.AttributeString("id"); ok {
			switch v := id.(type) {
			case string:
				idStr = v
			case []byte:
				idStr = string(v)
			}
		}
		heads = append(heads, Heading{
			Level: h.Level,
			ID:    idStr,
			Text:  string(headingText(h, src)),
		})
		return ast.WalkSkipChildren, nil
	})

	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{
		HTML:     r.policy.SanitizeBytes(buf.Bytes()),
		Headings: heads,
	}, nil
}

// headingText collects the text of every inline under n, including emphasis
// and code spans.
func headingText(n ast.Node, src []byte) []byte {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			out = append(out, v.Segment.Value(src)...)
			if v.SoftLineBreak() {
				out = append(out, ' ')
			}
		case *ast.String:
			out = append(out, v.Value...)
		default:
			out = append(out, headingText(c, src)...)
		}
	}
	return out
}

// Document is an assembled markdown source together with its rendering.
type Document struct {
	Markdown string
	HTML     template.HTML
	TOC      []Heading
}

// Document renders an assembled markdown source. The HTML has already been
// through the sanitizer, so it is safe to hand to templates unescaped.
func (r *MarkdownRenderer) Document(src string) (Document, error) {
	res, err := r.Render([]byte(src))
	if err != nil {
		return Document{}, err
	}
	return Document{Markdown: src, HTML: template.HTML(res.HTML), TOC: res.Headings}, nil
}
