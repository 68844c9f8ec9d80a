package render

import (
	"strings"
	"testing"

	"mysite/internal/domain/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRenderHeadings(t *testing.T) {
	md := NewMarkdownRenderer()
	res, err := md.Render([]byte("# Giriş\n\n## Code *Example*\n\ntext"))
	require.NoError(t, err)

	require.Len(t, res.Headings, 2)
	assert.Equal(t, 1, res.Headings[0].Level)
	assert.Equal(t, "Giriş", res.Headings[0].Text)
	assert.Equal(t, "Code Example", res.Headings[1].Text)
	assert.NotEmpty(t, res.Headings[1].ID)
	assert.Contains(t, string(res.HTML), `id="`+res.Headings[1].ID+`"`)
}

func TestMarkdownRenderSanitizes(t *testing.T) {
	md := NewMarkdownRenderer()
	res, err := md.Render([]byte("hi <script>alert(1)</script> <a href=\"javascript:x()\">x</a>\n\n| a |\n|---|\n| 1 |"))
	require.NoError(t, err)

	out := string(res.HTML)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
	assert.True(t, strings.Contains(out, "<table>"))
}

func TestMarkdownRenderAssembledImage(t *testing.T) {
	md := NewMarkdownRenderer()
	res, err := md.Render([]byte("![Y](http://x/y.png)"))
	require.NoError(t, err)
	assert.Contains(t, string(res.HTML), `<img src="http://x/y.png" alt="Y"`)
}

func TestDocumentFromAssembledEntity(t *testing.T) {
	md := NewMarkdownRenderer()
	doc, err := md.Document(Assemble(content.Entity{Title: "Empty"}))
	require.NoError(t, err)

	assert.Equal(t, "## Empty\n"+NoContent, doc.Markdown)
	assert.Contains(t, string(doc.HTML), "<h2")
	require.Len(t, doc.TOC, 1)
	assert.Equal(t, "Empty", doc.TOC[0].Text)
}
