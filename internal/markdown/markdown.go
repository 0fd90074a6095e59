// Package markdown renders post bodies to HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer wraps a configured goldmark instance. Safe for reuse across posts.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a renderer with GFM tables/strikethrough/autolinks and
// stable auto-generated heading IDs.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				// Posts embed raw HTML (video tags, footnote anchors).
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Render converts a Markdown body (frontmatter already removed) to HTML.
func (r *Renderer) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
