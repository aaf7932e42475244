// Package markdown renders pastoral words written in Markdown to HTML
// safe to embed in a page.
package markdown

import (
	"bytes"
	"strings"

	"github.com/dalemusser/casadefe/internal/app/system/htmlsanitize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in the source is omitted (WithUnsafe is not set); the output
// is sanitized again as a second line.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Render converts src to sanitized HTML. Blank input yields "".
func Render(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return htmlsanitize.Sanitize(buf.String()), nil
}

// Excerpt returns the first paragraph of src as plain text, cut to max
// runes. Used for list views.
func Excerpt(src string, max int) string {
	para := strings.TrimSpace(src)
	if i := strings.Index(para, "\n\n"); i >= 0 {
		para = para[:i]
	}
	para = strings.TrimLeft(para, "# >*-")
	para = strings.Join(strings.Fields(para), " ")
	r := []rune(para)
	if max <= 0 || len(r) <= max {
		return para
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
