package markup

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns a Markdown report into HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// CommonMark renders with goldmark and the GFM extensions. It handles
// nesting and escapes raw HTML, unlike the pass pipeline.
type CommonMark struct {
	md goldmark.Markdown
}

func NewCommonMark() *CommonMark {
	return &CommonMark{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (c *CommonMark) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("commonmark: %w", err)
	}
	return buf.String(), nil
}

// NewRenderer picks a renderer by name: "pipeline" (default) or "commonmark".
func NewRenderer(name string, mode ListWrapMode) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pipeline":
		return NewConverter(mode), nil
	case "commonmark":
		return NewCommonMark(), nil
	default:
		return nil, fmt.Errorf("markup renderer %q not supported", name)
	}
}
