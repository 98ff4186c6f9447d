package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "blocks break lines", in: "<h1>Title</h1><p>Body <strong>bold</strong></p>", want: "Title\nBody bold"},
		{name: "entities decoded", in: "<p>a &amp; b</p>", want: "a & b"},
		{name: "list items one per line", in: "<ul><li>a</li>\n<li>b</li></ul>", want: "a\nb"},
		{name: "blank runs collapse", in: "<pre><code>x\n\n\n\ny</code></pre>", want: "x\n\ny"},
		{name: "surrounding space trimmed", in: "  <p> hi </p>  ", want: "hi"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestPlainText_RoundTripsConvertedMarkdown(t *testing.T) {
	html := Convert("## Goal\n\nShip **fast**.\n\n- one\n- two")
	assert.Equal(t, "Goal\nShip fast.\none\ntwo", PlainText(html))
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("", ListWrapAll)
	require.NoError(t, err)
	assert.IsType(t, &Converter{}, r)

	r, err = NewRenderer("commonmark", ListWrapAll)
	require.NoError(t, err)
	out, err := r.Render("# Title\n\n- a\n- b\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<li>a</li>")

	_, err = NewRenderer("asciidoc", ListWrapAll)
	assert.Error(t, err)
}

func TestConverter_RenderMatchesConvert(t *testing.T) {
	c := NewConverter(ListWrapAll)
	out, err := c.Render("*x*")
	require.NoError(t, err)
	assert.Equal(t, c.Convert("*x*"), out)
}
