package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankRunRe = regexp.MustCompile(`\n\s*\n`)

// blockAtoms end with a line break when flattened so headings and list
// items do not run into the following text.
var blockAtoms = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.P: true, atom.Li: true, atom.Pre: true, atom.Ul: true, atom.Ol: true,
	atom.Div: true, atom.Br: true, atom.Tr: true, atom.Blockquote: true,
}

// PlainText flattens rendered HTML into text for the paginated export.
// Blank-line runs collapse to one blank line and the result is trimmed.
func PlainText(doc string) string {
	nodes, err := html.ParseFragment(strings.NewReader(doc), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.TrimSpace(doc)
	}

	var b strings.Builder
	for _, n := range nodes {
		collectText(n, &b)
	}
	text := blankRunRe.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(text)
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" && strings.HasSuffix(b.String(), "\n") {
			return
		}
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
	if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
		if s := b.String(); len(s) > 0 && !strings.HasSuffix(s, "\n") {
			b.WriteString("\n")
		}
	}
}
