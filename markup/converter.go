// Package markup turns the restricted Markdown produced by the chat model
// into HTML, and flattens that HTML back into text for the PDF export.
//
// The converter is a fixed sequence of substitution passes over the whole
// document. Order matters: later passes match text that earlier ones
// produced, so the pipeline is exposed as data through Passes.
package markup

import (
	"regexp"
	"strings"
)

// Pass is one substitution step of the pipeline.
type Pass struct {
	Name  string
	Apply func(string) string
}

// ListWrapMode selects how runs of <li> lines receive a <ul> container.
type ListWrapMode string

const (
	// ListWrapAll wraps every contiguous run of list items separately.
	ListWrapAll ListWrapMode = "all"
	// ListWrapFirst reproduces the legacy single greedy match: everything
	// from the first <li> to the last </li> ends up inside one <ul>.
	ListWrapFirst ListWrapMode = "first"
)

// ParseListWrapMode maps a config value to a mode; empty means ListWrapAll.
func ParseListWrapMode(s string) (ListWrapMode, bool) {
	switch ListWrapMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ListWrapAll:
		return ListWrapAll, true
	case ListWrapFirst:
		return ListWrapFirst, true
	}
	return "", false
}

var (
	h3Re = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Re = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Re = regexp.MustCompile(`(?m)^# (.*)$`)

	boldStarRe  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderRe = regexp.MustCompile(`__(.*?)__`)

	italicStarRe  = regexp.MustCompile(`\*(.*?)\*`)
	italicUnderRe = regexp.MustCompile(`_(.*?)_`)

	codeBlockRe  = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodeRe = regexp.MustCompile("`(.*?)`")

	linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	starItemRe    = regexp.MustCompile(`(?m)^\* (.*)$`)
	dashItemRe    = regexp.MustCompile(`(?m)^- (.*)$`)
	orderedItemRe = regexp.MustCompile(`(?m)^\d+\. (.*)$`)

	firstListRunRe = regexp.MustCompile(`(?s)(<li>.*</li>)`)

	emptyParaRe   = regexp.MustCompile(`<p></p>`)
	paraHeadingRe = regexp.MustCompile(`<p>(<h[1-3]>)`)
	headingParaRe = regexp.MustCompile(`(</h[1-3]>)</p>`)
	paraListRe    = regexp.MustCompile(`<p>(<ul>)`)
	listParaRe    = regexp.MustCompile(`(</ul>)</p>`)
	paraPreRe     = regexp.MustCompile(`<p>(<pre>)`)
	preParaRe     = regexp.MustCompile(`(</pre>)</p>`)
)

func replace(re *regexp.Regexp, repl string) func(string) string {
	return func(s string) string { return re.ReplaceAllString(s, repl) }
}

func chain(fns ...func(string) string) func(string) string {
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}
}

// Converter applies an ordered pipeline of passes.
type Converter struct {
	passes []Pass
}

// NewConverter builds the standard pipeline with the given list mode.
func NewConverter(mode ListWrapMode) *Converter {
	listWrap := Pass{Name: "list-wrap", Apply: wrapListRuns}
	if mode == ListWrapFirst {
		listWrap.Apply = wrapFirstListRun
	}
	return &Converter{passes: []Pass{
		{Name: "headings", Apply: chain(
			replace(h3Re, "<h3>${1}</h3>"),
			replace(h2Re, "<h2>${1}</h2>"),
			replace(h1Re, "<h1>${1}</h1>"),
		)},
		{Name: "bold", Apply: chain(
			replace(boldStarRe, "<strong>${1}</strong>"),
			replace(boldUnderRe, "<strong>${1}</strong>"),
		)},
		{Name: "italic", Apply: chain(
			replace(italicStarRe, "<em>${1}</em>"),
			replace(italicUnderRe, "<em>${1}</em>"),
		)},
		{Name: "code-blocks", Apply: replace(codeBlockRe, "<pre><code>${1}</code></pre>")},
		{Name: "inline-code", Apply: replace(inlineCodeRe, "<code>${1}</code>")},
		{Name: "links", Apply: replace(linkRe, `<a href="${2}" target="_blank">${1}</a>`)},
		{Name: "list-items", Apply: chain(
			replace(starItemRe, "<li>${1}</li>"),
			replace(dashItemRe, "<li>${1}</li>"),
			replace(orderedItemRe, "<li>${1}</li>"),
		)},
		listWrap,
		{Name: "paragraphs", Apply: wrapParagraphs},
		{Name: "cleanup", Apply: chain(
			replace(emptyParaRe, ""),
			replace(paraHeadingRe, "${1}"),
			replace(headingParaRe, "${1}"),
			replace(paraListRe, "${1}"),
			replace(listParaRe, "${1}"),
			replace(paraPreRe, "${1}"),
			replace(preParaRe, "${1}"),
		)},
	}}
}

// NewConverterWithPasses builds a converter from an explicit pipeline.
func NewConverterWithPasses(passes []Pass) *Converter {
	return &Converter{passes: append([]Pass(nil), passes...)}
}

// Passes returns a copy of the pipeline in application order.
func (c *Converter) Passes() []Pass {
	return append([]Pass(nil), c.passes...)
}

// Convert runs every pass over the whole document.
func (c *Converter) Convert(markdown string) string {
	out := markdown
	for _, p := range c.passes {
		out = p.Apply(out)
	}
	return out
}

// Render implements Renderer.
func (c *Converter) Render(markdown string) (string, error) {
	return c.Convert(markdown), nil
}

var defaultConverter = NewConverter(ListWrapAll)

// Convert converts markdown with the default pipeline.
func Convert(markdown string) string {
	return defaultConverter.Convert(markdown)
}

func wrapFirstListRun(s string) string {
	loc := firstListRunRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[2]] + "<ul>" + s[loc[2]:loc[3]] + "</ul>" + s[loc[3]:]
}

func isItemLine(line string) bool {
	return strings.HasPrefix(line, "<li>") && strings.HasSuffix(line, "</li>")
}

// wrapListRuns puts each run of consecutive item lines into its own <ul>.
func wrapListRuns(s string) string {
	lines := strings.Split(s, "\n")
	for i := 0; i < len(lines); i++ {
		if !isItemLine(lines[i]) {
			continue
		}
		start := i
		for i+1 < len(lines) && isItemLine(lines[i+1]) {
			i++
		}
		lines[start] = "<ul>" + lines[start]
		lines[i] = lines[i] + "</ul>"
	}
	return strings.Join(lines, "\n")
}

func wrapParagraphs(s string) string {
	return "<p>" + strings.ReplaceAll(s, "\n\n", "</p><p>") + "</p>"
}
