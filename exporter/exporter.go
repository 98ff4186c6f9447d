// Package exporter turns a completed analysis into a paginated PDF or a
// standalone HTML page.
package exporter

import (
	"fmt"
	"io"
	"log"
	"time"

	"repo_analyzer/generator"
	"repo_analyzer/layout"
	"repo_analyzer/markup"
)

type rgb struct{ r, g, b int }

var (
	skyBlue   = rgb{14, 165, 233}
	darkSlate = rgb{15, 23, 42}
	mutedGray = rgb{148, 163, 184}
	bodyInk   = rgb{30, 41, 59}
	white     = rgb{255, 255, 255}
)

const (
	headerTitle    = "GitHub Analyzer"
	headerSubtitle = "AI Repository Analysis"
	bodyFontSize   = 10.0
	maxDescLines   = 3
)

var sectionTitles = map[generator.ReportKind]string{
	generator.KindSummary:       "Project Summary",
	generator.KindStructure:     "Structure Analysis",
	generator.KindDocumentation: "Documentation",
	generator.KindSuggestions:   "Improvement Suggestions",
}

var sectionBreaks = map[generator.ReportKind]layout.BreakPolicy{
	generator.KindSummary:       layout.BreakNone,
	generator.KindStructure:     layout.BreakIfLow,
	generator.KindDocumentation: layout.BreakAlways,
	generator.KindSuggestions:   layout.BreakAlways,
}

// Options configures an Exporter.
type Options struct {
	Meta     Metadata
	Locale   Locale
	Geometry layout.Geometry
	// NewCanvas defaults to NewPDFCanvas.
	NewCanvas func(Metadata) Canvas
	// Translate overrides the canvas's own text encoding.
	Translate func(string) string
	// Now stamps the footer date; defaults to time.Now.
	Now     func() time.Time
	Verbose bool
	Logger  *log.Logger
}

// Exporter renders bundles. Every Export call gets its own canvas, text
// translator and layout cursor, so concurrent exports share no state.
type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	if opts.Geometry == (layout.Geometry{}) {
		opts.Geometry = layout.A4()
	}
	if opts.NewCanvas == nil {
		opts.NewCanvas = func(m Metadata) Canvas { return NewPDFCanvas(m) }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Exporter{opts: opts}
}

func (e *Exporter) infof(format string, args ...interface{}) {
	if !e.opts.Verbose {
		return
	}
	e.opts.Logger.Printf("[INFO] "+format, args...)
}

// bodyMeasurer wraps body text with the body font selected.
type bodyMeasurer struct{ c Canvas }

func (m bodyMeasurer) SplitText(text string, width float64) []string {
	m.c.SetFont("", bodyFontSize)
	return m.c.SplitText(text, width)
}

// translator picks the override or the canvas's own encoding.
func (e *Exporter) translator(c Canvas) func(string) string {
	if e.opts.Translate != nil {
		return e.opts.Translate
	}
	return c.Translate
}

// Sections builds the layout input for b with its text passed through tr.
func (e *Exporter) Sections(b *Bundle, tr func(string) string) []layout.Section {
	loc := e.opts.Locale
	panel := &layout.Panel{
		Name:        tr(b.Repo.Name),
		Description: tr(b.Repo.Description),
		Stats: []string{
			tr(loc.Number(b.Repo.Stars) + " stars"),
			tr(loc.Number(b.Repo.Forks) + " forks"),
			tr(b.Repo.Language),
		},
	}
	sections := []layout.Section{{Title: tr("Repository Information"), Panel: panel}}
	for _, kind := range generator.ReportKinds {
		sections = append(sections, layout.Section{
			Title: tr(sectionTitles[kind]),
			Body:  tr(markup.PlainText(b.Reports[kind].HTML)),
			Break: sectionBreaks[kind],
		})
	}
	return sections
}

// Export writes b as a PDF to w, dated at the time of the export. A bundle
// without all of its data fails with apperr.ErrMissingData before anything
// is drawn.
func (e *Exporter) Export(b *Bundle, w io.Writer) error {
	if err := b.Check(); err != nil {
		return err
	}

	now := e.opts.Now()
	meta := e.opts.Meta
	if meta.Created.IsZero() {
		meta.Created = now
	}
	canvas := e.opts.NewCanvas(meta)
	tr := e.translator(canvas)

	instrs, err := layout.Compute(e.Sections(b, tr), e.opts.Geometry, bodyMeasurer{c: canvas}, e.opts.Locale.Date(now))
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	canvas.AddPage()
	for _, in := range instrs {
		e.draw(canvas, tr, in)
	}
	e.infof("Exported %s: %d pages", b.Repo.Name, canvas.PageCount())
	if err := canvas.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (e *Exporter) draw(c Canvas, tr func(string) string, in layout.Instruction) {
	g := e.opts.Geometry
	switch in.Op {
	case layout.OpNewPage:
		c.AddPage()
	case layout.OpHeader:
		e.drawHeader(c, tr)
	case layout.OpSectionTitle:
		fill(c, skyBlue)
		c.Rect(g.Margin-5, in.Y-5, 5, 10)
		ink(c, skyBlue)
		c.SetFont("B", 16)
		c.Text(g.Margin+5, in.Y+2, in.Text)
	case layout.OpPanel:
		e.drawPanel(c, in)
	case layout.OpLine:
		ink(c, bodyInk)
		c.SetFont("", bodyFontSize)
		c.Text(g.Margin, in.Y, in.Text)
	case layout.OpFooter:
		c.SetPage(in.Page)
		e.drawFooter(c, tr, in.Page, in.Text)
	}
}

func (e *Exporter) drawHeader(c Canvas, tr func(string) string) {
	g := e.opts.Geometry
	fill(c, skyBlue)
	c.Rect(0, 0, g.Width, g.HeaderHeight)
	ink(c, white)
	c.SetFont("B", 24)
	c.Text(g.Margin, 25, tr(headerTitle))
	c.SetFont("", 10)
	c.Text(g.Margin, 33, tr(headerSubtitle))
}

func (e *Exporter) drawPanel(c Canvas, in layout.Instruction) {
	g := e.opts.Geometry
	p := in.Panel
	fill(c, darkSlate)
	c.Rect(g.Margin-5, in.Y, g.Width-2*(g.Margin-5), g.PanelHeight)

	ink(c, white)
	c.SetFont("B", 12)
	c.Text(g.Margin, in.Y+10, p.Name)

	ink(c, mutedGray)
	c.SetFont("", 9)
	desc := c.SplitText(p.Description, g.Width-2*g.Margin-10)
	if len(desc) > maxDescLines {
		desc = desc[:maxDescLines]
	}
	for i, line := range desc {
		c.Text(g.Margin, in.Y+18+float64(i)*4.5, line)
	}
	for i, stat := range p.Stats {
		c.Text(g.Margin+float64(i)*70, in.Y+35, stat)
	}
}

func (e *Exporter) drawFooter(c Canvas, tr func(string) string, page int, date string) {
	g := e.opts.Geometry
	fill(c, darkSlate)
	c.Rect(0, g.Height-g.FooterHeight, g.Width, g.FooterHeight)
	ink(c, mutedGray)
	c.SetFont("", 8)
	c.Text(g.Margin, g.Height-11, tr("Generated on "+date))
	c.Text(g.Width-40, g.Height-11, tr(fmt.Sprintf("Page %d", page)))
}

func fill(c Canvas, col rgb) { c.SetFillColor(col.r, col.g, col.b) }
func ink(c Canvas, col rgb)  { c.SetTextColor(col.r, col.g, col.b) }
