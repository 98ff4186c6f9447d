package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repo_analyzer/apperr"
	"repo_analyzer/generator"
	"repo_analyzer/github"
)

// recordingCanvas logs every call; text wraps at 2mm per character.
type recordingCanvas struct {
	calls []string
	texts []string
	pages int
	cur   int
}

func (c *recordingCanvas) log(format string, args ...interface{}) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *recordingCanvas) AddPage() {
	c.pages++
	c.cur = c.pages
	c.log("add-page")
}
func (c *recordingCanvas) SetPage(n int)                { c.cur = n; c.log("set-page %d", n) }
func (c *recordingCanvas) PageCount() int               { return c.pages }
func (c *recordingCanvas) SetFillColor(r, g, b int)     { c.log("fill %d,%d,%d", r, g, b) }
func (c *recordingCanvas) SetTextColor(r, g, b int)     { c.log("ink %d,%d,%d", r, g, b) }
func (c *recordingCanvas) SetFont(s string, sz float64) { c.log("font %s %.0f", s, sz) }
func (c *recordingCanvas) Rect(x, y, w, h float64)      { c.log("rect %.0f,%.0f", x, y) }
func (c *recordingCanvas) Text(x, y float64, s string) {
	c.log("text p%d %.0f %s", c.cur, y, s)
	c.texts = append(c.texts, s)
}
func (c *recordingCanvas) Output(w io.Writer) error {
	_, err := io.WriteString(w, "%FAKE")
	return err
}

func (c *recordingCanvas) SplitText(text string, width float64) []string {
	max := int(width / 2)
	var lines []string
	var cur string
	for _, w := range strings.Fields(text) {
		if cur != "" && len(cur)+1+len(w) > max {
			lines = append(lines, cur)
			cur = ""
		}
		if cur != "" {
			cur += " "
		}
		cur += w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func (c *recordingCanvas) Translate(s string) string { return "~" + s }

type canvasFactory struct {
	made []*recordingCanvas
}

func (f *canvasFactory) New(Metadata) Canvas {
	c := &recordingCanvas{}
	f.made = append(f.made, c)
	return c
}

func identity(s string) string { return s }

func sampleBundle() *Bundle {
	reports := map[generator.ReportKind]generator.Report{}
	for _, k := range generator.ReportKinds {
		reports[k] = generator.Report{Kind: k, HTML: "<h2>" + string(k) + "</h2><p>Body of " + string(k) + ".</p>"}
	}
	return &Bundle{
		Repo: github.RepoInfo{
			Name:        "foo/bar",
			Description: "A bar",
			Stars:       1234,
			Forks:       56,
			Language:    "Go",
		},
		Reports:   reports,
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}

var exportDay = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return exportDay }

func newTestExporter(f *canvasFactory) *Exporter {
	loc, _ := NewLocale("en-US")
	return New(Options{Locale: loc, NewCanvas: f.New, Translate: identity, Now: fixedClock})
}

func TestExport_MissingDataDrawsNothing(t *testing.T) {
	incomplete := sampleBundle()
	delete(incomplete.Reports, generator.KindSuggestions)
	noRepo := sampleBundle()
	noRepo.Repo = github.RepoInfo{}

	for name, b := range map[string]*Bundle{"nil": nil, "missing report": incomplete, "missing repo": noRepo} {
		t.Run(name, func(t *testing.T) {
			f := &canvasFactory{}
			var buf bytes.Buffer
			err := newTestExporter(f).Export(b, &buf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrMissingData))
			assert.Empty(t, f.made)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestExport_Pages(t *testing.T) {
	f := &canvasFactory{}
	var buf bytes.Buffer
	require.NoError(t, newTestExporter(f).Export(sampleBundle(), &buf))
	require.Len(t, f.made, 1)
	c := f.made[0]

	// documentation and suggestions always start on a fresh page
	assert.Equal(t, 3, c.PageCount())
	assert.Equal(t, "%FAKE", buf.String())
	assert.Contains(t, c.calls, "text p1 80 foo/bar")
	assert.Contains(t, c.calls, "text p1 105 1,234 stars")
	assert.Contains(t, c.calls, "text p1 57 Repository Information")
	assert.Contains(t, c.calls, "text p1 88 A bar")
	assert.Contains(t, c.calls, "text p2 57 Documentation")
	assert.Contains(t, c.calls, "text p3 57 Improvement Suggestions")
	assert.Contains(t, c.texts, "Body of suggestions.")
	for p := 1; p <= 3; p++ {
		assert.Contains(t, c.calls, fmt.Sprintf("text p%d 286 Page %d", p, p))
		assert.Contains(t, c.calls, fmt.Sprintf("text p%d 286 Generated on 10/15/2026", p))
	}
}

func TestExport_FooterDateIsExportTime(t *testing.T) {
	day := exportDay
	loc, _ := NewLocale("en-US")
	f := &canvasFactory{}
	e := New(Options{Locale: loc, NewCanvas: f.New, Translate: identity, Now: func() time.Time { return day }})
	b := sampleBundle()

	require.NoError(t, e.Export(b, io.Discard))
	day = day.AddDate(0, 0, 1)
	require.NoError(t, e.Export(b, io.Discard))

	require.Len(t, f.made, 2)
	assert.Contains(t, f.made[0].calls, "text p1 286 Generated on 10/15/2026")
	assert.Contains(t, f.made[1].calls, "text p1 286 Generated on 10/16/2026")
	assert.NotContains(t, f.made[1].calls, "text p1 286 Generated on 10/01/2026")
}

func TestExport_CanvasTranslatesByDefault(t *testing.T) {
	loc, _ := NewLocale("en-US")
	f := &canvasFactory{}
	e := New(Options{Locale: loc, NewCanvas: f.New, Now: fixedClock})
	require.NoError(t, e.Export(sampleBundle(), io.Discard))

	c := f.made[0]
	assert.Contains(t, c.texts, "~GitHub Analyzer")
	assert.Contains(t, c.texts, "~foo/bar")
	assert.Contains(t, c.texts, "~Page 1")
}

func TestExport_ConcurrentRealPDF(t *testing.T) {
	loc, err := NewLocale("pt-BR")
	require.NoError(t, err)
	e := New(Options{Locale: loc, Now: fixedClock})
	b := sampleBundle()
	b.Repo.Description = "Descrição com acentuação e símbolos €"

	want := e.Sections(b, NewPDFCanvas(Metadata{}).Translate)
	assert.Equal(t, "Descri\xe7\xe3o com acentua\xe7\xe3o e s\xedmbolos \x80", want[0].Panel.Description)

	const workers = 4
	var wg sync.WaitGroup
	outs := make([]bytes.Buffer, workers)
	errs := make([]error, workers)
	mismatches := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := NewPDFCanvas(Metadata{})
			for n := 0; n < 200; n++ {
				got := e.Sections(b, e.translator(c))
				if got[0].Panel.Description != want[0].Panel.Description || got[1].Body != want[1].Body {
					mismatches[i]++
				}
			}
			errs[i] = e.Export(b, &outs[i])
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Zero(t, mismatches[i])
		assert.True(t, bytes.HasPrefix(outs[i].Bytes(), []byte("%PDF-")))
	}
}

func TestExport_TwiceGivesIndependentDocuments(t *testing.T) {
	f := &canvasFactory{}
	e := newTestExporter(f)
	b := sampleBundle()
	require.NoError(t, e.Export(b, io.Discard))
	require.NoError(t, e.Export(b, io.Discard))
	require.Len(t, f.made, 2)
	assert.Equal(t, f.made[0].calls, f.made[1].calls)
}

func TestExport_LongBodyStaysAboveFooter(t *testing.T) {
	b := sampleBundle()
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		sb.WriteString(fmt.Sprintf("<p>line %d</p>", i))
	}
	b.Reports[generator.KindSummary] = generator.Report{Kind: generator.KindSummary, HTML: sb.String()}

	f := &canvasFactory{}
	require.NoError(t, newTestExporter(f).Export(b, io.Discard))
	c := f.made[0]
	assert.Greater(t, c.PageCount(), 3)
	for _, call := range c.calls {
		var page int
		var y float64
		var rest string
		if n, _ := fmt.Sscanf(call, "text p%d %f line %s", &page, &y, &rest); n == 3 {
			assert.LessOrEqual(t, y, 257.0, call)
		}
	}
}

func TestExport_RealPDF(t *testing.T) {
	loc, err := NewLocale("pt-BR")
	require.NoError(t, err)
	e := New(Options{Locale: loc, Meta: Metadata{Title: "Análise", Author: "tester"}, Now: fixedClock})
	b := sampleBundle()
	b.Repo.Description = "Descrição com acentuação"

	var buf bytes.Buffer
	require.NoError(t, e.Export(b, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "foo_bar_analysis.pdf", FileName(github.RepoInfo{Name: "foo/bar"}))
}

func TestLocale(t *testing.T) {
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		tag    string
		number string
		date   string
	}{
		{"", "1,234,567", "03/04/2026"},
		{"en-US", "1,234,567", "03/04/2026"},
		{"pt-BR", "1.234.567", "04/03/2026"},
		{"de-AT", "1.234.567", "04.03.2026"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			loc, err := NewLocale(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.number, loc.Number(1234567))
			assert.Equal(t, tt.date, loc.Date(day))
		})
	}

	_, err := NewLocale("not a tag!")
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	f := &canvasFactory{}
	var buf bytes.Buffer
	require.NoError(t, newTestExporter(f).RenderHTML(sampleBundle(), &buf))
	out := buf.String()
	assert.Contains(t, out, "<h2>summary</h2><p>Body of summary.</p>")
	assert.Contains(t, out, "1,234 stars")
	assert.Contains(t, out, `<section id="documentation">`)
	assert.Contains(t, out, "Generated on 10/15/2026")
	assert.Empty(t, f.made)

	err := newTestExporter(f).RenderHTML(&Bundle{}, &buf)
	assert.True(t, errors.Is(err, apperr.ErrMissingData))
}
