package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordWrap is a monospace measurer: every rune is charWidth wide.
type wordWrap struct{ charWidth float64 }

func (w wordWrap) SplitText(text string, width float64) []string {
	max := int(width / w.charWidth)
	var lines []string
	var cur string
	for _, word := range strings.Fields(text) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= max:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func ops(instrs []Instruction, op Op) []Instruction {
	var out []Instruction
	for _, in := range instrs {
		if in.Op == op {
			out = append(out, in)
		}
	}
	return out
}

func bodyOfLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return strings.Join(lines, "\n")
}

func TestCompute_ShortSection(t *testing.T) {
	instrs, err := Compute([]Section{{Title: "Summary", Body: "hello world"}}, A4(), wordWrap{2}, "2026-10-15")
	require.NoError(t, err)

	require.Len(t, instrs, 4)
	assert.Equal(t, Instruction{Op: OpHeader, Page: 1, Y: 55}, instrs[0])
	assert.Equal(t, Instruction{Op: OpSectionTitle, Page: 1, Y: 55, Text: "Summary"}, instrs[1])
	assert.Equal(t, Instruction{Op: OpLine, Page: 1, Y: 70, Text: "hello world"}, instrs[2])
	assert.Equal(t, Instruction{Op: OpFooter, Page: 1, Y: 277, Text: "2026-10-15"}, instrs[3])
}

func TestCompute_LongBodyPaginates(t *testing.T) {
	g := A4()
	instrs, err := Compute([]Section{{Title: "Docs", Body: bodyOfLines(90)}}, g, wordWrap{2}, "d")
	require.NoError(t, err)

	assert.Len(t, ops(instrs, OpNewPage), 3)
	assert.Equal(t, 4, PageCount(instrs))

	perPage := map[int]int{}
	for _, in := range ops(instrs, OpLine) {
		assert.LessOrEqual(t, in.Y, g.Height-g.FooterReserve)
		perPage[in.Page]++
	}
	assert.Equal(t, map[int]int{1: 27, 2: 29, 3: 29, 4: 5}, perPage)
}

func TestCompute_NewPageRedrawsHeader(t *testing.T) {
	instrs, err := Compute([]Section{{Title: "Docs", Body: bodyOfLines(40)}}, A4(), wordWrap{2}, "d")
	require.NoError(t, err)

	for i, in := range instrs {
		if in.Op != OpNewPage {
			continue
		}
		require.Less(t, i+1, len(instrs))
		assert.Equal(t, OpHeader, instrs[i+1].Op)
		assert.Equal(t, in.Page, instrs[i+1].Page)
	}
	assert.Len(t, ops(instrs, OpHeader), 2)
}

func TestCompute_WrapsToTextWidth(t *testing.T) {
	// 170mm text width at 10mm per rune fits 17 runes per line.
	instrs, err := Compute([]Section{{Title: "T", Body: "aaaa bbbb cccc dddd eeee"}}, A4(), wordWrap{10}, "d")
	require.NoError(t, err)

	lines := ops(instrs, OpLine)
	require.Len(t, lines, 2)
	assert.Equal(t, "aaaa bbbb cccc", lines[0].Text)
	assert.Equal(t, "dddd eeee", lines[1].Text)
	assert.Equal(t, 77.0, lines[1].Y)
}

func TestCompute_BlankLinesAdvanceWithoutDrawing(t *testing.T) {
	instrs, err := Compute([]Section{{Title: "T", Body: "a\n\nb"}}, A4(), wordWrap{2}, "d")
	require.NoError(t, err)

	lines := ops(instrs, OpLine)
	require.Len(t, lines, 2)
	assert.Equal(t, 70.0, lines[0].Y)
	assert.Equal(t, 84.0, lines[1].Y)
}

func TestCompute_BreakPolicies(t *testing.T) {
	t.Run("always starts a new page", func(t *testing.T) {
		instrs, err := Compute([]Section{
			{Title: "Structure", Body: "x"},
			{Title: "Documentation", Body: "y", Break: BreakAlways},
		}, A4(), wordWrap{2}, "d")
		require.NoError(t, err)

		titles := ops(instrs, OpSectionTitle)
		require.Len(t, titles, 2)
		assert.Equal(t, 2, titles[1].Page)
		assert.Equal(t, 55.0, titles[1].Y)
	})

	t.Run("if-low breaks only near the bottom", func(t *testing.T) {
		low, err := Compute([]Section{
			{Title: "Summary", Body: bodyOfLines(20)},
			{Title: "Structure", Body: "x", Break: BreakIfLow},
		}, A4(), wordWrap{2}, "d")
		require.NoError(t, err)
		assert.Equal(t, 2, ops(low, OpSectionTitle)[1].Page)

		roomy, err := Compute([]Section{
			{Title: "Summary", Body: bodyOfLines(10)},
			{Title: "Structure", Body: "x", Break: BreakIfLow},
		}, A4(), wordWrap{2}, "d")
		require.NoError(t, err)
		second := ops(roomy, OpSectionTitle)[1]
		assert.Equal(t, 1, second.Page)
		assert.Equal(t, 155.0, second.Y)
	})
}

func TestCompute_PanelPushesBody(t *testing.T) {
	p := &Panel{Name: "foo/bar", Description: "demo", Stats: []string{"1 star"}}
	instrs, err := Compute([]Section{{Title: "Repository", Panel: p, Body: "after"}}, A4(), wordWrap{2}, "d")
	require.NoError(t, err)

	panels := ops(instrs, OpPanel)
	require.Len(t, panels, 1)
	assert.Equal(t, 70.0, panels[0].Y)
	assert.Same(t, p, panels[0].Panel)
	assert.Equal(t, 125.0, ops(instrs, OpLine)[0].Y)
}

func TestCompute_FooterOnEveryPage(t *testing.T) {
	instrs, err := Compute([]Section{
		{Title: "A", Body: "x"},
		{Title: "B", Body: "y", Break: BreakAlways},
		{Title: "C", Body: "z", Break: BreakAlways},
	}, A4(), wordWrap{2}, "15/10/2026")
	require.NoError(t, err)

	footers := ops(instrs, OpFooter)
	require.Len(t, footers, 3)
	for i, f := range footers {
		assert.Equal(t, i+1, f.Page)
		assert.Equal(t, "15/10/2026", f.Text)
	}
	// footers come last
	assert.Equal(t, OpFooter, instrs[len(instrs)-1].Op)
	assert.Equal(t, OpFooter, instrs[len(instrs)-3].Op)
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(nil, A4(), nil, "d")
	assert.Error(t, err)

	bad := A4()
	bad.Margin = 200
	_, err = Compute(nil, bad, wordWrap{2}, "d")
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
}

func TestGeometry_Validate(t *testing.T) {
	require.NoError(t, A4().Validate())

	tests := []struct {
		name   string
		mutate func(*Geometry)
	}{
		{"zero line height", func(g *Geometry) { g.LineHeight = 0 }},
		{"negative header", func(g *Geometry) { g.HeaderHeight = -1 }},
		{"reserve below footer band", func(g *Geometry) { g.FooterReserve = 10 }},
		{"no content area", func(g *Geometry) { g.HeaderHeight = 280 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := A4()
			tt.mutate(&g)
			assert.True(t, errors.Is(g.Validate(), ErrInvalidGeometry))
		})
	}
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "line", OpLine.String())
	assert.Equal(t, "unknown", Op(99).String())
}
