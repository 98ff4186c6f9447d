package layout

import (
	"errors"
	"strings"
)

// Op is the kind of a draw instruction.
type Op int

const (
	OpHeader Op = iota
	OpNewPage
	OpSectionTitle
	OpPanel
	OpLine
	OpFooter
)

func (o Op) String() string {
	switch o {
	case OpHeader:
		return "header"
	case OpNewPage:
		return "new-page"
	case OpSectionTitle:
		return "section-title"
	case OpPanel:
		return "panel"
	case OpLine:
		return "line"
	case OpFooter:
		return "footer"
	}
	return "unknown"
}

// BreakPolicy decides whether a section starts on a fresh page.
type BreakPolicy int

const (
	BreakNone   BreakPolicy = iota
	BreakIfLow              // new page when less than KeepReserve remains
	BreakAlways             // unconditional new page
)

// Panel is the boxed repository card drawn under a section title.
type Panel struct {
	Name        string
	Description string
	Stats       []string
}

// Section is one titled block of body text.
type Section struct {
	Title string
	Body  string
	Break BreakPolicy
	Panel *Panel
}

// Instruction is one draw call for the document backend.
type Instruction struct {
	Op    Op
	Page  int
	Y     float64
	Text  string
	Panel *Panel
}

// Measurer wraps text to a width. Each returned line must fit.
type Measurer interface {
	SplitText(text string, width float64) []string
}

// Cursor tracks the current page and vertical offset of one layout run.
type Cursor struct {
	Page int
	Y    float64
}

var errNilMeasurer = errors.New("layout: measurer is required")

type engine struct {
	g   Geometry
	m   Measurer
	cur Cursor
	out []Instruction
}

// Compute lays out sections page by page and stamps each page's footer
// with date. No line is placed below g.Bottom().
func Compute(sections []Section, g Geometry, m Measurer, date string) ([]Instruction, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errNilMeasurer
	}

	e := &engine{g: g, m: m, cur: Cursor{Page: 1, Y: g.ContentTop()}}
	e.emit(OpHeader, "")
	for _, s := range sections {
		e.section(s)
	}
	for p := 1; p <= e.cur.Page; p++ {
		e.out = append(e.out, Instruction{Op: OpFooter, Page: p, Y: g.Height - g.FooterHeight, Text: date})
	}
	return e.out, nil
}

func (e *engine) emit(op Op, text string) {
	e.out = append(e.out, Instruction{Op: op, Page: e.cur.Page, Y: e.cur.Y, Text: text})
}

func (e *engine) newPage() {
	e.cur.Page++
	e.cur.Y = e.g.ContentTop()
	e.emit(OpNewPage, "")
	e.emit(OpHeader, "")
}

func (e *engine) section(s Section) {
	switch s.Break {
	case BreakAlways:
		e.newPage()
	case BreakIfLow:
		if e.cur.Y > e.g.Height-e.g.KeepReserve {
			e.newPage()
		}
	}
	if e.cur.Y > e.g.Bottom() {
		e.newPage()
	}

	e.emit(OpSectionTitle, s.Title)
	e.cur.Y += e.g.TitleHeight

	if s.Panel != nil {
		if e.cur.Y+e.g.PanelHeight > e.g.Bottom() {
			e.newPage()
		}
		e.out = append(e.out, Instruction{Op: OpPanel, Page: e.cur.Page, Y: e.cur.Y, Panel: s.Panel})
		e.cur.Y += e.g.PanelAdvance
	}

	if s.Body != "" {
		for _, line := range e.wrap(s.Body) {
			if e.cur.Y > e.g.Bottom() {
				e.newPage()
			}
			if line != "" {
				e.emit(OpLine, line)
			}
			e.cur.Y += e.g.LineHeight
		}
		e.cur.Y += e.g.BodyTail
	}
	e.cur.Y += e.g.SectionGap
}

// wrap keeps explicit line breaks and lets the measurer wrap each one.
func (e *engine) wrap(body string) []string {
	var lines []string
	width := e.g.TextWidth()
	for _, para := range strings.Split(body, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}
		split := e.m.SplitText(para, width)
		if len(split) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, split...)
	}
	return lines
}

// PageCount returns the number of pages used by a set of instructions.
func PageCount(instrs []Instruction) int {
	n := 0
	for _, in := range instrs {
		if in.Page > n {
			n = in.Page
		}
	}
	return n
}
