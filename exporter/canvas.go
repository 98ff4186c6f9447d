package exporter

import (
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Canvas is the drawing sink the exporter replays layout instructions on.
// Coordinates are millimetres from the top-left corner of the page.
// Text passed to Text and SplitText must first go through Translate.
type Canvas interface {
	Translate(s string) string
	AddPage()
	SetPage(n int)
	PageCount() int
	SetFillColor(r, g, b int)
	SetTextColor(r, g, b int)
	SetFont(style string, size float64)
	Rect(x, y, w, h float64)
	Text(x, y float64, s string)
	SplitText(text string, width float64) []string
	Output(w io.Writer) error
}

// Metadata is written into the PDF information dictionary.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Created  time.Time
}

// PDFCanvas draws on an A4 portrait gofpdf document.
type PDFCanvas struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

const fontFamily = "Helvetica"

func NewPDFCanvas(meta Metadata) *PDFCanvas {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetKeywords(meta.Keywords, true)
	pdf.SetCreator("repo-analyzer", true)
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}
	pdf.SetFont(fontFamily, "", 10)
	// the translator reuses an internal buffer, so it belongs to this document only
	return &PDFCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Translate maps UTF-8 text onto the core fonts' cp1252 encoding.
func (c *PDFCanvas) Translate(s string) string { return c.tr(s) }

func (c *PDFCanvas) AddPage()       { c.pdf.AddPage() }
func (c *PDFCanvas) SetPage(n int)  { c.pdf.SetPage(n) }
func (c *PDFCanvas) PageCount() int { return c.pdf.PageCount() }

func (c *PDFCanvas) SetFillColor(r, g, b int) { c.pdf.SetFillColor(r, g, b) }
func (c *PDFCanvas) SetTextColor(r, g, b int) { c.pdf.SetTextColor(r, g, b) }

func (c *PDFCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *PDFCanvas) Rect(x, y, w, h float64) { c.pdf.Rect(x, y, w, h, "F") }

func (c *PDFCanvas) Text(x, y float64, s string) { c.pdf.Text(x, y, s) }

// SplitText wraps single-byte encoded text with the current font. The
// font width table is indexed by rune, so bytes go in and out as runes
// below 256.
func (c *PDFCanvas) SplitText(text string, width float64) []string {
	widened := make([]rune, len(text))
	for i := 0; i < len(text); i++ {
		widened[i] = rune(text[i])
	}
	lines := c.pdf.SplitText(string(widened), width)
	for i, line := range lines {
		narrowed := make([]byte, 0, len(line))
		for _, r := range line {
			narrowed = append(narrowed, byte(r))
		}
		lines[i] = string(narrowed)
	}
	return lines
}

func (c *PDFCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
