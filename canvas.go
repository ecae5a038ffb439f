package calpdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

const canvasFontFamily = "calendar"

// SystemFonts lists common locations of Unicode TrueType fonts, tried in
// order by [FindFont].
var SystemFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/liberation-sans/LiberationSans-Regular.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	`C:\Windows\Fonts\arial.ttf`,
}

// FindFont returns the first of paths that is a regular file, or "".
func FindFont(paths ...string) string {
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// canvasConfig holds internal configuration for a Canvas.
type canvasConfig struct {
	page      PageConfig
	fontPath  string
	fontBytes []byte
	created   time.Time
	title     string
	compress  bool
}

// CanvasOption configures a [Canvas].
type CanvasOption func(*canvasConfig)

// WithCanvasPage sets the paper size and orientation. Margins and scale
// are ignored; cell geometry comes from the [PageBreakPolicy].
func WithCanvasPage(pg PageConfig) CanvasOption {
	return func(c *canvasConfig) {
		c.page = pg
	}
}

// WithFont loads a TrueType font from path. A Unicode font is required for
// non-Latin labels such as the Russian locale; without one the core
// Helvetica font is used.
func WithFont(path string) CanvasOption {
	return func(c *canvasConfig) {
		c.fontPath = path
	}
}

// WithFontBytes loads a TrueType font from memory.
func WithFontBytes(ttf []byte) CanvasOption {
	return func(c *canvasConfig) {
		c.fontBytes = ttf
	}
}

// WithCreationDate fixes the document creation date, which makes output
// byte-for-byte reproducible.
func WithCreationDate(t time.Time) CanvasOption {
	return func(c *canvasConfig) {
		c.created = t
	}
}

// WithDocumentTitle sets the PDF title metadata.
func WithDocumentTitle(title string) CanvasOption {
	return func(c *canvasConfig) {
		c.title = title
	}
}

// WithCompression toggles stream compression. It is on by default.
func WithCompression(on bool) CanvasOption {
	return func(c *canvasConfig) {
		c.compress = on
	}
}

// Canvas is a [Renderer] that draws directly onto PDF pages in
// millimetres. A Canvas is not safe for concurrent use.
type Canvas struct {
	pdf     *fpdf.Fpdf
	width   float64
	height  float64
	unicode bool
	family  string
	out     []byte

	// encode converts UTF-8 text for the core font, which expects cp1252.
	encode func(string) string
}

// NewCanvas creates an empty PDF document without pages.
func NewCanvas(opts ...CanvasOption) (*Canvas, error) {
	cfg := canvasConfig{page: DefaultPageConfig(), compress: true}
	for _, o := range opts {
		o(&cfg)
	}

	w, h := cfg.page.dimensionsMM()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(cfg.compress)
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
		pdf.SetModificationDate(cfg.created)
		pdf.SetCatalogSort(true)
	}
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}

	c := &Canvas{pdf: pdf, width: w, height: h, family: "Helvetica", encode: func(s string) string { return s }}
	switch {
	case len(cfg.fontBytes) > 0:
		pdf.AddUTF8FontFromBytes(canvasFontFamily, "", cfg.fontBytes)
		c.unicode, c.family = true, canvasFontFamily
	case cfg.fontPath != "":
		pdf.AddUTF8Font(canvasFontFamily, "", cfg.fontPath)
		c.unicode, c.family = true, canvasFontFamily
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("calpdf: loading font: %w", err)
	}
	if !c.unicode {
		c.encode = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.SetFont(c.family, "", 10)
	return c, nil
}

// Width returns the page width in millimetres.
func (c *Canvas) Width() float64 { return c.width }

// Height returns the page height in millimetres.
func (c *Canvas) Height() float64 { return c.height }

// PageCount returns the number of pages started so far.
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

// NewPage implements [Renderer].
func (c *Canvas) NewPage() error {
	if c.out != nil {
		return fmt.Errorf("calpdf: canvas already written")
	}
	c.pdf.AddPage()
	return c.pdf.Error()
}

// DrawCell implements [Renderer].
func (c *Canvas) DrawCell(r Rect, style CellStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	op := ""
	if style.Fill != nil {
		c.pdf.SetFillColor(int(style.Fill.R), int(style.Fill.G), int(style.Fill.B))
		op = "F"
	}
	if style.Border {
		op += "D"
	}
	if op == "" {
		return nil
	}
	c.pdf.Rect(r.X, r.Y, r.Width, r.Height, op)
	return c.pdf.Error()
}

// DrawText implements [Renderer]. The point is the top-left corner of the
// text line.
func (c *Canvas) DrawText(at Point, text string, fontSize float64) error {
	if err := c.ready(); err != nil {
		return err
	}
	if !c.unicode {
		for _, r := range text {
			if r > 0xFF {
				return fmt.Errorf("calpdf: text %q needs a Unicode font, see WithFont", text)
			}
		}
	}
	c.pdf.SetFontSize(fontSize)
	_, lineHeight := c.pdf.GetFontSize()
	text = c.encode(text)
	c.pdf.SetXY(at.X, at.Y)
	c.pdf.CellFormat(c.pdf.GetStringWidth(text), lineHeight, text, "", 0, "L", false, 0, "")
	return c.pdf.Error()
}

// TextWidth implements [TextMeasurer].
func (c *Canvas) TextWidth(text string, fontSize float64) float64 {
	c.pdf.SetFontSize(fontSize)
	return c.pdf.GetStringWidth(c.encode(text))
}

// WriteTo finishes the document and writes it to w. The canvas accepts no
// drawing afterwards; further WriteTo calls repeat the same bytes.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	if err := c.finish(); err != nil {
		return 0, err
	}
	n, err := w.Write(c.out)
	return int64(n), err
}

// Result finishes the document and returns it as a [Result].
func (c *Canvas) Result() (*Result, error) {
	if err := c.finish(); err != nil {
		return nil, err
	}
	return &Result{data: c.out}, nil
}

func (c *Canvas) finish() error {
	if c.out != nil {
		return nil
	}
	if c.pdf.PageCount() == 0 {
		return fmt.Errorf("calpdf: canvas has no pages")
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return fmt.Errorf("calpdf: writing canvas: %w", err)
	}
	c.out = buf.Bytes()
	return nil
}

func (c *Canvas) ready() error {
	if c.out != nil {
		return fmt.Errorf("calpdf: canvas already written")
	}
	if c.pdf.PageCount() == 0 {
		return fmt.Errorf("calpdf: no page started")
	}
	return nil
}

// RenderCanvas draws s onto a new [Canvas] and returns the finished PDF.
// The sheet title is centered on the canvas page width.
func RenderCanvas(s Sheet, opts ...CanvasOption) (*Result, error) {
	opts = append([]CanvasOption{WithDocumentTitle(s.Locale.Title(s.Month))}, opts...)
	c, err := NewCanvas(opts...)
	if err != nil {
		return nil, err
	}
	s.PageWidth = c.Width()
	if err := s.Render(c); err != nil {
		return nil, err
	}
	return c.Result()
}
