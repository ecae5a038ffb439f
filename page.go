package calpdf

import (
	"fmt"
	"strings"
)

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// Standard paper sizes.
var (
	A3     = PageSize{Width: 29.7, Height: 42.0}
	A4     = PageSize{Width: 21.0, Height: 29.7}
	A5     = PageSize{Width: 14.8, Height: 21.0}
	Letter = PageSize{Width: 21.59, Height: 27.94}
	Legal  = PageSize{Width: 21.59, Height: 35.56}
)

var pageSizes = map[string]PageSize{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// ParsePageSize returns the standard size called name, ignoring case.
func ParsePageSize(name string) (PageSize, error) {
	s, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PageSize{}, fmt.Errorf("calpdf: unknown page size %q", name)
	}
	return s, nil
}

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

// ParseOrientation accepts "portrait" or "landscape".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait", "p":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	}
	return Portrait, fmt.Errorf("calpdf: unknown orientation %q", s)
}

// Margin represents page margins in centimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(cm float64) Margin {
	return Margin{Top: cm, Right: cm, Bottom: cm, Left: cm}
}

// PageConfig controls the PDF output parameters.
//
// A nil PageConfig or zero-value fields use A4 paper, portrait orientation,
// 1.5 cm margins and scale 1.0, with background graphics enabled so weekend
// shading prints.
type PageConfig struct {
	Size        PageSize
	Orientation Orientation

	// Margin specifies page margins in centimeters.
	Margin Margin

	// Scale of the webpage rendering, between 0.1 and 2.0.
	Scale float64

	// PrintBackground enables printing of background colors.
	PrintBackground bool

	// DisplayHeaderFooter enables the header and footer templates, which use
	// Chrome's print template classes (date, title, pageNumber, totalPages).
	DisplayHeaderFooter bool
	HeaderTemplate      string
	FooterTemplate      string

	// PreferCSSPageSize gives precedence to the @page size declared in the
	// markup over Size.
	PreferCSSPageSize bool
}

// DefaultPageConfig returns the calendar page defaults.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:            A4,
		Orientation:     Portrait,
		Margin:          UniformMargin(1.5),
		Scale:           1.0,
		PrintBackground: true,
	}
}

// resolved returns a PageConfig with all zero values replaced by defaults.
func (p *PageConfig) resolved() PageConfig {
	d := DefaultPageConfig()
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Scale <= 0 {
		r.Scale = d.Scale
	}
	if r.Margin == (Margin{}) {
		r.Margin = d.Margin
	}
	return r
}

// cmToInches converts centimeters to inches.
func cmToInches(cm float64) float64 {
	return cm / 2.54
}

// paperDimensions returns the paper width and height in inches,
// accounting for orientation.
func (p *PageConfig) paperDimensions() (width, height float64) {
	w, h := p.dimensionsMM()
	return cmToInches(w / 10), cmToInches(h / 10)
}

// dimensionsMM returns the oriented paper size in millimetres.
func (p *PageConfig) dimensionsMM() (width, height float64) {
	r := p.resolved()
	w, h := r.Size.Width*10, r.Size.Height*10
	if r.Orientation == Landscape {
		return h, w
	}
	return w, h
}

// marginInches returns margins converted to inches.
func (p *PageConfig) marginInches() (top, right, bottom, left float64) {
	r := p.resolved()
	return cmToInches(r.Margin.Top),
		cmToInches(r.Margin.Right),
		cmToInches(r.Margin.Bottom),
		cmToInches(r.Margin.Left)
}

// cssSize returns the @page size value for the markup.
func (p *PageConfig) cssSize() string {
	w, h := p.dimensionsMM()
	return fmt.Sprintf("%.1fmm %.1fmm", w, h)
}
