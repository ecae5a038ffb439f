package calpdf

import "fmt"

// Color is an RGB color with 0–255 components.
type Color struct {
	R, G, B uint8
}

// WeekendFill is the background of Saturday and Sunday cells.
var WeekendFill = Color{R: 255, G: 230, B: 230}

// CellStyle controls how a cell rectangle is drawn.
type CellStyle struct {
	Border bool

	// Fill is nil for an unfilled cell.
	Fill *Color
}

// Renderer is a page-oriented drawing surface. Coordinates are page units
// measured from the top-left corner of the current page.
//
// A Renderer starts without a page; callers invoke NewPage before drawing.
type Renderer interface {
	NewPage() error
	DrawCell(r Rect, style CellStyle) error
	DrawText(at Point, text string, fontSize float64) error
}

// TextMeasurer is implemented by renderers that can report the width of
// text, which lets a [Sheet] center its title.
type TextMeasurer interface {
	TextWidth(text string, fontSize float64) float64
}

// Sheet draws a month onto a [Renderer].
type Sheet struct {
	Month  Month
	Policy PageBreakPolicy
	Locale Locale

	// PageWidth is used to center the title. Zero leaves it at the left margin.
	PageWidth float64

	TitleSize float64
	LabelSize float64
	DaySize   float64

	// WeekendFill overrides the default weekend background.
	WeekendFill *Color
}

// NewSheet returns a Sheet for m with the default A4 geometry and
// Russian labels.
func NewSheet(m Month) Sheet {
	return Sheet{
		Month:     m,
		Policy:    DefaultPolicy(),
		Locale:    Russian,
		PageWidth: A4.Width * 10,
		TitleSize: 28,
		LabelSize: 10,
		DaySize:   14,
	}
}

const (
	titleTop     = 10
	titleHeight  = 20
	labelHeight  = 8
	labelSpacing = 10
	dayInset     = 2
)

// Render lays out the month and draws every page onto r. The layout is
// computed first, so an invalid month or policy draws nothing.
func (s Sheet) Render(r Renderer) error {
	cells, err := Layout(s.Month, s.Policy)
	if err != nil {
		return err
	}

	fill := WeekendFill
	if s.WeekendFill != nil {
		fill = *s.WeekendFill
	}

	page := -1
	for _, c := range cells {
		if c.Page != page {
			page = c.Page
			if err := s.beginPage(r, page); err != nil {
				return err
			}
		}

		style := CellStyle{Border: true}
		if c.Weekend {
			style.Fill = &fill
		}
		if err := r.DrawCell(c.Rect(s.Policy), style); err != nil {
			return fmt.Errorf("calpdf: drawing day %d: %w", c.Day, err)
		}
		at := Point{X: c.Origin.X + dayInset, Y: c.Origin.Y + dayInset}
		if err := r.DrawText(at, fmt.Sprint(c.Day), s.DaySize); err != nil {
			return fmt.Errorf("calpdf: drawing day %d: %w", c.Day, err)
		}
	}
	return nil
}

// beginPage opens a page and draws its title and weekday labels.
func (s Sheet) beginPage(r Renderer, page int) error {
	if err := r.NewPage(); err != nil {
		return fmt.Errorf("calpdf: starting page %d: %w", page+1, err)
	}

	title := s.Locale.Title(s.Month)
	if page > 0 {
		title = s.Locale.ContinuedTitle(s.Month)
	}
	at := Point{X: s.Policy.MarginLeft, Y: s.Policy.MarginTop + titleTop}
	if m, ok := r.(TextMeasurer); ok && s.PageWidth > 0 {
		at.X = (s.PageWidth - m.TextWidth(title, s.TitleSize)) / 2
	}
	if err := r.DrawText(at, title, s.TitleSize); err != nil {
		return fmt.Errorf("calpdf: drawing title: %w", err)
	}

	y := s.Policy.rowY(0) - labelSpacing
	if top := at.Y + titleHeight; y < top {
		y = top
	}
	for col, name := range s.Locale.Weekdays {
		label := Point{X: s.Policy.columnX(col), Y: y}
		if m, ok := r.(TextMeasurer); ok {
			label.X += (s.Policy.columnWidth() - m.TextWidth(name, s.LabelSize)) / 2
		}
		if err := r.DrawText(label, name, s.LabelSize); err != nil {
			return fmt.Errorf("calpdf: drawing weekday labels: %w", err)
		}
	}
	return nil
}
