package calpdf

import (
	"fmt"
	"math"
)

// Point is a position in page units, measured from the top-left corner.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in page units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// CellPlacement is the computed position of one day in the grid.
type CellPlacement struct {
	Day     int
	Column  int
	Row     int
	Page    int
	Weekend bool
	Origin  Point
}

// Rect returns the cell rectangle for the placement under policy p.
func (c CellPlacement) Rect(p PageBreakPolicy) Rect {
	return Rect{X: c.Origin.X, Y: c.Origin.Y, Width: p.columnWidth(), Height: p.RowHeight}
}

// PageBreakPolicy controls cell geometry and when the grid continues on a
// new page. All values are in page units.
type PageBreakPolicy struct {
	// RowHeight is the vertical size of a cell.
	RowHeight float64

	// MaxContentY is the bottom boundary; a row whose bottom edge would
	// pass it starts a new page.
	MaxContentY float64

	// HeaderHeight is the space reserved above the first row of every page
	// for the title and weekday labels.
	HeaderHeight float64

	// ColumnWidth is the horizontal size of a cell. Zero means
	// DefaultColumnWidth.
	ColumnWidth float64

	// MarginLeft is the x coordinate of column 0.
	MarginLeft float64

	// MarginTop is added to HeaderHeight to position row 0.
	MarginTop float64
}

// DefaultColumnWidth is the cell width used when a policy leaves
// ColumnWidth unset.
const DefaultColumnWidth = 30

// DefaultPolicy returns the A4 millimetre geometry: 30x50 cells, a 10 mm
// left margin, a 50 mm header and a 270 mm content limit.
func DefaultPolicy() PageBreakPolicy {
	return PageBreakPolicy{
		RowHeight:    50,
		MaxContentY:  270,
		HeaderHeight: 50,
		ColumnWidth:  DefaultColumnWidth,
		MarginLeft:   10,
	}
}

// GridPolicy returns a unit policy that never breaks pages. Placements
// produced with it carry only the week row and weekday column.
func GridPolicy() PageBreakPolicy {
	return PageBreakPolicy{
		RowHeight:   1,
		MaxContentY: math.Inf(1),
		ColumnWidth: 1,
	}
}

// Validate reports whether p can be used by [Layout]. A policy whose first
// row already crosses MaxContentY is valid; such a layout holds one cell
// per page.
func (p PageBreakPolicy) Validate() error {
	switch {
	case !(p.RowHeight > 0):
		return fmt.Errorf("%w: row height %v must be positive", ErrInvalidPolicy, p.RowHeight)
	case !(p.MaxContentY > p.HeaderHeight):
		return fmt.Errorf("%w: max content y %v must exceed header height %v",
			ErrInvalidPolicy, p.MaxContentY, p.HeaderHeight)
	case !(p.ColumnWidth >= 0):
		return fmt.Errorf("%w: column width %v must not be negative", ErrInvalidPolicy, p.ColumnWidth)
	}
	return nil
}

// RowsPerPage returns how many full rows fit on one page, or zero when the
// first row already crosses MaxContentY.
func (p PageBreakPolicy) RowsPerPage() int {
	if math.IsInf(p.MaxContentY, 1) {
		return math.MaxInt
	}
	n := math.Floor((p.MaxContentY - p.rowY(0)) / p.RowHeight)
	switch {
	case !(n > 0):
		return 0
	case n >= math.MaxInt:
		return math.MaxInt
	}
	return int(n)
}

func (p PageBreakPolicy) columnWidth() float64 {
	if p.ColumnWidth == 0 {
		return DefaultColumnWidth
	}
	return p.ColumnWidth
}

func (p PageBreakPolicy) rowY(row int) float64 {
	return p.MarginTop + p.HeaderHeight + float64(row)*p.RowHeight
}

func (p PageBreakPolicy) columnX(col int) float64 {
	return p.MarginLeft + float64(col)*p.columnWidth()
}

// Layout places every day of m on a 7-column grid, starting a new page
// whenever the next row would cross p.MaxContentY.
//
// Placements are returned in day order. A day keeps its weekday column
// after a page break, so continuation pages line up with their weekday
// labels. A page never starts empty: when even the first row crosses
// MaxContentY, each page holds a single day in its weekday column.
// Layout has no side effects and is safe for concurrent use.
func Layout(m Month, p PageBreakPolicy) ([]CellPlacement, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := make([]CellPlacement, 0, m.Days)
	col, row, page := m.FirstWeekday, 0, 0
	onPage := 0
	for day := 1; day <= m.Days; day++ {
		y := p.rowY(row)
		if y+p.RowHeight > p.MaxContentY && onPage > 0 {
			page++
			row = 0
			onPage = 0
			y = p.rowY(row)
		}
		out = append(out, CellPlacement{
			Day:     day,
			Column:  col,
			Row:     row,
			Page:    page,
			Weekend: col >= 5,
			Origin:  Point{X: p.columnX(col), Y: y},
		})
		onPage++
		col++
		if col >= DaysPerWeek {
			col = 0
			row++
		}
	}
	return out, nil
}

// Pages returns the number of pages spanned by placements.
func Pages(placements []CellPlacement) int {
	if len(placements) == 0 {
		return 0
	}
	return placements[len(placements)-1].Page + 1
}

// Weeks returns the number of grid rows used by placements across all pages.
func Weeks(placements []CellPlacement) int {
	n := 0
	for i, c := range placements {
		if i == 0 || c.Page != placements[i-1].Page || c.Row != placements[i-1].Row {
			n++
		}
	}
	return n
}
