// Package preview draws a calendar layout as styled terminal text.
package preview

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	calpdf "github.com/porticus-lab/go-calendar-pdf"
)

const cellWidth = 4

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle   = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right).Foreground(lipgloss.Color("#888888"))
	dayStyle     = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right).Foreground(lipgloss.Color("#CCCCCC"))
	weekendStyle = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right).Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	pageStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Render lays out m under p and returns one bordered box per page, the
// same pages a PDF rendering would produce.
func Render(m calpdf.Month, loc calpdf.Locale, p calpdf.PageBreakPolicy) (string, error) {
	cells, err := calpdf.Layout(m, p)
	if err != nil {
		return "", err
	}

	pages := make([][]calpdf.CellPlacement, calpdf.Pages(cells))
	for _, c := range cells {
		pages[c.Page] = append(pages[c.Page], c)
	}

	boxes := make([]string, 0, len(pages))
	for i, pc := range pages {
		title := loc.Title(m)
		if i > 0 {
			title = loc.ContinuedTitle(m)
		}
		boxes = append(boxes, renderPage(title, loc, pc))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...), nil
}

func renderPage(title string, loc calpdf.Locale, cells []calpdf.CellPlacement) string {
	labels := make([]string, 0, calpdf.DaysPerWeek)
	for _, name := range loc.Weekdays {
		labels = append(labels, labelStyle.Render(name))
	}

	rows := cells[len(cells)-1].Row + 1
	grid := make([][calpdf.DaysPerWeek]string, rows)
	weekend := make([][calpdf.DaysPerWeek]bool, rows)
	for _, c := range cells {
		grid[c.Row][c.Column] = strconv.Itoa(c.Day)
		weekend[c.Row][c.Column] = c.Weekend
	}

	lines := []string{
		titleStyle.Render(title),
		lipgloss.JoinHorizontal(lipgloss.Top, labels...),
	}
	for r := range grid {
		row := make([]string, 0, calpdf.DaysPerWeek)
		for col, text := range grid[r] {
			style := dayStyle
			if weekend[r][col] {
				style = weekendStyle
			}
			row = append(row, style.Render(text))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return pageStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
