package calpdf

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// MarkupOptions controls the printable HTML document produced by
// [RenderMarkup]. The zero value uses Russian labels on A4.
type MarkupOptions struct {
	// Locale supplies the title, weekday names and notes placeholder.
	// A zero Locale means [Russian].
	Locale Locale

	// Page sets the @page size and margins. Nil means [DefaultPageConfig].
	Page *PageConfig

	// CellHeight is the minimum height of a day cell in pixels. Defaults to 100.
	CellHeight int

	// HideNotes omits the notes area below each day.
	HideNotes bool
}

type markupDay struct {
	Number  int
	Name    string
	Weekend bool
}

type markupWeek struct {
	Lead  int
	Days  []markupDay
	Trail int
}

type markupData struct {
	Lang       string
	Title      string
	Weekdays   [DaysPerWeek]string
	Weeks      []markupWeek
	Notes      string
	HideNotes  bool
	CellHeight int
	PageSize   template.CSS
	Margin     template.CSS
}

var markupTemplate = template.Must(template.New("calendar").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  @page { size: {{.PageSize}}; margin: {{.Margin}}; }
  body { font-family: Arial, sans-serif; margin: 0; background: white; }
  h1 { text-align: center; margin: 0 0 24px; }
  .calendar { width: 100%; border-collapse: collapse; table-layout: fixed; }
  .calendar td { border: 2px solid #333; height: {{.CellHeight}}px; width: 14.28%; padding: 8px; vertical-align: top; }
  .calendar tr { page-break-inside: avoid; }
  .calendar .weekend { background-color: #FFE5E5; }
  .day-header { background-color: #f0f0f0; font-weight: bold; text-align: center; }
  .day-number { font-weight: bold; font-size: 16px; margin-bottom: 5px; }
  .day-name { font-size: 10px; color: #666; margin-bottom: 5px; }
  .notes { border-top: 1px dashed #ccc; margin-top: 5px; padding-top: 5px; font-size: 11px; color: #999; min-height: 50px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table class="calendar">
<thead>
<tr>{{range .Weekdays}}<td class="day-header">{{.}}</td>{{end}}</tr>
</thead>
<tbody>
{{- range .Weeks}}
<tr>
{{- if .Lead}}<td colspan="{{.Lead}}"></td>{{end}}
{{- range .Days}}
<td{{if .Weekend}} class="weekend"{{end}}><div class="day-number">{{.Number}}</div><div class="day-name">{{.Name}}</div>
{{- if not $.HideNotes}}<div class="notes">{{$.Notes}}</div>{{end}}</td>
{{- end}}
{{- if .Trail}}<td colspan="{{.Trail}}"></td>{{end}}
</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// RenderMarkup writes a printable HTML calendar for m to w: one table row
// per week, weekend columns shaded, a notes area in every cell.
func RenderMarkup(w io.Writer, m Month, opts MarkupOptions) error {
	data, err := markupFor(m, opts)
	if err != nil {
		return err
	}
	if err := markupTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("calpdf: rendering markup: %w", err)
	}
	return nil
}

// Markup returns the printable HTML calendar for m as a string.
func Markup(m Month, opts MarkupOptions) (string, error) {
	var buf bytes.Buffer
	if err := RenderMarkup(&buf, m, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func markupFor(m Month, opts MarkupOptions) (*markupData, error) {
	cells, err := Layout(m, GridPolicy())
	if err != nil {
		return nil, err
	}

	loc := opts.Locale
	if loc.Months[0] == "" {
		loc = Russian
	}
	height := opts.CellHeight
	if height <= 0 {
		height = 100
	}
	pg := opts.Page.resolved()
	mg := pg.Margin

	data := &markupData{
		Lang:       loc.Tag.String(),
		Title:      loc.Title(m),
		Weekdays:   loc.Weekdays,
		Notes:      loc.Notes,
		HideNotes:  opts.HideNotes,
		CellHeight: height,
		PageSize:   template.CSS(pg.cssSize()),
		Margin:     template.CSS(fmt.Sprintf("%.1fcm %.1fcm %.1fcm %.1fcm", mg.Top, mg.Right, mg.Bottom, mg.Left)),
	}

	for _, c := range cells {
		if c.Row >= len(data.Weeks) {
			data.Weeks = append(data.Weeks, markupWeek{Lead: c.Column})
		}
		week := &data.Weeks[c.Row]
		week.Days = append(week.Days, markupDay{
			Number:  c.Day,
			Name:    loc.Weekdays[c.Column],
			Weekend: c.Weekend,
		})
	}
	if n := len(data.Weeks); n > 0 {
		last := &data.Weeks[n-1]
		last.Trail = DaysPerWeek - last.Lead - len(last.Days)
	}
	return data, nil
}
