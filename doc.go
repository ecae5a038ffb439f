// Package calpdf lays out printable monthly calendars and turns them into PDF.
//
// # Layout
//
// [Layout] places every day of a [Month] on a Monday-first, 7-column grid
// and decides where the grid continues on a new page:
//
//	m := calpdf.MustMonth(2026, time.January)
//	cells, err := calpdf.Layout(m, calpdf.DefaultPolicy())
//
// A [PageBreakPolicy] gives the cell size, the margins and the bottom limit
// in page units. Each [CellPlacement] carries its day, column, row, page and
// top-left origin. A day keeps its weekday column on continuation pages.
//
// # Drawing with a Canvas
//
// A [Sheet] draws a month through the [Renderer] interface: a title per
// page, weekday labels, bordered cells and shaded weekends. [Canvas]
// implements Renderer on top of a PDF document:
//
//	s := calpdf.NewSheet(m)
//	res, err := calpdf.RenderCanvas(s, calpdf.WithFont("DejaVuSans.ttf"))
//
// The default Russian labels need a Unicode TrueType font. Without
// [WithFont] only Latin-1 text can be drawn, for example [English].
//
// # Printing markup with a browser
//
// [RenderMarkup] writes an HTML table for the month with a notes area in
// each cell. A [Converter] prints it through headless Chrome:
//
//	c, err := calpdf.NewConverter(calpdf.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.ConvertMonth(ctx, m, calpdf.MarkupOptions{}, nil)
//
// Use [PageConfig] to control paper size, orientation and margins of both
// the markup and the printout:
//
//	page := &calpdf.PageConfig{
//	    Size:        calpdf.A4,
//	    Orientation: calpdf.Landscape,
//	    Margin:      calpdf.UniformMargin(1.5),
//	}
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]
// or [WithRemoteURL].
//
// # Results
//
// Both paths return a [Result]:
//
//	res.Bytes()                         // []byte
//	res.Base64()                        // base64 string (RFC 4648)
//	res.WriteTo(w)                      // io.WriterTo
//	res.WriteToFile("jan.pdf", 0o644)   // write to disk
package calpdf
