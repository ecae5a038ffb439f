package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	calpdf "github.com/porticus-lab/go-calendar-pdf"
	"github.com/porticus-lab/go-calendar-pdf/internal/preview"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// placement is the exported form of a cell in layout output.
type placement struct {
	Day     int     `json:"day" yaml:"day"`
	Weekday string  `json:"weekday" yaml:"weekday"`
	Page    int     `json:"page" yaml:"page"`
	Row     int     `json:"row" yaml:"row"`
	Column  int     `json:"column" yaml:"column"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Weekend bool    `json:"weekend" yaml:"weekend"`
}

type layoutReport struct {
	Month      string      `json:"month" yaml:"month"`
	Pages      int         `json:"pages" yaml:"pages"`
	Weeks      int         `json:"weeks" yaml:"weeks"`
	Placements []placement `json:"placements" yaml:"placements"`
}

func layoutCmd(a *app) *cobra.Command {
	var asJSON, asYAML bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed cell placements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asYAML {
				return fmt.Errorf("--json and --yaml are mutually exclusive")
			}
			m, err := a.resolveMonth()
			if err != nil {
				return err
			}
			s, err := a.sheet(m)
			if err != nil {
				return err
			}
			report, err := buildReport(s)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case asYAML:
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return err
				}
				return enc.Close()
			default:
				return writeTable(w, report)
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print as YAML")
	return cmd
}

func buildReport(s calpdf.Sheet) (*layoutReport, error) {
	cells, err := calpdf.Layout(s.Month, s.Policy)
	if err != nil {
		return nil, err
	}
	report := &layoutReport{
		Month:      s.Locale.Title(s.Month),
		Pages:      calpdf.Pages(cells),
		Weeks:      calpdf.Weeks(cells),
		Placements: make([]placement, 0, len(cells)),
	}
	for _, c := range cells {
		report.Placements = append(report.Placements, placement{
			Day:     c.Day,
			Weekday: s.Locale.Weekdays[c.Column],
			Page:    c.Page,
			Row:     c.Row,
			Column:  c.Column,
			X:       c.Origin.X,
			Y:       c.Origin.Y,
			Weekend: c.Weekend,
		})
	}
	return report, nil
}

func writeTable(w io.Writer, r *layoutReport) error {
	if _, err := fmt.Fprintf(w, "%s: %d page(s), %d week row(s)\n", r.Month, r.Pages, r.Weeks); err != nil {
		return err
	}
	fmt.Fprintf(w, "%4s %-4s %4s %4s %4s %8s %8s %s\n", "day", "wd", "page", "row", "col", "x", "y", "weekend")
	for _, p := range r.Placements {
		mark := ""
		if p.Weekend {
			mark = "*"
		}
		fmt.Fprintf(w, "%4d %-4s %4d %4d %4d %8.1f %8.1f %s\n",
			p.Day, p.Weekday, p.Page, p.Row, p.Column, p.X, p.Y, mark)
	}
	return nil
}

func renderPreview(s calpdf.Sheet) (string, error) {
	return preview.Render(s.Month, s.Locale, s.Policy)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
