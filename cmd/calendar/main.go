// calendar prints monthly planning calendars as PDF.
//
// Usage:
//
//	calendar draw    [--year Y] [--month M] [-o file.pdf]
//	calendar html    [-o file.html]
//	calendar convert [-o file.pdf]
//	calendar print   <file.html> [-o file.pdf]
//	calendar layout  [--json | --yaml]
//	calendar preview
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	calpdf "github.com/porticus-lab/go-calendar-pdf"
	"github.com/porticus-lab/go-calendar-pdf/internal/config"
	"github.com/porticus-lab/go-calendar-pdf/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	year       int
	month      int
	locale     string

	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{now: time.Now, logger: zap.NewNop()}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	_ = a.logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "calendar",
		Short:         "Monthly planning calendars as PDF",
		Long:          "Lay out a month on a 7-column grid and print it as PDF, either drawn directly or through a headless browser",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (default: calendar.yaml in . or $HOME/.calendar)")
	flags.IntVar(&a.year, "year", 0, "Calendar year (default: current year)")
	flags.IntVar(&a.month, "month", 0, "Calendar month 1-12 (default: current month)")
	flags.StringVar(&a.locale, "locale", "", "Label language, e.g. ru or en")

	rootCmd.AddCommand(
		drawCmd(a),
		htmlCmd(a),
		convertCmd(a),
		printCmd(a),
		layoutCmd(a),
		previewCmd(a),
	)
	return rootCmd
}

// init loads the configuration, applies flag overrides and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("year") {
		cfg.Calendar.Year = a.year
	}
	if flags.Changed("month") {
		cfg.Calendar.Month = a.month
	}
	if flags.Changed("locale") {
		cfg.Calendar.Locale = a.locale
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) resolveMonth() (calpdf.Month, error) {
	return a.cfg.Month(a.now())
}

// outputPath returns flagValue or the configured name for m.
func (a *app) outputPath(flagValue string, m calpdf.Month, ext string) string {
	if flagValue != "" {
		return flagValue
	}
	return a.cfg.OutputPath(m, ext)
}

func (a *app) sheet(m calpdf.Month) (calpdf.Sheet, error) {
	loc, err := a.cfg.Locale()
	if err != nil {
		return calpdf.Sheet{}, err
	}
	s := calpdf.NewSheet(m)
	s.Locale = loc
	s.Policy = a.cfg.Policy()
	return s, nil
}

func (a *app) newConverter() (*calpdf.Converter, error) {
	return calpdf.NewConverter(a.cfg.ConverterOptions(a.logger)...)
}

func drawCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the month directly into a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.resolveMonth()
			if err != nil {
				return err
			}
			s, err := a.sheet(m)
			if err != nil {
				return err
			}
			opts, err := a.cfg.CanvasOptions()
			if err != nil {
				return err
			}

			res, err := calpdf.RenderCanvas(s, opts...)
			if err != nil {
				return fmt.Errorf("failed to draw %s: %w", m, err)
			}
			path := a.outputPath(output, m, ".pdf")
			if err := res.WriteToFile(path, 0o644); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}

			a.logger.Info("calendar drawn",
				zap.Stringer("month", m),
				zap.String("path", path),
				zap.Int("bytes", res.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PDF path")
	return cmd
}

func htmlCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "html",
		Short: "Write the printable HTML document for the month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.resolveMonth()
			if err != nil {
				return err
			}
			opts, err := a.cfg.MarkupOptions()
			if err != nil {
				return err
			}

			if output == "-" {
				return calpdf.RenderMarkup(cmd.OutOrStdout(), m, opts)
			}
			html, err := calpdf.Markup(m, opts)
			if err != nil {
				return err
			}
			path := a.outputPath(output, m, ".html")
			if err := writeFile(path, []byte(html)); err != nil {
				return err
			}

			a.logger.Info("markup written", zap.Stringer("month", m), zap.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output HTML path, - for stdout")
	return cmd
}

func convertCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Render the month as HTML and print it with headless Chrome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.resolveMonth()
			if err != nil {
				return err
			}
			opts, err := a.cfg.MarkupOptions()
			if err != nil {
				return err
			}

			conv, err := a.newConverter()
			if err != nil {
				return err
			}
			defer conv.Close()

			res, err := conv.ConvertMonth(cmd.Context(), m, opts, opts.Page)
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", m, err)
			}
			path := a.outputPath(output, m, ".pdf")
			if err := res.WriteToFile(path, 0o644); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}

			a.logger.Info("calendar printed",
				zap.Stringer("month", m),
				zap.String("path", path),
				zap.Int("bytes", res.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PDF path")
	return cmd
}

func printCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "print <file.html>",
		Short: "Print an existing HTML calendar with headless Chrome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := a.cfg.PageConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = replaceExt(args[0], ".pdf")
			}

			conv, err := a.newConverter()
			if err != nil {
				return err
			}
			defer conv.Close()

			res, err := conv.ConvertFile(cmd.Context(), args[0], &pg)
			if err != nil {
				return fmt.Errorf("failed to print %s: %w", args[0], err)
			}
			if err := res.WriteToFile(output, 0o644); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}

			a.logger.Info("file printed", zap.String("input", args[0]), zap.String("path", output))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PDF path (default: input with .pdf extension)")
	return cmd
}

func previewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show the page layout in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.resolveMonth()
			if err != nil {
				return err
			}
			s, err := a.sheet(m)
			if err != nil {
				return err
			}
			out, err := renderPreview(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
