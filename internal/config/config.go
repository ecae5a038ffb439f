// Package config loads calendar settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	calpdf "github.com/porticus-lab/go-calendar-pdf"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment overrides, e.g. CALENDAR_PAGE_SIZE.
const EnvPrefix = "CALENDAR"

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Page     PageConfig     `mapstructure:"page"`
	Chrome   ChromeConfig   `mapstructure:"chrome"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig selects the month and its labels.
type CalendarConfig struct {
	Year       int    `mapstructure:"year"`  // 0 means the current year
	Month      int    `mapstructure:"month"` // 0 means the current month
	Locale     string `mapstructure:"locale"`
	Font       string `mapstructure:"font"` // TrueType font for the canvas

	// FontSearch is tried in order when Font is empty and the locale
	// has labels outside Latin-1.
	FontSearch []string `mapstructure:"font_search"`
	CellHeight int    `mapstructure:"cell_height"`
	HideNotes  bool   `mapstructure:"hide_notes"`
}

// LayoutConfig is the grid geometry in millimetres.
type LayoutConfig struct {
	RowHeight    float64 `mapstructure:"row_height"`
	ColumnWidth  float64 `mapstructure:"column_width"`
	HeaderHeight float64 `mapstructure:"header_height"`
	MaxContentY  float64 `mapstructure:"max_content_y"`
	MarginLeft   float64 `mapstructure:"margin_left"`
	MarginTop    float64 `mapstructure:"margin_top"`
}

// PageConfig is the paper setup shared by the canvas and the browser.
type PageConfig struct {
	Size            string  `mapstructure:"size"`
	Orientation     string  `mapstructure:"orientation"`
	MarginCM        float64 `mapstructure:"margin_cm"`
	Scale           float64 `mapstructure:"scale"`
	PrintBackground bool    `mapstructure:"print_background"`
}

// ChromeConfig configures the headless browser.
type ChromeConfig struct {
	Path         string        `mapstructure:"path"`
	RemoteURL    string        `mapstructure:"remote_url"`
	NoSandbox    bool          `mapstructure:"no_sandbox"`
	AutoDownload bool          `mapstructure:"auto_download"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// OutputConfig names generated files.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`

	// Name is a file name without extension; {year} and {month} are
	// replaced with the calendar month.
	Name string `mapstructure:"name"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.year", 0)
	v.SetDefault("calendar.month", 0)
	v.SetDefault("calendar.locale", "ru")
	v.SetDefault("calendar.font", "")
	v.SetDefault("calendar.font_search", calpdf.SystemFonts)
	v.SetDefault("calendar.cell_height", 100)
	v.SetDefault("calendar.hide_notes", false)

	p := calpdf.DefaultPolicy()
	v.SetDefault("layout.row_height", p.RowHeight)
	v.SetDefault("layout.column_width", p.ColumnWidth)
	v.SetDefault("layout.header_height", p.HeaderHeight)
	v.SetDefault("layout.max_content_y", p.MaxContentY)
	v.SetDefault("layout.margin_left", p.MarginLeft)
	v.SetDefault("layout.margin_top", p.MarginTop)

	v.SetDefault("page.size", "A4")
	v.SetDefault("page.orientation", "portrait")
	v.SetDefault("page.margin_cm", 1.5)
	v.SetDefault("page.scale", 1.0)
	v.SetDefault("page.print_background", true)

	v.SetDefault("chrome.path", "")
	v.SetDefault("chrome.remote_url", "")
	v.SetDefault("chrome.no_sandbox", false)
	v.SetDefault("chrome.auto_download", false)
	v.SetDefault("chrome.timeout", "30s")

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.name", "calendar_{year}_{month}")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load loads configuration from configPath. With an empty path it looks for
// calendar.yaml in the working directory and $HOME/.calendar, and falls back
// to defaults when none exists. CALENDAR_* variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("calendar")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.calendar")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Calendar.Month < 0 || c.Calendar.Month > 12 {
		return fmt.Errorf("calendar.month must be 1-12 or 0 for the current month, got %d", c.Calendar.Month)
	}
	if c.Calendar.Year < 0 || c.Calendar.Year > 9999 {
		return fmt.Errorf("calendar.year must be 1-9999 or 0 for the current year, got %d", c.Calendar.Year)
	}
	if _, err := calpdf.LookupLocale(c.Calendar.Locale); err != nil {
		return fmt.Errorf("calendar.locale: %w", err)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if _, err := c.PageConfig(); err != nil {
		return fmt.Errorf("page: %w", err)
	}
	if c.Page.MarginCM < 0 {
		return fmt.Errorf("page.margin_cm must not be negative")
	}
	if c.Page.Scale < 0.1 || c.Page.Scale > 2 {
		return fmt.Errorf("page.scale must be between 0.1 and 2.0, got %v", c.Page.Scale)
	}
	if c.Chrome.Timeout < 0 {
		return fmt.Errorf("chrome.timeout must not be negative")
	}
	if c.Output.Name == "" {
		return fmt.Errorf("output.name is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Month resolves the configured month, filling zero fields from now.
func (c *Config) Month(now time.Time) (calpdf.Month, error) {
	year, month := c.Calendar.Year, time.Month(c.Calendar.Month)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	return calpdf.NewMonth(year, month)
}

// Locale returns the built-in locale for calendar.locale.
func (c *Config) Locale() (calpdf.Locale, error) {
	return calpdf.LookupLocale(c.Calendar.Locale)
}

// Policy returns the grid geometry.
func (c *Config) Policy() calpdf.PageBreakPolicy {
	l := c.Layout
	return calpdf.PageBreakPolicy{
		RowHeight:    l.RowHeight,
		MaxContentY:  l.MaxContentY,
		HeaderHeight: l.HeaderHeight,
		ColumnWidth:  l.ColumnWidth,
		MarginLeft:   l.MarginLeft,
		MarginTop:    l.MarginTop,
	}
}

// PageConfig returns the paper setup.
func (c *Config) PageConfig() (calpdf.PageConfig, error) {
	size, err := calpdf.ParsePageSize(c.Page.Size)
	if err != nil {
		return calpdf.PageConfig{}, err
	}
	orientation, err := calpdf.ParseOrientation(c.Page.Orientation)
	if err != nil {
		return calpdf.PageConfig{}, err
	}
	return calpdf.PageConfig{
		Size:            size,
		Orientation:     orientation,
		Margin:          calpdf.UniformMargin(c.Page.MarginCM),
		Scale:           c.Page.Scale,
		PrintBackground: c.Page.PrintBackground,
	}, nil
}

// MarkupOptions returns the options for the HTML document.
func (c *Config) MarkupOptions() (calpdf.MarkupOptions, error) {
	loc, err := c.Locale()
	if err != nil {
		return calpdf.MarkupOptions{}, err
	}
	pg, err := c.PageConfig()
	if err != nil {
		return calpdf.MarkupOptions{}, err
	}
	return calpdf.MarkupOptions{
		Locale:     loc,
		Page:       &pg,
		CellHeight: c.Calendar.CellHeight,
		HideNotes:  c.Calendar.HideNotes,
	}, nil
}

// CanvasOptions returns the options for drawing with fpdf. A locale that
// needs a Unicode font falls back to the first file in calendar.font_search.
func (c *Config) CanvasOptions() ([]calpdf.CanvasOption, error) {
	pg, err := c.PageConfig()
	if err != nil {
		return nil, err
	}
	loc, err := c.Locale()
	if err != nil {
		return nil, err
	}

	font := c.Calendar.Font
	if font == "" && loc.NeedsUnicodeFont() {
		font = calpdf.FindFont(c.Calendar.FontSearch...)
		if font == "" {
			return nil, fmt.Errorf("calendar.font is required for locale %s: no TrueType font found in calendar.font_search", c.Calendar.Locale)
		}
	}

	opts := []calpdf.CanvasOption{calpdf.WithCanvasPage(pg)}
	if font != "" {
		opts = append(opts, calpdf.WithFont(font))
	}
	return opts, nil
}

// ConverterOptions returns the browser options.
func (c *Config) ConverterOptions(logger *zap.Logger) []calpdf.Option {
	opts := []calpdf.Option{
		calpdf.WithTimeout(c.Chrome.Timeout),
		calpdf.WithLogger(logger),
	}
	if c.Chrome.Path != "" {
		opts = append(opts, calpdf.WithChromePath(c.Chrome.Path))
	}
	if c.Chrome.RemoteURL != "" {
		opts = append(opts, calpdf.WithRemoteURL(c.Chrome.RemoteURL))
	}
	if c.Chrome.NoSandbox {
		opts = append(opts, calpdf.WithNoSandbox())
	}
	if c.Chrome.AutoDownload {
		opts = append(opts, calpdf.WithAutoDownload())
	}
	return opts
}

// OutputPath returns the file for m with extension ext, e.g. ".pdf".
func (c *Config) OutputPath(m calpdf.Month, ext string) string {
	name := strings.NewReplacer(
		"{year}", strconv.Itoa(m.Year),
		"{month}", fmt.Sprintf("%02d", int(m.Month)),
	).Replace(c.Output.Name)
	return filepath.Join(c.Output.Dir, name+ext)
}
