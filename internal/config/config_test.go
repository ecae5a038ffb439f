package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	calpdf "github.com/porticus-lab/go-calendar-pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
calendar:
  year: 2026
  month: 1
  locale: en-GB
  font: /usr/share/fonts/DejaVuSans.ttf
  hide_notes: true
layout:
  row_height: 40
page:
  size: letter
  orientation: landscape
  margin_cm: 2
chrome:
  no_sandbox: true
  timeout: 1m
output:
  dir: out
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2026, cfg.Calendar.Year)
	assert.Equal(t, 1, cfg.Calendar.Month)
	assert.True(t, cfg.Calendar.HideNotes)
	assert.Equal(t, 100, cfg.Calendar.CellHeight)
	assert.Equal(t, 40.0, cfg.Layout.RowHeight)
	assert.Equal(t, 30.0, cfg.Layout.ColumnWidth, "unset keys keep defaults")
	assert.Equal(t, time.Minute, cfg.Chrome.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	loc, err := cfg.Locale()
	require.NoError(t, err)
	assert.Equal(t, calpdf.English.Weekdays, loc.Weekdays)

	pg, err := cfg.PageConfig()
	require.NoError(t, err)
	assert.Equal(t, calpdf.Letter, pg.Size)
	assert.Equal(t, calpdf.Landscape, pg.Orientation)
	assert.Equal(t, calpdf.UniformMargin(2), pg.Margin)
	assert.True(t, pg.PrintBackground)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "calendar:\n  month: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, calpdf.DefaultPolicy(), cfg.Policy())
	assert.Equal(t, "ru", cfg.Calendar.Locale)
	assert.Equal(t, 30*time.Second, cfg.Chrome.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)

	pg, err := cfg.PageConfig()
	require.NoError(t, err)
	assert.Equal(t, calpdf.DefaultPageConfig(), pg)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CALENDAR_PAGE_SIZE", "A5")
	t.Setenv("CALENDAR_CALENDAR_YEAR", "2030")

	cfg, err := Load(writeConfig(t, "page:\n  size: a3\n"))
	require.NoError(t, err)
	assert.Equal(t, "A5", cfg.Page.Size)
	assert.Equal(t, 2030, cfg.Calendar.Year)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "A4", cfg.Page.Size)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"month", "calendar:\n  month: 13\n"},
		{"year", "calendar:\n  year: -1\n"},
		{"locale", "calendar:\n  locale: '!!'\n"},
		{"policy", "layout:\n  row_height: 0\n"},
		{"negative column width", "layout:\n  column_width: -30\n"},
		{"page size", "page:\n  size: b5\n"},
		{"orientation", "page:\n  orientation: sideways\n"},
		{"margin", "page:\n  margin_cm: -1\n"},
		{"scale", "page:\n  scale: 3\n"},
		{"timeout", "chrome:\n  timeout: -1s\n"},
		{"output name", "output:\n  name: ''\n"},
		{"log level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoad_ZeroColumnWidth(t *testing.T) {
	cfg, err := Load(writeConfig(t, "layout:\n  column_width: 0\n  max_content_y: 60\n"))
	require.NoError(t, err)

	cells, err := calpdf.Layout(calpdf.MustMonth(2026, 1), cfg.Policy())
	require.NoError(t, err)
	assert.Equal(t, 31, calpdf.Pages(cells))
	assert.Equal(t, float64(calpdf.DefaultColumnWidth), cells[0].Rect(cfg.Policy()).Width)
}

func TestMonth(t *testing.T) {
	now := time.Date(2026, time.February, 14, 12, 0, 0, 0, time.UTC)

	cfg := &Config{}
	m, err := cfg.Month(now)
	require.NoError(t, err)
	assert.Equal(t, calpdf.MustMonth(2026, time.February), m)

	cfg.Calendar = CalendarConfig{Year: 2024, Month: 2}
	m, err = cfg.Month(now)
	require.NoError(t, err)
	assert.Equal(t, 29, m.Days)

	cfg.Calendar.Month = 6
	cfg.Calendar.Year = 0
	m, err = cfg.Month(now)
	require.NoError(t, err)
	assert.Equal(t, 2026, m.Year)
	assert.Equal(t, time.June, m.Month)
}

func TestOutputPath(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Dir: "out", Name: "calendar_{year}_{month}"}}
	got := cfg.OutputPath(calpdf.MustMonth(2026, time.January), ".pdf")
	assert.Equal(t, filepath.Join("out", "calendar_2026_01.pdf"), got)
}

func TestMarkupOptions(t *testing.T) {
	cfg, err := Load(writeConfig(t, "calendar:\n  cell_height: 80\n  locale: en\n"))
	require.NoError(t, err)

	opts, err := cfg.MarkupOptions()
	require.NoError(t, err)
	assert.Equal(t, 80, opts.CellHeight)
	assert.Equal(t, calpdf.English.Notes, opts.Locale.Notes)
	require.NotNil(t, opts.Page)
	assert.Equal(t, calpdf.A4, opts.Page.Size)
}

func TestCanvasOptions(t *testing.T) {
	cfg, err := Load(writeConfig(t, "calendar:\n  locale: en\n"))
	require.NoError(t, err)

	opts, err := cfg.CanvasOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	cfg.Calendar.Font = "font.ttf"
	opts, err = cfg.CanvasOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestCanvasOptions_FontSearch(t *testing.T) {
	font := filepath.Join(t.TempDir(), "sans.ttf")
	require.NoError(t, os.WriteFile(font, []byte("ttf"), 0o644))

	cfg, err := Load(writeConfig(t, "calendar:\n  locale: ru\n  font_search:\n    - /nonexistent/font.ttf\n    - "+font+"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/nonexistent/font.ttf", font}, cfg.Calendar.FontSearch)

	opts, err := cfg.CanvasOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestCanvasOptions_RussianWithoutFont(t *testing.T) {
	cfg, err := Load(writeConfig(t, "calendar:\n  font_search: []\n"))
	require.NoError(t, err)
	assert.Equal(t, "ru", cfg.Calendar.Locale)

	_, err = cfg.CanvasOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar.font is required for locale ru")
}

func TestDefaults_FontSearch(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, calpdf.SystemFonts, cfg.Calendar.FontSearch)
}

func TestConverterOptions(t *testing.T) {
	cfg := &Config{Chrome: ChromeConfig{
		Path:         "/opt/chrome",
		NoSandbox:    true,
		AutoDownload: true,
		Timeout:      time.Minute,
	}}
	assert.Len(t, cfg.ConverterOptions(zap.NewNop()), 5)

	cfg.Chrome = ChromeConfig{RemoteURL: "ws://127.0.0.1:9222/devtools/browser/x"}
	assert.Len(t, cfg.ConverterOptions(nil), 3)
}
