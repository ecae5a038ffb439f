package calpdf_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	calpdf "github.com/porticus-lab/go-calendar-pdf"
	"go.uber.org/zap/zaptest"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestConverter(t *testing.T) *calpdf.Converter {
	t.Helper()
	skipIfNoChrome(t)
	c, err := calpdf.NewConverter(calpdf.WithNoSandbox(), calpdf.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// isPDF checks whether data starts with the PDF magic number.
func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:5]) == "%PDF-"
}

func TestConvertMonth(t *testing.T) {
	c := newTestConverter(t)

	res, err := c.ConvertMonth(context.Background(), calpdf.MustMonth(2026, time.January), calpdf.MarkupOptions{}, nil)
	if err != nil {
		t.Fatalf("ConvertMonth: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
	if res.Len() < 1000 {
		t.Errorf("PDF unexpectedly small: %d bytes", res.Len())
	}
}

func TestConvertMonth_InvalidMonth(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ConvertMonth(context.Background(), calpdf.Month{Days: 99}, calpdf.MarkupOptions{}, nil)
	if !errors.Is(err, calpdf.ErrInvalidMonth) {
		t.Fatalf("err = %v, want ErrInvalidMonth", err)
	}
}

func TestConvertHTML_Landscape(t *testing.T) {
	c := newTestConverter(t)

	html, err := calpdf.Markup(calpdf.MustMonth(2026, time.February), calpdf.MarkupOptions{Locale: calpdf.English})
	if err != nil {
		t.Fatal(err)
	}
	page := &calpdf.PageConfig{
		Size:            calpdf.A4,
		Orientation:     calpdf.Landscape,
		Margin:          calpdf.UniformMargin(1.0),
		PrintBackground: true,
	}
	res, err := c.ConvertHTML(context.Background(), html, page)
	if err != nil {
		t.Fatalf("ConvertHTML: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
}

func TestConvertHTML_Empty(t *testing.T) {
	c := newTestConverter(t)

	if _, err := c.ConvertHTML(context.Background(), "  \n", nil); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestConvertFile(t *testing.T) {
	c := newTestConverter(t)

	path := filepath.Join(t.TempDir(), "январь.html")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := calpdf.RenderMarkup(f, calpdf.MustMonth(2026, time.January), calpdf.MarkupOptions{}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	res, err := c.ConvertFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
}

func TestConvertFile_NotFound(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ConvertFile(context.Background(), "/nonexistent/calendar.html", nil)
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestConvertURL_InvalidURL(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ConvertURL(context.Background(), "not a url", nil)
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	c := newTestConverter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ConvertMonth(ctx, calpdf.MustMonth(2026, time.January), calpdf.MarkupOptions{}, nil)
	if !errors.Is(err, calpdf.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want wrapped context.Canceled", err)
	}
}

func TestConverter_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	c, err := calpdf.NewConverter(calpdf.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestConverter_UsedAfterClose(t *testing.T) {
	skipIfNoChrome(t)

	c, err := calpdf.NewConverter(calpdf.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	_, err = c.ConvertMonth(context.Background(), calpdf.MustMonth(2026, time.January), calpdf.MarkupOptions{}, nil)
	if err != calpdf.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestConvertMonth_PackageLevel(t *testing.T) {
	skipIfNoChrome(t)

	res, err := calpdf.ConvertMonth(
		context.Background(),
		calpdf.MustMonth(2026, time.January),
		calpdf.MarkupOptions{Locale: calpdf.English},
		&calpdf.PageConfig{Size: calpdf.Letter},
		calpdf.WithNoSandbox(),
	)
	if err != nil {
		t.Fatalf("ConvertMonth: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
}

func TestAllPageSizes(t *testing.T) {
	c := newTestConverter(t)

	sizes := []struct {
		name string
		size calpdf.PageSize
	}{
		{"A3", calpdf.A3},
		{"A4", calpdf.A4},
		{"A5", calpdf.A5},
		{"Letter", calpdf.Letter},
		{"Legal", calpdf.Legal},
	}

	m := calpdf.MustMonth(2026, time.January)
	for _, s := range sizes {
		t.Run(s.name, func(t *testing.T) {
			pg := &calpdf.PageConfig{Size: s.size, PrintBackground: true}
			res, err := c.ConvertMonth(context.Background(), m, calpdf.MarkupOptions{}, pg)
			if err != nil {
				t.Fatalf("ConvertMonth(%s): %v", s.name, err)
			}
			if !isPDF(res.Bytes()) {
				t.Fatalf("%s: output is not a valid PDF", s.name)
			}
		})
	}
}
