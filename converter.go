package calpdf

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Converter prints calendar markup to PDF with a headless browser.
//
// A Converter manages a browser instance that is reused across
// conversions, each of which runs in its own tab. It is safe for
// concurrent use.
//
// Call [Converter.Close] when the Converter is no longer needed to release
// browser resources.
type Converter struct {
	cfg           converterConfig
	log           *zap.Logger
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConverter starts a browser with the given options. The caller must
// call [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	log := cfg.logger.Named("converter")

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if cfg.remoteURL != "" {
		log.Info("attaching to remote browser", zap.String("url", cfg.remoteURL))
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.remoteURL)
	} else {
		execPath, err := resolveBrowser(cfg)
		if err != nil {
			return nil, err
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), allocatorOptions(cfg, execPath)...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		}),
	)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("calpdf: starting browser: %w", err)
	}
	log.Debug("browser started", zap.Bool("remote", cfg.remoteURL != ""))

	return &Converter{
		cfg:           cfg,
		log:           log,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

func allocatorOptions(cfg converterConfig, execPath string) []chromedp.ExecAllocatorOption {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("font-render-hinting", "none"),
		chromedp.Flag("headless", cfg.headless),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	if cfg.noSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return opts
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	c.log.Debug("browser closed")
	return nil
}

// ConvertHTML prints an HTML document to PDF.
// If pg is nil, [DefaultPageConfig] values are used.
func (c *Converter) ConvertHTML(ctx context.Context, html string, pg *PageConfig) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("calpdf: empty HTML document")
	}
	return c.convert(ctx, "about:blank", html, pg)
}

// ConvertMonth renders the markup for m and prints it to PDF. The @page
// size of the markup follows pg.
func (c *Converter) ConvertMonth(ctx context.Context, m Month, opts MarkupOptions, pg *PageConfig) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if opts.Page == nil {
		opts.Page = pg
	}
	html, err := Markup(m, opts)
	if err != nil {
		return nil, err
	}
	return c.convert(ctx, "about:blank", html, pg)
}

// ConvertURL prints the web page at rawURL to PDF.
// If pg is nil, [DefaultPageConfig] values are used.
func (c *Converter) ConvertURL(ctx context.Context, rawURL string, pg *PageConfig) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("calpdf: invalid URL %q: %w", rawURL, err)
	}
	return c.convert(ctx, rawURL, "", pg)
}

// ConvertFile prints a local HTML file to PDF.
// If pg is nil, [DefaultPageConfig] values are used.
func (c *Converter) ConvertFile(ctx context.Context, path string, pg *PageConfig) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("calpdf: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("calpdf: %w", err)
	}
	return c.convert(ctx, (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), "", pg)
}

// convert opens a tab at targetURL, optionally replaces its document with
// html, and prints it.
func (c *Converter) convert(ctx context.Context, targetURL, html string, pg *PageConfig) (*Result, error) {
	resolved := pg.resolved()
	start := time.Now()

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()
	// Tie the tab to the caller's deadline.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	width, height := resolved.paperDimensions()
	marginTop, marginRight, marginBottom, marginLeft := resolved.marginInches()

	actions := []chromedp.Action{chromedp.Navigate(targetURL)}
	if html != "" {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}))
	}

	var buf []byte
	actions = append(actions,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			params := page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(marginTop).
				WithMarginRight(marginRight).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithScale(resolved.Scale).
				WithPrintBackground(resolved.PrintBackground).
				WithPreferCSSPageSize(resolved.PreferCSSPageSize).
				WithDisplayHeaderFooter(resolved.DisplayHeaderFooter)

			if resolved.HeaderTemplate != "" {
				params = params.WithHeaderTemplate(resolved.HeaderTemplate)
			}
			if resolved.FooterTemplate != "" {
				params = params.WithFooterTemplate(resolved.FooterTemplate)
			}

			var err error
			buf, _, err = params.Do(ctx)
			return err
		}),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.log.Warn("conversion aborted", zap.String("url", targetURL), zap.Error(ctxErr))
			return nil, fmt.Errorf("%w after %v: %w", ErrTimeout, time.Since(start).Round(time.Millisecond), ctxErr)
		}
		if errors.Is(err, context.Canceled) && c.checkClosed() != nil {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("calpdf: conversion failed: %w", err)
	}

	c.log.Debug("converted",
		zap.String("url", targetURL),
		zap.Int("bytes", len(buf)),
		zap.Duration("took", time.Since(start)))
	return &Result{data: buf}, nil
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// --- Package-level convenience functions ---

// ConvertHTML prints an HTML document using a temporary [Converter].
// For repeated use, create a [Converter] with [NewConverter] to reuse the
// browser instance.
func ConvertHTML(ctx context.Context, html string, pg *PageConfig, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertHTML(ctx, html, pg)
}

// ConvertMonth renders and prints m using a temporary [Converter].
func ConvertMonth(ctx context.Context, m Month, mo MarkupOptions, pg *PageConfig, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertMonth(ctx, m, mo, pg)
}

// ConvertFile prints a local HTML file using a temporary [Converter].
func ConvertFile(ctx context.Context, path string, pg *PageConfig, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertFile(ctx, path, pg)
}
