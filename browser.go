package calpdf

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// resolveBrowser picks the executable the converter launches. An explicit
// path wins; otherwise, with auto-download enabled, a compatible Chromium
// is fetched into ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser
// (Windows). An empty result lets chromedp search PATH.
func resolveBrowser(cfg converterConfig) (string, error) {
	if cfg.chromePath != "" || !cfg.autoDownload {
		return cfg.chromePath, nil
	}
	if path, found := launcher.LookPath(); found {
		cfg.logger.Debug("using installed browser", zap.String("path", path))
		return path, nil
	}
	cfg.logger.Info("downloading browser")
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("calpdf: downloading browser: %w", err)
	}
	cfg.logger.Info("browser downloaded", zap.String("path", path))
	return path, nil
}
