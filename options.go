package calpdf

import (
	"time"

	"go.uber.org/zap"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	chromePath   string
	remoteURL    string
	timeout      time.Duration
	noSandbox    bool
	autoDownload bool
	headless     string
	logger       *zap.Logger
}

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:  30 * time.Second,
		headless: "new",
		logger:   zap.NewNop(),
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default chromedp searches standard locations.
func WithChromePath(path string) Option {
	return func(c *converterConfig) {
		c.chromePath = path
	}
}

// WithRemoteURL attaches to an already running browser through its
// DevTools websocket URL instead of launching one.
func WithRemoteURL(url string) Option {
	return func(c *converterConfig) {
		c.remoteURL = url
	}
}

// WithTimeout sets the maximum duration for a single conversion.
// Defaults to 30 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *converterConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a compatible Chromium build into the local
// cache when no explicit path is given.
func WithAutoDownload() Option {
	return func(c *converterConfig) {
		c.autoDownload = true
	}
}

// WithLogger sets the logger for browser lifecycle and conversion events.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *converterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
