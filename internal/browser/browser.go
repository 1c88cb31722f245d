// Package browser drives a real Chrome tab through the DevTools protocol so
// the cart can live in the page's localStorage and render into its DOM.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
}

// Config holds browser configuration.
type Config struct {
	// DebuggerURL connects to a running Chrome; empty launches one.
	DebuggerURL         string
	PageURL             string
	Headless            bool
	NavigationTimeoutMs int
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Tab is one open page together with the browser that owns it.
type Tab struct {
	browser *rod.Browser
	page    *rod.Page
	log     Log
}

// Open connects to (or launches) Chrome and navigates a new tab to cfg.PageURL.
func Open(ctx context.Context, cfg Config, log Log) (*Tab, error) {
	if cfg.PageURL == "" {
		return nil, fmt.Errorf("page url is empty")
	}

	controlURL := cfg.DebuggerURL
	if controlURL == "" {
		u, err := launcher.New().Headless(cfg.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: cfg.PageURL})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.Timeout(cfg.NavigationTimeout()).WaitLoad(); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("wait for page load: %w", err)
	}

	log.Info("Browser tab opened", zap.String("url", cfg.PageURL))
	return &Tab{browser: b, page: page, log: log}, nil
}

// Path implements presenter.Location.
func (t *Tab) Path() string {
	info, err := t.page.Info()
	if err != nil {
		return ""
	}
	u, err := url.Parse(info.URL)
	if err != nil {
		return ""
	}
	return u.Path
}

func (t *Tab) Close() bool {
	if t.browser == nil {
		return false
	}
	if err := t.browser.Close(); err != nil {
		return false
	}
	t.log.Info("Browser closed")
	return true
}

// CallGlobal invokes window[name]() when the page defines it.
func (t *Tab) CallGlobal(ctx context.Context, name string) error {
	_, err := t.page.Context(ctx).Eval(`(n) => { if (typeof window[n] === "function") window[n]() }`, name)
	return err
}
