// Package render captures components with a headless Chrome driven by Rod.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/pkg/redact"
)

// ErrEmptyRequest is returned when a request names neither a URL nor HTML.
var ErrEmptyRequest = errors.New("render request needs a URL or HTML")

// Config configures the renderer.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of an existing Chrome.
	// Empty launches a local headless Chrome on first use.
	RemoteURL string

	Width  int
	Height int
	Scale  float64

	// Timeout bounds one render. Default: 30s.
	Timeout time.Duration

	// WaitSelector, when set, is awaited before every capture.
	WaitSelector string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Renderer renders pages in one shared browser, opening a fresh tab per
// request. It is safe for concurrent use.
type Renderer struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

var _ ports.Renderer = (*Renderer)(nil)

// New creates a renderer. The browser is started lazily.
func New(cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{cfg: cfg}
}

// Render loads the request and captures the viewport or one element as PNG.
// Every failure wraps snapshot.ErrRenderFailure.
func (r *Renderer) Render(ctx context.Context, req ports.RenderRequest) (*snapshot.Bitmap, error) {
	if req.URL == "" && req.HTML == "" {
		return nil, renderErr("request", ErrEmptyRequest)
	}

	b, err := r.ensureBrowser()
	if err != nil {
		return nil, renderErr("browser", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, renderErr("open tab", err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	width, height := r.cfg.Width, r.cfg.Height
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: r.cfg.Scale,
	}); err != nil {
		return nil, renderErr("viewport", err)
	}

	if req.URL != "" {
		if err := page.Navigate(req.URL); err != nil {
			return nil, renderErr("navigate "+redact.URL(req.URL), err)
		}
	} else if err := page.SetDocumentContent(req.HTML); err != nil {
		return nil, renderErr("set content", err)
	}

	if err := page.WaitLoad(); err != nil {
		r.cfg.Logger.Warn("render: wait load failed", "url", redact.URL(req.URL), "error", err)
	}
	if r.cfg.WaitSelector != "" {
		if _, err := page.Element(r.cfg.WaitSelector); err != nil {
			return nil, renderErr("wait for "+r.cfg.WaitSelector, err)
		}
	}

	var data []byte
	if req.Selector != "" {
		el, err := page.Element(req.Selector)
		if err != nil {
			return nil, renderErr("find "+req.Selector, err)
		}
		data, err = el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
		if err != nil {
			return nil, renderErr("capture element", err)
		}
	} else {
		data, err = page.Screenshot(false, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, renderErr("capture page", err)
		}
	}

	bitmap, err := snapshot.DecodeBitmap(data)
	if err != nil {
		return nil, renderErr("decode", err)
	}

	r.cfg.Logger.Debug("render: captured", "url", redact.URL(req.URL), "selector", req.Selector, "bytes", len(data))
	return bitmap, nil
}

// Close shuts down the browser, and the local Chrome if one was launched.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.lnch != nil {
		r.lnch.Kill()
		r.lnch = nil
	}
	return err
}

func (r *Renderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.New("renderer is closed")
	}
	if r.browser != nil {
		return r.browser, nil
	}

	wsURL := r.cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(true).Set("hide-scrollbars")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch: %w", err)
		}
		wsURL = u
		r.lnch = l
		r.cfg.Logger.Info("render: launched local chrome", "url", redact.URL(wsURL))
	} else {
		r.cfg.Logger.Info("render: connecting to remote chrome", "url", redact.URL(wsURL))
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if r.lnch != nil {
			r.lnch.Kill()
			r.lnch = nil
		}
		return nil, fmt.Errorf("connect %s: %w", redact.URL(wsURL), err)
	}
	r.browser = b
	return b, nil
}

func renderErr(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", snapshot.ErrRenderFailure, step, err)
}
