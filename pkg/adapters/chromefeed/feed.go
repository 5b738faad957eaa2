package chromefeed

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/framecast/pkg/ports"
)

// Options configures the Chrome screencast feed.
type Options struct {
	// URL is the page to record.
	URL string

	// ChromePath overrides Chrome executable resolution.
	ChromePath string

	// Headless runs Chrome without a visible window. Default is visible,
	// so the zero value of Options records a visible browser.
	Headless bool

	// Quality is the screencast JPEG quality (1-100). Default 80.
	Quality int

	// WindowWidth/WindowHeight size the browser window. Default 1280x720.
	WindowWidth  int
	WindowHeight int

	// SettleMs keeps the screencast running after the page load event
	// fires, so late paints still make it into the recording. Default 500.
	SettleMs int

	Logger ports.Logger
}

// Feed implements ports.FrameSource by streaming screencast frames from a
// Chrome page load.
type Feed struct {
	opts Options

	allocCancel context.CancelFunc
	cancel      context.CancelFunc

	mu     sync.Mutex
	frames chan ports.SourceFrame
	active bool
	closed bool
}

// New creates a Feed for the given options.
func New(opts Options) *Feed {
	if opts.Quality <= 0 {
		opts.Quality = 80
	}
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = 1280
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = 720
	}
	if opts.SettleMs <= 0 {
		opts.SettleMs = 500
	}
	return &Feed{opts: opts}
}

// Start launches Chrome, navigates to the configured URL and begins the
// screencast. The returned channel closes once the page load has settled
// or the feed is stopped.
func (f *Feed) Start(ctx context.Context) (<-chan ports.SourceFrame, error) {
	f.mu.Lock()
	if f.active {
		f.mu.Unlock()
		return nil, fmt.Errorf("screencast already active")
	}
	f.active = true
	f.frames = make(chan ports.SourceFrame, 100)
	f.mu.Unlock()

	chromedpOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(f.opts.WindowWidth, f.opts.WindowHeight),
		chromedp.Flag("window-size", fmt.Sprintf("%d,%d", f.opts.WindowWidth, f.opts.WindowHeight)),
	}

	if f.opts.Headless {
		// Use new headless mode for better compatibility
		chromedpOpts = append(chromedpOpts, chromedp.Flag("headless", "new"))
	}

	// Resolve Chrome path: option → CHROME_PATH env → system defaults
	chromePath := ResolveChromePath(f.opts.ChromePath)
	if chromePath == "" {
		f.finish()
		return nil, fmt.Errorf("chrome not found: please install Chrome/Chromium, set CHROME_PATH environment variable, or use --chrome-path option")
	}
	chromedpOpts = append(chromedpOpts, chromedp.ExecPath(chromePath))

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedpOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	f.allocCancel = allocCancel
	f.cancel = cancel

	startTime := time.Now()

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *page.EventScreencastFrame:
			data, err := base64.StdEncoding.DecodeString(e.Data)
			if err != nil {
				return
			}

			frame := ports.SourceFrame{
				TimestampMs: int(time.Since(startTime).Milliseconds()),
				Data:        data,
			}

			// Check the feed is still active before sending
			f.mu.Lock()
			if f.active {
				select {
				case f.frames <- frame:
				default:
					// Channel full, skip frame
				}
			}
			f.mu.Unlock()

			// Acknowledge frame (do this even if channel is closed)
			go chromedp.Run(browserCtx, page.ScreencastFrameAck(e.SessionID))

		case *page.EventLoadEventFired:
			// Page fully loaded, stop after the settle window so late
			// paints still land in the recording
			go func() {
				time.Sleep(time.Duration(f.opts.SettleMs) * time.Millisecond)
				f.Stop()
			}()
		}
	})

	if f.opts.Logger != nil {
		if f.opts.Headless {
			f.opts.Logger.Debug("Launching browser in headless mode")
		} else {
			f.opts.Logger.Debug("Launching browser in visible mode")
		}
		f.opts.Logger.Info("Navigating to %s", f.opts.URL)
	}

	err := chromedp.Run(browserCtx,
		page.StartScreencast().
			WithFormat(page.ScreencastFormatJpeg).
			WithQuality(int64(f.opts.Quality)).
			WithEveryNthFrame(1),
		chromedp.Navigate(f.opts.URL),
	)
	if err != nil {
		f.Stop()
		return nil, fmt.Errorf("start screencast: %w", err)
	}

	return f.frames, nil
}

// Stop ends the screencast and shuts the browser down. Safe to call more
// than once.
func (f *Feed) Stop() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.active = false
	if f.frames != nil {
		close(f.frames)
	}
	f.mu.Unlock()

	// Cancel browser context first
	if f.cancel != nil {
		f.cancel()
	}

	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)

	if f.allocCancel != nil {
		f.allocCancel()
	}

	if f.opts.Logger != nil {
		f.opts.Logger.Debug("Browser closed")
	}
	return nil
}

// finish resets the active flag after a failed start.
func (f *Feed) finish() {
	f.mu.Lock()
	f.active = false
	f.mu.Unlock()
}

// Ensure Feed implements ports.FrameSource
var _ ports.FrameSource = (*Feed)(nil)
