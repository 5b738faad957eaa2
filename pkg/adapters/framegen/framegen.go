// Package framegen produces synthetic test-pattern frames. It stands in for
// a live screen source when exercising the capture pipeline without a
// browser.
package framegen

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/user/framecast/pkg/ports"
)

// Options configures the generator.
type Options struct {
	Width  int
	Height int

	// FPS is the nominal frame rate. Default 10.
	FPS float64

	// DurationMs bounds the generated sequence. Default 3000.
	DurationMs int

	// JPEGQuality is the encode quality (1-100). Default 80.
	JPEGQuality int

	// Realtime paces frame production at the nominal rate. When false
	// frames are produced as fast as they render, which suits tests.
	Realtime bool
}

// Generator implements ports.FrameSource with rendered test patterns.
type Generator struct {
	opts Options
	face font.Face

	mu      sync.Mutex
	stopCh  chan struct{}
	stopped bool
}

// New creates a Generator. Zero-value options fall back to defaults.
func New(opts Options) (*Generator, error) {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	if opts.FPS <= 0 {
		opts.FPS = 10
	}
	if opts.DurationMs <= 0 {
		opts.DurationMs = 3000
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 80
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: float64(opts.Height) / 12,
		DPI:  72,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	return &Generator{
		opts:   opts,
		face:   face,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins producing frames. The channel closes once the configured
// duration's worth of frames has been generated or the source is stopped.
func (g *Generator) Start(ctx context.Context) (<-chan ports.SourceFrame, error) {
	frameInterval := time.Duration(float64(time.Second) / g.opts.FPS)
	total := int(float64(g.opts.DurationMs) / 1000 * g.opts.FPS)
	if total < 1 {
		total = 1
	}

	out := make(chan ports.SourceFrame)
	go func() {
		defer close(out)
		var ticker *time.Ticker
		if g.opts.Realtime {
			ticker = time.NewTicker(frameInterval)
			defer ticker.Stop()
		}

		for i := 0; i < total; i++ {
			data, err := g.RenderFrame(i)
			if err != nil {
				return
			}
			frame := ports.SourceFrame{
				TimestampMs: int(float64(i) * float64(frameInterval.Milliseconds())),
				Data:        data,
			}
			select {
			case out <- frame:
			case <-g.stopCh:
				return
			case <-ctx.Done():
				return
			}
			if ticker != nil {
				select {
				case <-ticker.C:
				case <-g.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Stop halts production. Safe to call more than once.
func (g *Generator) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.stopped {
		g.stopped = true
		close(g.stopCh)
	}
	return nil
}

// RenderFrame renders the test pattern for frame index i as JPEG bytes.
// The pattern changes every frame so encoded output is never static.
func (g *Generator) RenderFrame(i int) ([]byte, error) {
	w, h := g.opts.Width, g.opts.Height
	dc := gg.NewContext(w, h)

	// Background cycles through hues.
	hue := float64(i%120) / 120
	dc.SetRGB(0.1+0.2*hue, 0.12, 0.25-0.1*hue)
	dc.Clear()

	// A bar sweeps left to right once per 60 frames.
	barX := float64(i%60) / 60 * float64(w)
	dc.SetRGB(0.3, 0.75, 0.45)
	dc.DrawRectangle(barX, 0, float64(w)/20, float64(h))
	dc.Fill()

	dc.SetFontFace(g.face)
	dc.SetRGB(1, 1, 1)
	label := fmt.Sprintf("frame %04d", i)
	dc.DrawStringAnchored(label, float64(w)/2, float64(h)/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: g.opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Ensure Generator implements ports.FrameSource
var _ ports.FrameSource = (*Generator)(nil)
