// Package compress re-encodes a finished capture into a smaller,
// quality-controlled file, reporting fractional progress.
package compress

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/user/framecast/pkg/adapters/ffmpegrunner"
	"github.com/user/framecast/pkg/adapters/mp4probe"
	"github.com/user/framecast/pkg/ports"
	"github.com/user/framecast/pkg/probe"
)

// ProgressFunc receives compression progress as a fraction in [0,1]. The
// reported sequence is non-decreasing and ends at exactly 1.0 on success.
type ProgressFunc func(fraction float64)

// Compressor runs second-pass encodes over finished capture files.
type Compressor struct {
	runner ports.EncoderRunner
	prober *probe.Prober
	fs     ports.FileSystem
	logger ports.Logger
}

// New constructs a Compressor.
func New(runner ports.EncoderRunner, prober *probe.Prober, fs ports.FileSystem, logger ports.Logger) *Compressor {
	return &Compressor{
		runner: runner,
		prober: prober,
		fs:     fs,
		logger: logger.WithComponent("compress"),
	}
}

// Compress re-encodes inputPath with the given CRF level and atomically
// replaces the original on success. On failure the original file is left
// untouched and the temporary output is removed.
//
// Duration discovery runs concurrently with the encode; progress samples
// arriving before the duration is known are dropped, not buffered. A failed
// probe is non-fatal: compression proceeds without progress reporting.
func (c *Compressor) Compress(ctx context.Context, inputPath string, level int, onProgress ProgressFunc) error {
	if inputPath == "" {
		return fmt.Errorf("compress: input path required")
	}
	tempPath := tempOutputPath(inputPath)

	tracker := &progressTracker{onProgress: onProgress}
	go c.resolveDuration(ctx, inputPath, tracker)

	spec := ports.EncoderSpec{
		InputPath:  inputPath,
		OutputPath: tempPath,
		Quality:    level,
	}
	events := ports.EncoderEvents{
		OnStart: func(commandLine string) {
			c.logger.Debug("Encoder started: %s", commandLine)
		},
		OnStderr: func(line string) {
			c.logger.Debug("%s", line)
		},
		OnProgress: tracker.sample,
	}

	proc, err := c.runner.Spawn(ctx, spec, events)
	if err != nil {
		return fmt.Errorf("spawn compression encoder: %w", err)
	}
	<-proc.Done()

	if err := proc.Err(); err != nil {
		// The original stays intact; only the temp output is cleaned
		// up.
		if removeErr := c.fs.Remove(tempPath); removeErr != nil {
			c.logger.Debug("Leaving temporary output %s: %s", tempPath, removeErr)
		}
		return fmt.Errorf("compress %s: %w", inputPath, err)
	}

	// Rounding in the last sample never leaves completion unreported.
	tracker.finish()

	if err := c.fs.Rename(tempPath, inputPath); err != nil {
		if removeErr := c.fs.Remove(tempPath); removeErr != nil {
			c.logger.Debug("Leaving temporary output %s: %s", tempPath, removeErr)
		}
		return fmt.Errorf("replace %s with compressed output: %w", inputPath, err)
	}
	return nil
}

// resolveDuration finds the source duration, preferring a local container
// parse over a subprocess probe.
func (c *Compressor) resolveDuration(ctx context.Context, inputPath string, tracker *progressTracker) {
	if data, err := mp4probe.Inspect(inputPath); err == nil && data.DurationSeconds > 0 {
		tracker.setTotal(data.DurationSeconds)
		return
	}

	data, err := c.prober.Probe(ctx, inputPath)
	if err != nil {
		c.logger.Warn("Progress unavailable, duration probe failed: %s", err)
		return
	}
	if data.DurationSeconds > 0 {
		tracker.setTotal(data.DurationSeconds)
	}
}

// tempOutputPath returns the temporary sibling the encoder writes to. It
// keeps the original extension so the container format is preserved.
func tempOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	if ext == "" {
		ext = ".mp4"
	}
	return strings.TrimSuffix(inputPath, ext) + "-compressing" + ext
}

// progressTracker converts encoder timemarks into clamped, non-decreasing
// progress fractions.
type progressTracker struct {
	onProgress ProgressFunc

	mu       sync.Mutex
	total    float64
	last     float64
	finished bool
}

func (t *progressTracker) setTotal(seconds float64) {
	t.mu.Lock()
	t.total = seconds
	t.mu.Unlock()
}

func (t *progressTracker) sample(timemark string) {
	if t.onProgress == nil {
		return
	}
	elapsed, err := ffmpegrunner.TimemarkSeconds(timemark)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished || t.total <= 0 {
		return
	}
	fraction := elapsed / t.total
	if fraction > 1 {
		fraction = 1
	}
	if fraction <= t.last {
		return
	}
	t.last = fraction
	t.onProgress(fraction)
}

func (t *progressTracker) finish() {
	if t.onProgress == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.finished = true
	t.last = 1
	t.onProgress(1.0)
}
