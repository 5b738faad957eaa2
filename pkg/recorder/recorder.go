// Package recorder coordinates a frame source, the capture session and the
// optional compression pass into a single recording run.
package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/framecast/pkg/adapters/mp4probe"
	"github.com/user/framecast/pkg/capture"
	"github.com/user/framecast/pkg/compress"
	"github.com/user/framecast/pkg/ports"
	"github.com/user/framecast/pkg/probe"
)

// Config contains all configuration for a recording run.
type Config struct {
	// Output
	OutputPath string

	// Capture
	Quality   int // CRF for the capture pass (0 = encoder default)
	TimeoutMs int

	// Compression. Zero disables the second pass.
	CompressionLevel int

	// ReportEmptyCaptureErrors surfaces encoder failures even when no
	// frame was ever written. The default swallows them, since an
	// encoder fed nothing usually exits unhappily.
	ReportEmptyCaptureErrors bool
}

// Summary describes a finished recording.
type Summary struct {
	OutputPath       string  `json:"outputPath"`
	Frames           int     `json:"frames"`
	SkippedFrames    uint64  `json:"skippedFrames"`
	DurationMs       int64   `json:"durationMs"`
	CompressionLevel int     `json:"compressionLevel,omitempty"`
	OutputBytes      int64   `json:"outputBytes,omitempty"`
	CaptureError     string  `json:"captureError,omitempty"`
	VideoDurationSec float64 `json:"videoDurationSec,omitempty"`
}

// Recorder wires the capture pipeline together.
type Recorder struct {
	runner ports.EncoderRunner
	prober *probe.Prober
	fs     ports.FileSystem
	sink   ports.DebugSink
	logger ports.Logger
}

// New creates a Recorder.
func New(runner ports.EncoderRunner, prober *probe.Prober, fs ports.FileSystem, sink ports.DebugSink, logger ports.Logger) *Recorder {
	return &Recorder{
		runner: runner,
		prober: prober,
		fs:     fs,
		sink:   sink,
		logger: logger,
	}
}

// Record pumps frames from source into a capture session, ends it once the
// source dries up, then optionally compresses the output in place.
func (r *Recorder) Record(ctx context.Context, source ports.FrameSource, cfg Config) (*Summary, error) {
	if cfg.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	if cfg.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	r.logger.Info("Starting capture to %s", cfg.OutputPath)

	var captureErr error
	session, err := capture.Start(ctx, r.runner, capture.Options{
		OutputPath: cfg.OutputPath,
		Quality:    cfg.Quality,
		OnError: func(err error) {
			captureErr = err
			r.logger.Error("Capture encoder failed: %s", err.Error())
		},
		ReportEmptyCaptureErrors: cfg.ReportEmptyCaptureErrors,
		Logger:                   r.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("start capture: %w", err)
	}

	frames, err := source.Start(ctx)
	if err != nil {
		session.End(ctx)
		return nil, fmt.Errorf("start frame source: %w", err)
	}

	started := time.Now()
	frameCount := 0

pump:
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				break pump
			}
			session.WriteFrame(frame.Data)
			if r.sink.Enabled() {
				if err := r.sink.SaveRawFrame(frameCount, frame.Data); err != nil {
					r.logger.Warn("Failed to write output: %s", err.Error())
				}
			}
			frameCount++
		case <-ctx.Done():
			break pump
		}
	}

	source.Stop()

	// End with a fresh context so a run timeout still lets the encoder
	// flush its trailer.
	endCtx, endCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer endCancel()
	if err := session.End(endCtx); err != nil {
		return nil, fmt.Errorf("end capture: %w", err)
	}

	summary := &Summary{
		OutputPath:    cfg.OutputPath,
		Frames:        frameCount,
		SkippedFrames: session.SkippedFrames(),
		DurationMs:    time.Since(started).Milliseconds(),
	}
	if captureErr != nil {
		summary.CaptureError = captureErr.Error()
	}

	r.logger.Info("Capture complete: %d frames", frameCount)
	if summary.SkippedFrames > 0 {
		r.logger.Debug("Skipped %d frames under backpressure", summary.SkippedFrames)
	}

	if cfg.CompressionLevel > 0 && captureErr == nil && frameCount > 0 {
		if err := r.compressOutput(ctx, cfg, summary); err != nil {
			return summary, err
		}
	}

	if data, err := mp4probe.Inspect(cfg.OutputPath); err == nil {
		summary.VideoDurationSec = data.DurationSeconds
	}
	if size, err := r.fs.FileSize(cfg.OutputPath); err == nil {
		summary.OutputBytes = size
	}

	if r.sink.Enabled() {
		if data, err := json.MarshalIndent(summary, "", "  "); err == nil {
			r.sink.SaveSummaryJSON(data)
		}
	}

	r.logger.Info("Output saved to %s", cfg.OutputPath)
	return summary, nil
}

func (r *Recorder) compressOutput(ctx context.Context, cfg Config, summary *Summary) error {
	r.logger.Info("Compressing %s (level %d)", cfg.OutputPath, cfg.CompressionLevel)

	compressor := compress.New(r.runner, r.prober, r.fs, r.logger)
	lastPercent := -1
	err := compressor.Compress(ctx, cfg.OutputPath, cfg.CompressionLevel, func(fraction float64) {
		percent := int(fraction * 100)
		// Log every 10% step to keep output readable
		if percent/10 > lastPercent/10 || percent == 100 {
			r.logger.Debug("Compression progress: %d%%", percent)
		}
		lastPercent = percent
	})
	if err != nil {
		return fmt.Errorf("compress output: %w", err)
	}

	summary.CompressionLevel = cfg.CompressionLevel
	r.logger.Info("Compression complete: %s", cfg.OutputPath)
	return nil
}
