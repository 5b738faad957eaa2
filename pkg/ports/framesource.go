package ports

import "context"

// SourceFrame is a single captured image pushed into the pipeline.
type SourceFrame struct {
	// TimestampMs is the capture time in milliseconds since the source
	// started.
	TimestampMs int

	// Data is the JPEG-encoded image.
	Data []byte
}

// FrameSource produces a live sequence of frames at an unpredictable rate.
// Implementations decide when the sequence ends (page loaded, duration
// elapsed) and close the channel; Stop halts production early.
type FrameSource interface {
	// Start begins producing frames. The returned channel is closed when
	// the source is exhausted or stopped.
	Start(ctx context.Context) (<-chan SourceFrame, error)

	// Stop halts production and releases the source's resources. Safe to
	// call more than once.
	Stop() error
}
