package ports

import (
	"context"
	"fmt"
	"io"
)

// CodecData describes the structural metadata of a media source as reported
// by the encoder's diagnostics.
type CodecData struct {
	// DurationSeconds is the container duration, or 0 when unknown.
	DurationSeconds float64
	// CodecName is the video codec identifier (e.g. "h264").
	CodecName string
}

// EncoderSpec declares a single encoder invocation. The argument list built
// from a spec is deterministic: equal specs always produce the same command
// line.
type EncoderSpec struct {
	// InputPath names a source file. When empty, input is a stream of
	// JPEG images piped into the subprocess's stdin.
	InputPath string

	// OutputPath is the destination file. When empty the encoded output
	// is discarded, which is the metadata-probe mode: the process decodes
	// the source and reports diagnostics without materializing a file.
	OutputPath string

	// Quality is the CRF rate-control value. Zero selects the encoder
	// default.
	Quality int

	// Preset selects the encoder speed/efficiency trade-off. Empty
	// selects a mode-appropriate default (ultrafast for live capture,
	// fast otherwise).
	Preset string
}

// EncoderEvents receives diagnostic events from a running encoder
// subprocess. Any callback may be nil. Callbacks are invoked from the
// runner's reader goroutine, one at a time.
type EncoderEvents struct {
	// OnStart fires once the subprocess has been launched, with the full
	// command line.
	OnStart func(commandLine string)

	// OnStderr fires for every diagnostic line the encoder writes. The
	// lines are informational; a stderr line never signals failure by
	// itself.
	OnStderr func(line string)

	// OnCodecInfo fires at most once, when source metadata has been
	// parsed from the encoder's diagnostics.
	OnCodecInfo func(data CodecData)

	// OnProgress fires periodically with the encoder-reported timemark
	// (playback position, "HH:MM:SS.cc").
	OnProgress func(timemark string)
}

// EncoderProcess is a handle on one running encoder subprocess. It is owned
// by exactly one capture session, compression job, or probe at a time, and
// the owner is the only writer to its input.
type EncoderProcess interface {
	// Input returns the stdin sink for piped-input specs, nil otherwise.
	Input() io.WriteCloser

	// Done is closed once the subprocess has exited and been reaped.
	Done() <-chan struct{}

	// Err reports the terminal outcome. It is valid once Done is closed:
	// nil for a clean exit or a requested Kill, an *EncoderError
	// otherwise.
	Err() error

	// Kill terminates the subprocess early. The process is still reaped
	// and Done still closes.
	Kill() error
}

// EncoderRunner spawns encoder subprocesses. The runner guarantees every
// spawned process is reaped, whether it exits normally, fails, or is killed.
type EncoderRunner interface {
	Spawn(ctx context.Context, spec EncoderSpec, events EncoderEvents) (EncoderProcess, error)
}

// EncoderError is the terminal failure of an encoder subprocess. It carries
// the tails of the captured output streams for reporting.
type EncoderError struct {
	Err    error
	Stdout string
	Stderr string
}

func (e *EncoderError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("encoder failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("encoder failed: %v", e.Err)
}

func (e *EncoderError) Unwrap() error {
	return e.Err
}
