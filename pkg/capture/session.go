// Package capture owns the lifecycle of one live recording: frames pushed by
// a producer are forwarded to an encoder subprocess, with drop-newest
// backpressure and a deterministic end-of-session protocol.
package capture

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framecast/pkg/ports"
)

// State is the lifecycle phase of a capture session.
type State int

const (
	// StateIdle is the zero value; a started session never reports it.
	StateIdle State = iota
	// StateCapturing accepts frames.
	StateCapturing
	// StateEnding has closed the encoder input and waits for drain.
	StateEnding
	// StateEnded finished cleanly.
	StateEnded
	// StateErrored saw the encoder subprocess fail.
	StateErrored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Options configures a capture session.
type Options struct {
	// OutputPath is the file the encoder writes. Required.
	OutputPath string

	// Quality is the CRF value for the capture encoder. Zero selects the
	// encoder default.
	Quality int

	// OnError is invoked out of band when the encoder subprocess fails
	// and reporting is not suppressed. It fires even when no caller is
	// waiting in End yet. May be nil.
	OnError func(error)

	// ReportEmptyCaptureErrors disables the empty-capture suppression.
	// An encoder whose input is closed after zero bytes reports a benign
	// end-of-input error; by default any failure following an empty
	// capture is swallowed and End resolves cleanly. Set this to surface
	// those failures instead.
	ReportEmptyCaptureErrors bool

	// Logger receives session diagnostics. Defaults to none.
	Logger ports.Logger
}

// Session is one live recording. A session owns its encoder subprocess
// exclusively; nothing else may write to the subprocess input.
type Session struct {
	proc    ports.EncoderProcess
	onError func(error)
	logger  ports.Logger

	startedAt   time.Time
	skipped     atomic.Uint64
	reportEmpty bool

	mu              sync.Mutex
	state           State
	wantsMoreData   bool
	hasWrittenFrame bool
	suppressErrors  bool
	frameCh         chan []byte
	frameChClosed   bool

	done     chan struct{}
	finalErr error
}

// Start spawns the encoder subprocess and returns a session that is already
// accepting frames; it does not wait for the subprocess to report readiness.
func Start(ctx context.Context, runner ports.EncoderRunner, opts Options) (*Session, error) {
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("capture: output path required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	logger = logger.WithComponent("capture")

	s := &Session{
		onError:     opts.OnError,
		logger:      logger,
		reportEmpty: opts.ReportEmptyCaptureErrors,
		frameCh:     make(chan []byte, 1),
		done:        make(chan struct{}),
	}

	spec := ports.EncoderSpec{
		OutputPath: opts.OutputPath,
		Quality:    opts.Quality,
	}
	events := ports.EncoderEvents{
		OnStart: func(commandLine string) {
			logger.Debug("Encoder started: %s", commandLine)
		},
		OnStderr: func(line string) {
			logger.Debug("%s", line)
		},
	}

	proc, err := runner.Spawn(ctx, spec, events)
	if err != nil {
		return nil, fmt.Errorf("spawn capture encoder: %w", err)
	}
	s.proc = proc
	s.state = StateCapturing
	s.wantsMoreData = true
	s.startedAt = time.Now()

	go s.writeLoop()
	go s.watchProcess()
	return s, nil
}

// WriteFrame pushes one frame into the session. It never blocks and never
// fails: frames arriving while the session is ending, ended, or errored are
// dropped silently, and frames arriving while the encoder pipe is blocked
// are counted in SkippedFrames and discarded. Queued frames reach the
// encoder in call order; the session takes ownership of the slice.
func (s *Session) WriteFrame(frame []byte) {
	s.mu.Lock()
	if s.state != StateCapturing {
		s.mu.Unlock()
		return
	}
	s.hasWrittenFrame = true
	if !s.wantsMoreData {
		s.mu.Unlock()
		s.skipped.Add(1)
		return
	}
	// Gate open implies the writer is idle and the channel is empty, so
	// this send cannot block.
	s.wantsMoreData = false
	s.frameCh <- frame
	s.mu.Unlock()
}

// End closes the encoder input and waits for the subprocess to drain and
// exit. It is idempotent: every call observes the same outcome. When no
// frame was ever written, the encoder's resulting end-of-input failure is
// suppressed (unless ReportEmptyCaptureErrors was set) and End resolves
// cleanly once the process terminates.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateCapturing {
		s.state = StateEnding
		s.wantsMoreData = false
		if !s.hasWrittenFrame && !s.reportEmpty {
			s.suppressErrors = true
		}
		s.closeFrameChLocked()
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return s.finalErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State reports the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartedAt reports when the session began capturing.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// SkippedFrames reports how many frames were discarded under backpressure.
func (s *Session) SkippedFrames() uint64 {
	return s.skipped.Load()
}

// closeFrameChLocked signals the writer that no more frames will arrive.
// Callers must hold mu.
func (s *Session) closeFrameChLocked() {
	if !s.frameChClosed {
		s.frameChClosed = true
		close(s.frameCh)
	}
}

// writeLoop is the single writer to the encoder input. It forwards frames
// in arrival order and reopens the gate after each completed write; while a
// write is in flight the gate stays blocked, which is what makes WriteFrame
// drop instead of queue.
func (s *Session) writeLoop() {
	stdin := s.proc.Input()
	for frame := range s.frameCh {
		_, err := stdin.Write(frame)
		s.mu.Lock()
		if err != nil {
			// The pipe breaks when the encoder dies mid-run; the
			// process watcher surfaces the real failure. Keep
			// draining so the channel never backs up.
			s.wantsMoreData = false
		} else if s.state == StateCapturing {
			s.wantsMoreData = true
		}
		s.mu.Unlock()
	}
	stdin.Close()
}

// watchProcess resolves the session outcome when the subprocess exits.
func (s *Session) watchProcess() {
	<-s.proc.Done()
	err := s.proc.Err()

	s.mu.Lock()
	s.wantsMoreData = false
	suppress := s.suppressErrors
	if err != nil && !suppress {
		s.state = StateErrored
		s.finalErr = err
	} else {
		s.state = StateEnded
	}
	// A failure before End leaves the writer ranging over an open
	// channel; release it.
	s.closeFrameChLocked()
	onError := s.onError
	s.mu.Unlock()

	if err != nil {
		if suppress {
			s.logger.Debug("Suppressed empty-capture encoder error: %s", err)
		} else {
			s.logger.Error("Capture encoder failed: %s", err)
			if onError != nil {
				onError(err)
			}
		}
	}
	close(s.done)
}

// noopLogger satisfies ports.Logger when no logger is supplied.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func (noopLogger) WithComponent(string) ports.Logger { return noopLogger{} }
