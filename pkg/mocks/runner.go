package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/user/framecast/pkg/ports"
)

// EncoderRunner is a mock implementation of ports.EncoderRunner.
type EncoderRunner struct {
	SpawnFunc func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error)

	mu sync.Mutex
	// Recorded calls for verification
	SpawnCalls []SpawnCall
	// Processes returned by Spawn, in call order. When empty a fresh
	// EncoderProcess is created per call.
	Processes []*EncoderProcess
}

// SpawnCall records a call to Spawn along with the events the caller
// registered, so tests can fire them.
type SpawnCall struct {
	Spec    ports.EncoderSpec
	Events  ports.EncoderEvents
	Process *EncoderProcess
}

func (m *EncoderRunner) Spawn(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
	if m.SpawnFunc != nil {
		return m.SpawnFunc(ctx, spec, events)
	}

	m.mu.Lock()
	var proc *EncoderProcess
	if len(m.SpawnCalls) < len(m.Processes) {
		proc = m.Processes[len(m.SpawnCalls)]
	} else {
		proc = NewEncoderProcess()
	}
	m.SpawnCalls = append(m.SpawnCalls, SpawnCall{Spec: spec, Events: events, Process: proc})
	m.mu.Unlock()

	if events.OnStart != nil {
		events.OnStart("ffmpeg (mock)")
	}
	return proc, nil
}

// LastCall returns the most recent Spawn call.
func (m *EncoderRunner) LastCall() (SpawnCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SpawnCalls) == 0 {
		return SpawnCall{}, false
	}
	return m.SpawnCalls[len(m.SpawnCalls)-1], true
}

// EncoderProcess is a mock implementation of ports.EncoderProcess. Tests
// drive it by calling Finish to simulate process exit.
type EncoderProcess struct {
	// WriteFunc overrides input writes. The default appends to the
	// internal buffer.
	WriteFunc func(p []byte) (int, error)

	mu          sync.Mutex
	written     []byte
	inputClosed bool
	killed      bool
	err         error
	done        chan struct{}
	finished    bool
}

// NewEncoderProcess creates a running mock process.
func NewEncoderProcess() *EncoderProcess {
	return &EncoderProcess{done: make(chan struct{})}
}

func (m *EncoderProcess) Input() io.WriteCloser {
	return processInput{m}
}

type processInput struct{ p *EncoderProcess }

func (w processInput) Write(p []byte) (int, error) {
	if w.p.WriteFunc != nil {
		return w.p.WriteFunc(p)
	}
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	if w.p.inputClosed {
		return 0, fmt.Errorf("input closed")
	}
	w.p.written = append(w.p.written, p...)
	return len(p), nil
}

func (w processInput) Close() error {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	w.p.inputClosed = true
	return nil
}

func (m *EncoderProcess) Done() <-chan struct{} {
	return m.done
}

func (m *EncoderProcess) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *EncoderProcess) Kill() error {
	m.mu.Lock()
	m.killed = true
	m.mu.Unlock()
	// Killed processes report a nil error, like the real runner
	m.Finish(nil)
	return nil
}

// Finish simulates process exit with the given error. Safe to call more
// than once; only the first call takes effect.
func (m *EncoderProcess) Finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return
	}
	m.finished = true
	m.err = err
	close(m.done)
}

// Written returns the bytes written to the process input so far.
func (m *EncoderProcess) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.written))
	copy(out, m.written)
	return out
}

// InputClosed reports whether the input writer has been closed.
func (m *EncoderProcess) InputClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputClosed
}

// Killed reports whether Kill was called.
func (m *EncoderProcess) Killed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.killed
}

var _ ports.EncoderRunner = (*EncoderRunner)(nil)
var _ ports.EncoderProcess = (*EncoderProcess)(nil)
