package mocks

import (
	"context"
	"sync"

	"github.com/user/framecast/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource. Tests push
// frames with Emit and end the stream with Finish.
type FrameSource struct {
	StartFunc func(ctx context.Context) (<-chan ports.SourceFrame, error)
	StopFunc  func() error

	mu          sync.Mutex
	frames      chan ports.SourceFrame
	finished    bool
	StartCalled bool
	StopCalled  bool
}

// NewFrameSource creates a new mock FrameSource.
func NewFrameSource() *FrameSource {
	return &FrameSource{
		frames: make(chan ports.SourceFrame, 100),
	}
}

func (m *FrameSource) Start(ctx context.Context) (<-chan ports.SourceFrame, error) {
	m.mu.Lock()
	m.StartCalled = true
	m.mu.Unlock()
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	return m.frames, nil
}

func (m *FrameSource) Stop() error {
	m.mu.Lock()
	m.StopCalled = true
	m.mu.Unlock()
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	m.Finish()
	return nil
}

// Emit queues a frame for the consumer.
func (m *FrameSource) Emit(frame ports.SourceFrame) {
	m.frames <- frame
}

// Finish closes the frame channel. Safe to call more than once.
func (m *FrameSource) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.finished {
		m.finished = true
		close(m.frames)
	}
}

var _ ports.FrameSource = (*FrameSource)(nil)
