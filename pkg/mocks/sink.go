package mocks

import (
	"sync"

	"github.com/user/framecast/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SummaryJSON []byte
	RawFrames   map[int][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:   enabled,
		RawFrames: make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveRawFrame(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RawFrames[index] = data
	return nil
}

func (m *DebugSink) SaveSummaryJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryJSON = data
	return nil
}

// FrameCount returns how many frames were saved.
func (m *DebugSink) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.RawFrames)
}

var _ ports.DebugSink = (*DebugSink)(nil)
