package mocks

import (
	"sort"
	"sync"

	"github.com/user/vaencoder/pkg/ports"
)

// CodedSink is a mock implementation of ports.CodedSink.
type CodedSink struct {
	mu sync.RWMutex

	Frames map[int][]byte
	Closed bool

	WriteFrameFunc func(index int, data []byte) error
}

// NewCodedSink creates a new mock CodedSink.
func NewCodedSink() *CodedSink {
	return &CodedSink{Frames: make(map[int][]byte)}
}

func (m *CodedSink) WriteFrame(index int, data []byte) error {
	if m.WriteFrameFunc != nil {
		return m.WriteFrameFunc(index, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = append([]byte(nil), data...)
	return nil
}

func (m *CodedSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Indexes returns the written frame indexes in ascending order.
func (m *CodedSink) Indexes() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, 0, len(m.Frames))
	for i := range m.Frames {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

var _ ports.CodedSink = (*CodedSink)(nil)
