// Package nullsink provides a coded sink that discards its input.
package nullsink

import "github.com/user/vaencoder/pkg/ports"

// Sink counts and discards coded frames.
type Sink struct {
	frames int
	bytes  int64
}

// New creates a new null sink.
func New() *Sink {
	return &Sink{}
}

func (s *Sink) WriteFrame(index int, data []byte) error {
	s.frames++
	s.bytes += int64(len(data))
	return nil
}

func (s *Sink) Close() error { return nil }

// Frames returns the number of frames received.
func (s *Sink) Frames() int { return s.frames }

// Bytes returns the number of bytes received.
func (s *Sink) Bytes() int64 { return s.bytes }

var _ ports.CodedSink = (*Sink)(nil)
