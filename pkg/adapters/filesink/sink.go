// Package filesink provides file-based coded sinks.
package filesink

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/user/vaencoder/pkg/ports"
)

// FrameSink writes every frame to its own file in a directory.
type FrameSink struct {
	dir string
	ext string
	fs  ports.FileSystem
}

// NewFrameSink creates a sink writing dir/frame-NNNN.<ext>.
func NewFrameSink(dir, ext string, fs ports.FileSystem) (*FrameSink, error) {
	if err := fs.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FrameSink{dir: dir, ext: ext, fs: fs}, nil
}

// FramePath returns the file frame index is written to.
func (s *FrameSink) FramePath(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame-%04d.%s", index, s.ext))
}

func (s *FrameSink) WriteFrame(index int, data []byte) error {
	return s.fs.WriteFile(s.FramePath(index), data)
}

func (s *FrameSink) Close() error {
	return nil
}

// StreamSink appends every frame to one file, in call order.
type StreamSink struct {
	w       io.WriteCloser
	written int64
}

// NewStreamSink creates path and returns a sink appending to it.
func NewStreamSink(path string, fs ports.FileSystem) (*StreamSink, error) {
	w, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}
	return &StreamSink{w: w}, nil
}

func (s *StreamSink) WriteFrame(index int, data []byte) error {
	n, err := s.w.Write(data)
	s.written += int64(n)
	if err != nil {
		return fmt.Errorf("write frame %d: %w", index, err)
	}
	return nil
}

// Written returns the number of bytes written so far.
func (s *StreamSink) Written() int64 {
	return s.written
}

func (s *StreamSink) Close() error {
	return s.w.Close()
}

var (
	_ ports.CodedSink = (*FrameSink)(nil)
	_ ports.CodedSink = (*StreamSink)(nil)
)
