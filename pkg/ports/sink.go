package ports

// CodedSink receives coded output, one frame at a time.
type CodedSink interface {
	// WriteFrame stores the coded data of frame index.
	WriteFrame(index int, data []byte) error

	// Close flushes and releases the sink.
	Close() error
}
