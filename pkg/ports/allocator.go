package ports

// GraphicHandle identifies a platform graphics buffer.
type GraphicHandle uint64

// GraphicBuffer describes an allocated platform graphics buffer.
type GraphicBuffer struct {
	Handle GraphicHandle
	Width  int
	Height int
	Stride int
	Format RTFormat
}

// BufferAllocator abstracts a gralloc-style platform buffer allocator.
type BufferAllocator interface {
	// Allocate reserves a pixel buffer for the given geometry and format.
	Allocate(width, height int, format RTFormat) (GraphicBuffer, error)

	// Lock maps the buffer for CPU access.
	Lock(h GraphicHandle) ([]byte, error)

	// Unlock ends CPU access started by Lock.
	Unlock(h GraphicHandle) error

	// Free releases the buffer.
	Free(h GraphicHandle) error
}
