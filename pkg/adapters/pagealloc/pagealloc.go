// Package pagealloc provides page-aligned frame memory: plain user-pointer
// buffers and a gralloc-style ports.BufferAllocator.
package pagealloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/user/vaencoder/pkg/ports"
)

const (
	// PageSize is the alignment of every buffer handed out.
	PageSize = 4096

	// StrideAlignment is the row alignment the allocator applies.
	StrideAlignment = 64
)

// Aligned returns a zeroed slice of size bytes whose first element sits on an
// align-byte boundary. align must be a power of two.
func Aligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	raw := make([]byte, size+align)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int((uintptr(align) - addr%uintptr(align)) % uintptr(align))
	return raw[off : off+size : off+size]
}

// Frame returns page-aligned memory for one frame.
func Frame(stride, height int, format ports.RTFormat) []byte {
	return Aligned(ports.FrameSize(stride, height, format), PageSize)
}

// AlignStride rounds width up to StrideAlignment.
func AlignStride(width int) int {
	return (width + StrideAlignment - 1) &^ (StrideAlignment - 1)
}

type graphic struct {
	desc   ports.GraphicBuffer
	data   []byte
	locked bool
}

// Allocator is an in-process gralloc stand-in. Buffers are page aligned and
// their stride is rounded up to StrideAlignment.
type Allocator struct {
	mu      sync.Mutex
	next    ports.GraphicHandle
	buffers map[ports.GraphicHandle]*graphic
}

// NewAllocator creates an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{buffers: make(map[ports.GraphicHandle]*graphic)}
}

func (a *Allocator) Allocate(width, height int, format ports.RTFormat) (ports.GraphicBuffer, error) {
	if width <= 0 || height <= 0 {
		return ports.GraphicBuffer{}, fmt.Errorf("pagealloc: invalid geometry %dx%d", width, height)
	}
	if format != ports.RTFormatYUV420 && format != ports.RTFormatYUV422 {
		return ports.GraphicBuffer{}, fmt.Errorf("pagealloc: unsupported format %s", format)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.next++
	stride := AlignStride(width)
	g := &graphic{
		desc: ports.GraphicBuffer{
			Handle: a.next,
			Width:  width,
			Height: height,
			Stride: stride,
			Format: format,
		},
		data: Frame(stride, height, format),
	}
	a.buffers[g.desc.Handle] = g
	return g.desc, nil
}

func (a *Allocator) Lock(h ports.GraphicHandle) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, ok := a.buffers[h]
	if !ok {
		return nil, fmt.Errorf("pagealloc: unknown buffer %d", h)
	}
	if g.locked {
		return nil, fmt.Errorf("pagealloc: buffer %d already locked", h)
	}
	g.locked = true
	return g.data, nil
}

func (a *Allocator) Unlock(h ports.GraphicHandle) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, ok := a.buffers[h]
	if !ok {
		return fmt.Errorf("pagealloc: unknown buffer %d", h)
	}
	if !g.locked {
		return fmt.Errorf("pagealloc: buffer %d not locked", h)
	}
	g.locked = false
	return nil
}

// Memory returns the backing memory of h without locking it. Surfaces wrap
// this memory; the caller must not write it while an encode is outstanding.
func (a *Allocator) Memory(h ports.GraphicHandle) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, ok := a.buffers[h]
	if !ok {
		return nil, fmt.Errorf("pagealloc: unknown buffer %d", h)
	}
	return g.data, nil
}

func (a *Allocator) Free(h ports.GraphicHandle) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, ok := a.buffers[h]
	if !ok {
		return fmt.Errorf("pagealloc: unknown buffer %d", h)
	}
	if g.locked {
		return fmt.Errorf("pagealloc: buffer %d is locked", h)
	}
	delete(a.buffers, h)
	return nil
}

// Live returns the number of allocated buffers.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffers)
}

var _ ports.BufferAllocator = (*Allocator)(nil)
