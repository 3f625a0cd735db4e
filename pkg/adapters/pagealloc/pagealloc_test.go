package pagealloc

import (
	"testing"
	"unsafe"

	"github.com/user/vaencoder/pkg/ports"
)

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func TestAligned(t *testing.T) {
	for _, size := range []int{1, 100, 4096, 1382400} {
		b := Aligned(size, PageSize)
		if len(b) != size || cap(b) != size {
			t.Errorf("Aligned(%d): len %d cap %d", size, len(b), cap(b))
		}
		if addr(b)%PageSize != 0 {
			t.Errorf("Aligned(%d) = 0x%x, not page aligned", size, addr(b))
		}
	}
	if Aligned(0, PageSize) != nil {
		t.Error("expected nil for zero size")
	}
}

func TestFrame(t *testing.T) {
	b := Frame(1280, 720, ports.RTFormatYUV420)
	if len(b) != 1280*720*3/2 {
		t.Errorf("unexpected frame size %d", len(b))
	}
	b = Frame(1280, 720, ports.RTFormatYUV422)
	if len(b) != 1280*720*2 {
		t.Errorf("unexpected 4:2:2 frame size %d", len(b))
	}
}

func TestAllocator_Lifecycle(t *testing.T) {
	a := NewAllocator()

	gb, err := a.Allocate(641, 480, ports.RTFormatYUV420)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if gb.Stride != 704 {
		t.Errorf("expected stride 704, got %d", gb.Stride)
	}

	data, err := a.Lock(gb.Handle)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if addr(data)%PageSize != 0 {
		t.Error("locked memory not page aligned")
	}
	if _, err := a.Lock(gb.Handle); err == nil {
		t.Error("expected double lock to fail")
	}
	if err := a.Free(gb.Handle); err == nil {
		t.Error("expected free of a locked buffer to fail")
	}
	if err := a.Unlock(gb.Handle); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if err := a.Unlock(gb.Handle); err == nil {
		t.Error("expected unlock of an unlocked buffer to fail")
	}

	mem, err := a.Memory(gb.Handle)
	if err != nil || &mem[0] != &data[0] {
		t.Error("Memory must return the locked memory")
	}

	if err := a.Free(gb.Handle); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if a.Live() != 0 {
		t.Errorf("expected no live buffers, got %d", a.Live())
	}
}

func TestAllocator_Rejects(t *testing.T) {
	a := NewAllocator()
	if _, err := a.Allocate(0, 10, ports.RTFormatYUV420); err == nil {
		t.Error("expected zero width to fail")
	}
	if _, err := a.Allocate(64, 64, ports.RTFormat(0x4)); err == nil {
		t.Error("expected unknown format to fail")
	}
	if _, err := a.Lock(99); err == nil {
		t.Error("expected unknown handle to fail")
	}
}
