package imageencoder

import (
	"errors"
	"testing"

	"github.com/user/vaencoder/pkg/adapters/softva"
	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/mocks"
	"github.com/user/vaencoder/pkg/ports"
)

func TestCodedBufferCapacity(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{1280, 720, 576640},
		{641, 480, 197440},
		{100, 100, 8480},
		{16, 16, 800},
	}
	for _, tt := range tests {
		if got := CodedBufferCapacity(tt.w, tt.h); got != tt.want {
			t.Errorf("CodedBufferCapacity(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
		if got := CodedBufferCapacity(tt.w, tt.h); got%16 != 0 {
			t.Errorf("CodedBufferCapacity(%d, %d) = %d is not 16-byte aligned", tt.w, tt.h, got)
		}
	}
}

func TestCreateContext_Preconditions(t *testing.T) {
	e := newInitialized(t, softva.New())
	if _, err := e.CreateContext(0); !errors.Is(err, encerr.ErrInvalidParameter) {
		t.Errorf("missing surface: expected ErrInvalidParameter, got %v", err)
	}

	e = withContext(t, softva.New(), 64, 32)
	if _, err := e.CreateContext(0); !errors.Is(err, encerr.ErrInvalidState) {
		t.Errorf("second context: expected ErrInvalidState, got %v", err)
	}
}

func TestCreateContext_RollbackOnBufferFailure(t *testing.T) {
	drv := softva.New()
	d := mocks.NewDriver(drv)
	e := newInitialized(t, d)
	if _, err := e.CreateSourceSurface(ports.MemoryGralloc, make([]byte, 64*32*3/2), 64, 32, 64, ports.RTFormatYUV420); err != nil {
		t.Fatalf("CreateSourceSurface failed: %v", err)
	}

	d.CreateBufferFunc = func(ports.Display, ports.ContextID, ports.BufferType, int, any) (ports.BufferID, error) {
		return 0, ports.StatusAllocationFailed
	}
	_, err := e.CreateContext(0)
	if !errors.Is(err, encerr.ErrDriverFailure) || encerr.StatusOf(err) != ports.StatusAllocationFailed {
		t.Fatalf("expected coded buffer allocation failure, got %v", err)
	}
	if e.State() != Initialized || e.CodedBufferSize() != 0 {
		t.Errorf("expected initialized with no context, got %s", e.State())
	}
	if d.CallCount("DestroyContext") != 1 || d.CallCount("DestroyConfig") != 1 {
		t.Errorf("expected context and config rolled back, calls: %v", d.Calls())
	}
	configs, contexts, _, _ := drv.Objects(e.display)
	if configs != 0 || contexts != 0 {
		t.Errorf("leaked %d configs and %d contexts", configs, contexts)
	}

	d.CreateBufferFunc = nil
	if _, err := e.CreateContext(0); err != nil {
		t.Errorf("retry after rollback failed: %v", err)
	}
}

func TestCreateContext_RollbackOnContextFailure(t *testing.T) {
	drv := softva.New()
	d := mocks.NewDriver(drv)
	e := newInitialized(t, d)
	e.CreateSourceSurface(ports.MemoryGralloc, make([]byte, 64*32*3/2), 64, 32, 64, ports.RTFormatYUV420)

	d.CreateContextFunc = func(ports.Display, ports.ConfigID, int, int, int, []ports.SurfaceID) (ports.ContextID, error) {
		return 0, ports.StatusResolutionNotSupported
	}
	if _, err := e.CreateContext(0); encerr.StatusOf(err) != ports.StatusResolutionNotSupported {
		t.Fatalf("expected context creation failure, got %v", err)
	}
	if d.CallCount("DestroyContext") != 0 || d.CallCount("DestroyConfig") != 1 {
		t.Errorf("expected only the config rolled back, calls: %v", d.Calls())
	}
	if configs, _, _, _ := drv.Objects(e.display); configs != 0 {
		t.Errorf("leaked %d configs", configs)
	}
}

func TestCreateContext_MismatchedSurface(t *testing.T) {
	e := withContext(t, softva.New(), 64, 32)

	seq, err := e.CreateSourceSurface(ports.MemoryGralloc, make([]byte, 128*64*3/2), 128, 64, 128, ports.RTFormatYUV420)
	if err != nil {
		t.Fatalf("CreateSourceSurface failed: %v", err)
	}
	if err := e.Encode(seq, DefaultQuality); !errors.Is(err, encerr.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for a mismatched surface, got %v", err)
	}
	if e.State() != ContextCreated {
		t.Errorf("expected context-created, got %s", e.State())
	}
}

func TestDestroyContext(t *testing.T) {
	e := newInitialized(t, softva.New())
	if err := e.DestroyContext(); !errors.Is(err, encerr.ErrInvalidState) {
		t.Errorf("no context: expected ErrInvalidState, got %v", err)
	}

	e = withContext(t, softva.New(), 64, 32)
	if err := e.Encode(0, DefaultQuality); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := e.DestroyContext(); !errors.Is(err, encerr.ErrInvalidState) {
		t.Errorf("encoding: expected ErrInvalidState, got %v", err)
	}
	if _, err := e.GetCoded(make([]byte, e.CodedBufferSize())); err != nil {
		t.Fatalf("GetCoded failed: %v", err)
	}
	if err := e.DestroyContext(); err != nil {
		t.Errorf("DestroyContext failed: %v", err)
	}
	if e.State() != Initialized {
		t.Errorf("expected initialized, got %s", e.State())
	}

	// A new context can be bound after the old one is gone.
	if _, err := e.CreateContext(0); err != nil {
		t.Errorf("CreateContext after destroy failed: %v", err)
	}
}

func TestDestroyContext_Aggregates(t *testing.T) {
	d := mocks.NewDriver(softva.New())
	e := withContext(t, d, 64, 32)

	d.DestroyBufferFunc = func(ports.Display, ports.BufferID) error { return ports.StatusInvalidBuffer }
	d.DestroyConfigFunc = func(ports.Display, ports.ConfigID) error { return ports.StatusInvalidConfig }

	err := e.DestroyContext()
	if err == nil {
		t.Fatal("expected an aggregated error")
	}
	if want := ports.StatusInvalidBuffer | ports.StatusInvalidConfig; encerr.CombinedStatus(err) != want {
		t.Errorf("expected combined status 0x%x, got 0x%x", uint32(want), uint32(encerr.CombinedStatus(err)))
	}
	if d.CallCount("DestroyContext") != 1 {
		t.Errorf("every teardown step must run, calls: %v", d.Calls())
	}
	if e.State() != Initialized || e.CodedBufferSize() != 0 {
		t.Errorf("context not cleared after failed teardown")
	}
}
