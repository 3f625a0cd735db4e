package imageencoder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/user/vaencoder/pkg/adapters/softva"
	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/mocks"
	"github.com/user/vaencoder/pkg/ports"
)

func encodeOnce(t *testing.T, driver ports.Driver) []byte {
	t.Helper()
	e := withContext(t, driver, 256, 128)
	if err := e.Encode(0, 75); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	dst := make([]byte, e.CodedBufferSize())
	n, err := e.GetCoded(dst)
	if err != nil {
		t.Fatalf("GetCoded failed: %v", err)
	}
	return dst[:n]
}

func TestGetCoded_SegmentedOutput(t *testing.T) {
	whole := encodeOnce(t, softva.NewWithOptions(softva.Options{SegmentSize: 1 << 20}))
	split := encodeOnce(t, softva.NewWithOptions(softva.Options{SegmentSize: 64}))

	if len(whole) == 0 {
		t.Fatal("no coded data")
	}
	if !bytes.Equal(whole, split) {
		t.Errorf("segmented output differs: %d vs %d bytes", len(whole), len(split))
	}
}

func TestGetCoded_Preconditions(t *testing.T) {
	e := withContext(t, softva.New(), 64, 32)
	if _, err := e.GetCoded(make([]byte, e.CodedBufferSize())); !errors.Is(err, encerr.ErrInvalidState) {
		t.Errorf("no job: expected ErrInvalidState, got %v", err)
	}

	if err := e.Encode(0, DefaultQuality); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := e.GetCoded(make([]byte, e.CodedBufferSize()-1)); !errors.Is(err, encerr.ErrInvalidParameter) {
		t.Errorf("small buffer: expected ErrInvalidParameter, got %v", err)
	}
	if e.State() != Encoding {
		t.Fatalf("a rejected GetCoded must keep the job, got %s", e.State())
	}
	if _, err := e.GetCoded(make([]byte, e.CodedBufferSize())); err != nil {
		t.Errorf("GetCoded failed: %v", err)
	}
}

func TestGetCoded_FailuresEndJob(t *testing.T) {
	tests := []struct {
		name   string
		arm    func(d *mocks.Driver)
		status ports.Status
	}{
		{
			name: "sync fails",
			arm: func(d *mocks.Driver) {
				d.SyncSurfaceFunc = func(ports.Display, ports.SurfaceID) error { return ports.StatusEncodingError }
			},
			status: ports.StatusEncodingError,
		},
		{
			name: "map fails",
			arm: func(d *mocks.Driver) {
				d.MapBufferFunc = func(ports.Display, ports.BufferID) (any, error) { return nil, ports.StatusInvalidBuffer }
			},
			status: ports.StatusInvalidBuffer,
		},
		{
			name: "unmap fails",
			arm: func(d *mocks.Driver) {
				d.UnmapBufferFunc = func(ports.Display, ports.BufferID) error { return ports.StatusOperationFailed }
			},
			status: ports.StatusOperationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mocks.NewDriver(softva.New())
			e := withContext(t, d, 64, 32)
			if err := e.Encode(0, DefaultQuality); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			tt.arm(d)
			_, err := e.GetCoded(make([]byte, e.CodedBufferSize()))
			if !errors.Is(err, encerr.ErrDriverFailure) || encerr.StatusOf(err) != tt.status {
				t.Fatalf("expected driver status %s, got %v", tt.status, err)
			}
			if e.State() != ContextCreated {
				t.Errorf("expected the job ended, got %s", e.State())
			}
			if err := e.DestroySourceSurface(0); err != nil {
				t.Errorf("surface still reserved after failed GetCoded: %v", err)
			}
		})
	}
}

func TestCopySegments(t *testing.T) {
	list := &ports.CodedSegment{Buf: []byte("ab"), Next: &ports.CodedSegment{Buf: []byte("cde"), Next: &ports.CodedSegment{}}}

	dst := make([]byte, 8)
	n, err := CopySegments(dst, list)
	if err != nil || n != 5 || string(dst[:n]) != "abcde" {
		t.Errorf("expected abcde, got %q (%v)", dst[:n], err)
	}

	n, err = CopySegments(make([]byte, 4), list)
	if !errors.Is(err, encerr.ErrAllocationFailed) {
		t.Errorf("overflow: expected ErrAllocationFailed, got %v", err)
	}
	if n != 2 {
		t.Errorf("overflow: expected 2 bytes copied before the failing segment, got %d", n)
	}

	_, err = CopySegments(dst, []byte("raw"))
	if !errors.Is(err, encerr.ErrDriverFailure) || encerr.StatusOf(err) != ports.StatusInvalidBuffer {
		t.Errorf("wrong mapping type: expected invalid-buffer driver failure, got %v", err)
	}

	if n, err := CopySegments(dst, nil); n != 0 || err != nil {
		t.Errorf("nil mapping: expected 0 bytes, got %d (%v)", n, err)
	}
}
