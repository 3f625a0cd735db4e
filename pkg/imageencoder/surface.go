package imageencoder

import (
	"fmt"
	"unsafe"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/ports"
)

// CreateSourceSurface wraps buf as a source surface and returns its sequence
// number. kind selects user-pointer or gralloc memory; user-pointer memory
// must start on a 4096-byte boundary. buf must stay valid and unmodified by
// the caller while an encode of the surface is outstanding.
func (e *Encoder) CreateSourceSurface(kind ports.MemoryType, buf []byte, width, height, stride int, format ports.RTFormat) (int, error) {
	const op = "create source surface"

	if e.state == Uninitialized {
		e.log.Error("CreateSourceSurface rejected: uninitialized")
		return noJob, fail(op, encerr.ErrInvalidState, "encoder not initialized")
	}
	if e.count >= MaxBuffers {
		e.log.Error("CreateSourceSurface rejected: %d surfaces already exist", e.count)
		return noJob, fail(op, encerr.ErrAllocationFailed, "surface table full")
	}
	if kind != ports.MemoryUserPtr && kind != ports.MemoryGralloc {
		e.log.Error("Buffer type 0x%x is not supported", uint32(kind))
		return noJob, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("memory type %s not supported", kind))
	}
	if len(buf) == 0 {
		e.log.Error("The input buffer can't be empty")
		return noJob, fail(op, encerr.ErrInvalidParameter, "nil source buffer")
	}
	if kind == ports.MemoryUserPtr {
		if addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))); addr%UserPtrAlignment != 0 {
			e.log.Error("The user buffer 0x%x is not aligned to %d", addr, UserPtrAlignment)
			return noJob, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("user pointer 0x%x not %d-byte aligned", addr, UserPtrAlignment))
		}
	}
	if stride <= 0 || stride%RequiredStride != 0 {
		e.log.Error("The stride %d is not aligned to %d", stride, RequiredStride)
		return noJob, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("stride %d not a multiple of %d", stride, RequiredStride))
	}
	if width <= 0 || height <= 0 || width > stride {
		e.log.Error("Invalid geometry %dx%d with stride %d", width, height, stride)
		return noJob, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("geometry %dx%d does not fit stride %d", width, height, stride))
	}
	if width%2 != 0 || height%2 != 0 {
		e.log.Error("Only even dimensions are supported, got %dx%d", width, height)
		return noJob, fail(op, encerr.ErrResolutionUnsupported, fmt.Sprintf("odd dimensions %dx%d", width, height))
	}
	if (format != ports.RTFormatYUV420 && format != ports.RTFormatYUV422) || format&e.formats == 0 {
		e.log.Error("The image format %s is not supported", format)
		return noJob, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("image format %s not supported", format))
	}
	if need := ports.FrameSize(stride, height, format); len(buf) < need {
		e.log.Error("The input buffer holds %d bytes, %d required", len(buf), need)
		return noJob, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("buffer of %d bytes, %d required", len(buf), need))
	}

	seq := e.freeSlot()
	if seq == noJob {
		e.log.Error("No free surface slot")
		return noJob, fail(op, encerr.ErrAllocationFailed, "no free surface slot")
	}

	attribs := &ports.SurfaceAttributes{
		MemoryType: kind,
		External:   ports.NewExternalBuffers(buf, width, height, stride, format),
	}
	id, err := e.driver.CreateSurface(e.display, format, width, height, attribs)
	if err != nil {
		e.log.Error("vaCreateSurfaces failed: %v", err)
		return noJob, fmt.Errorf("imageencoder: %s: %w", op, encerr.Driver("vaCreateSurfaces", err))
	}

	e.surfaces[seq] = surface{id: id, width: width, height: height, format: format}
	e.count++
	e.log.Debug("Surface %d created: %dx%d %s", seq, width, height, format)
	return seq, nil
}

// freeSlot returns the lowest free slot index, or noJob.
func (e *Encoder) freeSlot() int {
	for i := range e.surfaces {
		if e.surfaces[i].id == 0 {
			return i
		}
	}
	return noJob
}

// lookup returns the live surface at seq.
func (e *Encoder) lookup(seq int) (*surface, bool) {
	if seq < 0 || seq >= MaxBuffers || e.surfaces[seq].id == 0 {
		return nil, false
	}
	return &e.surfaces[seq], true
}

// DestroySourceSurface releases the surface at seq. The surface of an
// outstanding encode job cannot be destroyed. The slot is freed even if the
// driver fails to release the surface.
func (e *Encoder) DestroySourceSurface(seq int) error {
	const op = "destroy source surface"

	if e.state == Uninitialized {
		e.log.Error("DestroySourceSurface rejected: uninitialized")
		return fail(op, encerr.ErrInvalidState, "encoder not initialized")
	}
	if e.count < 1 {
		e.log.Error("DestroySourceSurface rejected: no surfaces")
		return fail(op, encerr.ErrInvalidParameter, "no surfaces registered")
	}
	s, ok := e.lookup(seq)
	if !ok {
		e.log.Error("Invalid image sequence number %d", seq)
		return fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("invalid image sequence number %d", seq))
	}
	if seq == e.reserved {
		e.log.Error("Image %d is being encoded and can't be destroyed", seq)
		return fail(op, encerr.ErrInvalidState, fmt.Sprintf("image %d is being encoded", seq))
	}

	err := e.driver.DestroySurface(e.display, s.id)
	if err != nil {
		e.log.Error("vaDestroySurfaces failed: %v", err)
	}

	*s = surface{}
	e.count--

	if err != nil {
		return fmt.Errorf("imageencoder: %s: %w", op, encerr.Driver("vaDestroySurfaces", err))
	}
	e.log.Debug("Surface %d destroyed", seq)
	return nil
}
