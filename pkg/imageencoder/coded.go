package imageencoder

import (
	"fmt"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/ports"
)

// GetCoded waits for the outstanding encode, copies every coded segment into
// dst in list order and returns the number of bytes written. dst must be at
// least CodedBufferSize bytes.
//
// Once the preconditions hold, the job is ended and the Encoder returns to
// ContextCreated whether or not retrieval succeeds.
func (e *Encoder) GetCoded(dst []byte) (int, error) {
	const op = "get coded"

	if e.state != Encoding {
		e.log.Error("GetCoded rejected: no encode job active")
		return 0, fail(op, encerr.ErrInvalidState, "no encode job active")
	}
	if len(dst) < e.ctx.codedSize {
		e.log.Error("The coded buffer holds %d bytes, %d required", len(dst), e.ctx.codedSize)
		return 0, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("buffer of %d bytes, %d required", len(dst), e.ctx.codedSize))
	}

	defer e.endJob()

	s, ok := e.lookup(e.reserved)
	if !ok {
		e.log.Error("Image %d is gone, probably already destroyed", e.reserved)
		return 0, fail(op, encerr.ErrInvalidState, fmt.Sprintf("reserved image %d no longer exists", e.reserved))
	}

	if err := e.driver.SyncSurface(e.display, s.id); err != nil {
		e.log.Error("vaSyncSurface failed: %v", err)
		return 0, fmt.Errorf("imageencoder: %s: %w", op, encerr.Driver("vaSyncSurface", err))
	}

	n, err := e.drain(dst)
	if err != nil {
		return n, fmt.Errorf("imageencoder: %s: %w", op, err)
	}
	e.log.Debug("Coded data retrieved: %d bytes", n)
	return n, nil
}

// drain maps the coded buffer, concatenates its segments into dst and unmaps it.
func (e *Encoder) drain(dst []byte) (int, error) {
	mapped, err := e.driver.MapBuffer(e.display, e.ctx.coded)
	if err != nil {
		e.log.Error("vaMapBuffer failed: %v", err)
		return 0, encerr.Driver("vaMapBuffer", err)
	}

	n, copyErr := CopySegments(dst, mapped)
	if copyErr != nil {
		e.log.Error("Coded data could not be copied: %v", copyErr)
	}

	if err := e.driver.UnmapBuffer(e.display, e.ctx.coded); err != nil {
		e.log.Error("vaUnmapBuffer failed: %v", err)
		if copyErr == nil {
			return n, encerr.Driver("vaUnmapBuffer", err)
		}
	}
	return n, copyErr
}

// CopySegments concatenates the coded segment list of a mapped coded buffer
// into dst and returns the byte count. Data that does not fit is an error.
func CopySegments(dst []byte, mapped any) (int, error) {
	seg, ok := mapped.(*ports.CodedSegment)
	if !ok && mapped != nil {
		return 0, encerr.Driver("vaMapBuffer", fmt.Errorf("mapped %T, want coded segments: %w", mapped, ports.StatusInvalidBuffer))
	}
	n := 0
	for ; seg != nil; seg = seg.Next {
		if len(seg.Buf) > len(dst)-n {
			return n, fmt.Errorf("coded data exceeds %d bytes: %w", len(dst), encerr.ErrAllocationFailed)
		}
		n += copy(dst[n:], seg.Buf)
	}
	return n, nil
}

// endJob releases the reserved surface and returns to ContextCreated.
func (e *Encoder) endJob() {
	e.reserved = noJob
	e.state = ContextCreated
}
