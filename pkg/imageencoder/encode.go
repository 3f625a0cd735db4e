package imageencoder

import (
	"fmt"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/ports"
)

// SetQuality changes the JPEG quality. Setting the current value always
// succeeds; otherwise the change is rejected while encoding or when q is
// outside [MinQuality, MaxQuality], and the previous value is kept.
func (e *Encoder) SetQuality(q int) error {
	if q == e.quality {
		return nil
	}
	if e.state == Encoding {
		e.log.Error("Can't update quality while encoding")
		return fail("set quality", encerr.ErrInvalidState, "encoding in progress")
	}
	if q < MinQuality || q > MaxQuality {
		e.log.Error("Invalid quality %d, not updated", q)
		return fail("set quality", encerr.ErrInvalidParameter, fmt.Sprintf("quality %d outside [%d, %d]", q, MinQuality, MaxQuality))
	}
	e.quality = q
	e.log.Debug("Quality updated to %d", q)
	return nil
}

// Encode submits the surface at seq for encoding at quality q. On success the
// surface is reserved and the Encoder is Encoding until GetCoded.
func (e *Encoder) Encode(seq, q int) error {
	const op = "encode"

	if e.state < ContextCreated {
		e.log.Error("Encode rejected: no context")
		return fail(op, encerr.ErrInvalidState, "no context created")
	}
	if e.state > ContextCreated {
		e.log.Error("Encode rejected: an encode job is already active")
		return fail(op, encerr.ErrInvalidState, "encode job already active")
	}
	s, ok := e.lookup(seq)
	if !ok {
		e.log.Error("Invalid image sequence number %d", seq)
		return fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("invalid image sequence number %d", seq))
	}
	if s.width != e.ctx.width || s.height != e.ctx.height || s.format != e.ctx.format {
		e.log.Error("Image %d (%dx%d %s) doesn't fit the context (%dx%d %s)",
			seq, s.width, s.height, s.format, e.ctx.width, e.ctx.height, e.ctx.format)
		return fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("image %d does not match the context", seq))
	}
	if err := e.SetQuality(q); err != nil {
		e.log.Error("Invalid quality %d, encoding aborted", q)
		return fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("quality %d rejected", q))
	}

	if err := e.submit(s.id); err != nil {
		return fmt.Errorf("imageencoder: %s: %w", op, err)
	}

	e.reserved = seq
	e.state = Encoding
	e.log.Debug("Encode of image %d submitted at quality %d", seq, e.quality)
	return nil
}

// submit renders one JPEG picture into the context's coded buffer.
func (e *Encoder) submit(target ports.SurfaceID) error {
	dpy, ctx := e.display, e.ctx.context

	if err := e.driver.BeginPicture(dpy, ctx, target); err != nil {
		e.log.Error("vaBeginPicture failed: %v", err)
		return encerr.Driver("vaBeginPicture", err)
	}

	params := ports.JPEGPictureParams{
		PictureWidth:  e.ctx.width,
		PictureHeight: e.ctx.height,
		CodedBuf:      e.ctx.coded,
		Flags: ports.JPEGPictureFlags{
			Profile: 0,
			Huffman: true,
		},
		SampleBitDepth: 8,
		NumComponents:  3,
		Quality:        e.quality,
	}
	buf, err := e.driver.CreateBuffer(dpy, ctx, ports.BufferEncPictureParam, 0, &params)
	if err != nil {
		e.log.Error("vaCreateBuffer for the picture parameters failed: %v", err)
		return encerr.Driver("vaCreateBuffer", err)
	}

	renderErr := e.driver.RenderPicture(dpy, ctx, buf)
	if err := e.driver.DestroyBuffer(dpy, buf); err != nil {
		e.log.Warn("vaDestroyBuffer for the picture parameters failed: %v", err)
	}
	if renderErr != nil {
		e.log.Error("vaRenderPicture failed: %v", renderErr)
		return encerr.Driver("vaRenderPicture", renderErr)
	}

	if err := e.driver.EndPicture(dpy, ctx); err != nil {
		e.log.Error("vaEndPicture failed: %v", err)
		return encerr.Driver("vaEndPicture", err)
	}
	return nil
}
