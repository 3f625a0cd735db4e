package imageencoder

import (
	"fmt"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/ports"
)

// CodedBufferCapacity returns the coded-buffer size for a geometry: 160 bytes
// per 16x16 macroblock plus 640 bytes of headers, rounded up to 16 bytes.
func CodedBufferCapacity(width, height int) int {
	size := ((width+15)/16)*((height+15)/16)*160 + 640
	return (size + 0xf) &^ 0xf
}

// CreateContext binds a new context to the geometry and format of the surface
// at seq and returns the coded-buffer capacity. Partially created driver
// objects are destroyed in reverse order on failure.
func (e *Encoder) CreateContext(seq int) (int, error) {
	const op = "create context"

	if e.state == Uninitialized {
		e.log.Error("CreateContext rejected: uninitialized")
		return 0, fail(op, encerr.ErrInvalidState, "encoder not initialized")
	}
	if e.state >= ContextCreated {
		e.log.Error("CreateContext rejected: a context already exists")
		return 0, fail(op, encerr.ErrInvalidState, "context already exists")
	}
	s, ok := e.lookup(seq)
	if !ok {
		e.log.Error("Invalid image sequence number %d", seq)
		return 0, fail(op, encerr.ErrInvalidParameter, fmt.Sprintf("invalid image sequence number %d", seq))
	}

	c := encodeContext{
		width:  s.width,
		height: s.height,
		format: s.format,
	}

	attribs := []ports.ConfigAttrib{{Type: ports.ConfigAttribRTFormat, Value: uint32(c.format)}}
	config, err := e.driver.CreateConfig(e.display, ports.ProfileJPEGBaseline, ports.EntrypointEncPicture, attribs)
	if err != nil {
		e.log.Error("vaCreateConfig failed: %v", err)
		return 0, fmt.Errorf("imageencoder: %s: %w", op, encerr.Driver("vaCreateConfig", err))
	}
	c.config = config

	ctx, err := e.driver.CreateContext(e.display, config, c.width, c.height, ports.ProgressiveFlag, []ports.SurfaceID{s.id})
	if err != nil {
		e.log.Error("vaCreateContext failed: %v", err)
		e.rollback(c)
		return 0, fmt.Errorf("imageencoder: %s: %w", op, encerr.Driver("vaCreateContext", err))
	}
	c.context = ctx

	c.codedSize = CodedBufferCapacity(c.width, c.height)
	coded, err := e.driver.CreateBuffer(e.display, ctx, ports.BufferEncCoded, c.codedSize, nil)
	if err != nil {
		e.log.Error("vaCreateBuffer for the coded buffer failed: %v", err)
		e.rollback(c)
		return 0, fmt.Errorf("imageencoder: %s: %w", op, encerr.Driver("vaCreateBuffer", err))
	}
	c.coded = coded

	e.ctx = c
	e.state = ContextCreated
	e.log.Debug("Context created: %dx%d %s, coded buffer %d bytes", c.width, c.height, c.format, c.codedSize)
	return c.codedSize, nil
}

// rollback destroys the objects of a half-built context, newest first.
func (e *Encoder) rollback(c encodeContext) {
	if c.context != 0 {
		if err := e.driver.DestroyContext(e.display, c.context); err != nil {
			e.log.Warn("vaDestroyContext failed during rollback: %v", err)
		}
	}
	if c.config != 0 {
		if err := e.driver.DestroyConfig(e.display, c.config); err != nil {
			e.log.Warn("vaDestroyConfig failed during rollback: %v", err)
		}
	}
	e.ctx = encodeContext{}
}

// DestroyContext destroys the coded buffer, context and config. All three
// are attempted; failures are aggregated and the context is cleared anyway.
func (e *Encoder) DestroyContext() error {
	const op = "destroy context"

	if e.ctx.context == 0 {
		e.log.Error("DestroyContext rejected: no context")
		return fail(op, encerr.ErrInvalidState, "no context to destroy")
	}
	if e.state == Encoding {
		e.log.Error("DestroyContext rejected: encoding in progress")
		return fail(op, encerr.ErrInvalidState, "encoding in progress")
	}

	var td encerr.Teardown
	if err := e.driver.DestroyBuffer(e.display, e.ctx.coded); err != nil {
		e.log.Error("vaDestroyBuffer for the coded buffer failed: %v", err)
		td.Step("vaDestroyBuffer", err)
	}
	if err := e.driver.DestroyContext(e.display, e.ctx.context); err != nil {
		e.log.Error("vaDestroyContext failed: %v", err)
		td.Step("vaDestroyContext", err)
	}
	if err := e.driver.DestroyConfig(e.display, e.ctx.config); err != nil {
		e.log.Error("vaDestroyConfig failed: %v", err)
		td.Step("vaDestroyConfig", err)
	}

	e.ctx = encodeContext{}
	e.state = Initialized
	e.log.Debug("Context destroyed")

	if err := td.Err(); err != nil {
		return fmt.Errorf("imageencoder: %s: %w", op, err)
	}
	return nil
}
