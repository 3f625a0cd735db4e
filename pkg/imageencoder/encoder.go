// Package imageencoder drives JPEG baseline encoding through a hardware
// acceleration driver.
//
// An Encoder walks a strict lifecycle:
//
//	Uninitialized -> Initialized -> ContextCreated <-> Encoding
//
// Source images are registered as driver surfaces wrapping caller memory and
// are addressed by small integer sequence numbers. One context exists at a
// time and fixes the geometry and format of every image encoded through it.
// At most one encode job is outstanding; GetCoded always ends it.
//
// An Encoder is not safe for concurrent use. Callers serialize all calls.
package imageencoder

import (
	"fmt"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/ports"
)

const (
	// MaxBuffers is the capacity of the surface table.
	MaxBuffers = 8

	MinQuality     = 1
	MaxQuality     = 100
	DefaultQuality = 90

	// RequiredStride is the alignment, in bytes, every source stride must honour.
	RequiredStride = 64

	// UserPtrAlignment is the address alignment of user-pointer source memory.
	UserPtrAlignment = 4096
)

const noJob = -1

// State is the lifecycle state of an Encoder. States are totally ordered.
type State int

const (
	Uninitialized State = iota
	Initialized
	ContextCreated
	Encoding
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case ContextCreated:
		return "context-created"
	case Encoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// surface is one slot of the surface table. A zero id marks a free slot.
type surface struct {
	id     ports.SurfaceID
	width  int
	height int
	format ports.RTFormat
}

// encodeContext holds the driver objects bound to one geometry.
type encodeContext struct {
	config    ports.ConfigID
	context   ports.ContextID
	coded     ports.BufferID
	width     int
	height    int
	format    ports.RTFormat
	codedSize int
}

// Encoder is a JPEG encode session on one driver display.
type Encoder struct {
	driver ports.Driver
	log    ports.Logger

	state   State
	quality int

	display ports.Display
	formats ports.RTFormat

	surfaces [MaxBuffers]surface
	count    int

	ctx      encodeContext
	reserved int
}

// New creates an uninitialized Encoder.
func New(driver ports.Driver, log ports.Logger) *Encoder {
	return &Encoder{
		driver:   driver,
		log:      log.WithComponent("imageencoder"),
		state:    Uninitialized,
		quality:  DefaultQuality,
		reserved: noJob,
	}
}

// State returns the current lifecycle state.
func (e *Encoder) State() State {
	return e.state
}

// Quality returns the quality used by the next encode.
func (e *Encoder) Quality() int {
	return e.quality
}

// SupportedFormats returns the format mask advertised by the driver.
func (e *Encoder) SupportedFormats() ports.RTFormat {
	return e.formats
}

// SurfaceCount returns the number of live source surfaces.
func (e *Encoder) SurfaceCount() int {
	return e.count
}

// CodedBufferSize returns the coded-buffer capacity of the current context, or 0.
func (e *Encoder) CodedBufferSize() int {
	return e.ctx.codedSize
}

// Initialize acquires a display and checks JPEG baseline encode support.
// On failure the display is released and the Encoder stays Uninitialized.
func (e *Encoder) Initialize() error {
	if e.state != Uninitialized {
		e.log.Error("Initialize rejected: already %s", e.state)
		return fail("initialize", encerr.ErrInvalidState, "already initialized")
	}

	dpy, err := e.driver.GetDisplay()
	if err != nil {
		e.log.Error("vaGetDisplay failed: %v", err)
		return fmt.Errorf("imageencoder: initialize: %w", encerr.Driver("vaGetDisplay", err))
	}

	formats, err := e.probe(dpy)
	if err != nil {
		if terr := e.driver.Terminate(dpy); terr != nil {
			e.log.Warn("vaTerminate failed during rollback: %v", terr)
		}
		return fmt.Errorf("imageencoder: initialize: %w", err)
	}

	e.display = dpy
	e.formats = formats
	e.state = Initialized
	e.log.Debug("Encoder initialized, formats 0x%x", uint32(formats))
	return nil
}

// probe runs the capability queries of Initialize and returns the format mask.
func (e *Encoder) probe(dpy ports.Display) (ports.RTFormat, error) {
	major, minor, err := e.driver.Initialize(dpy)
	if err != nil {
		e.log.Error("vaInitialize failed: %v", err)
		return 0, encerr.Driver("vaInitialize", err)
	}
	e.log.Debug("LibVA version %d.%d", major, minor)

	vendor, err := e.driver.QueryVendorString(dpy)
	if err != nil {
		e.log.Error("vaQueryVendorString failed: %v", err)
		return 0, encerr.Driver("vaQueryVendorString", err)
	}
	e.log.Debug("Driver version: %s", vendor)

	entrypoints, err := e.driver.QueryConfigEntrypoints(dpy, ports.ProfileJPEGBaseline)
	if err != nil {
		e.log.Error("vaQueryConfigEntrypoints failed: %v", err)
		return 0, encerr.Driver("vaQueryConfigEntrypoints", err)
	}
	found := false
	for _, ep := range entrypoints {
		if ep == ports.EntrypointEncPicture {
			found = true
			break
		}
	}
	if !found {
		e.log.Error("No JPEG baseline encoding entrypoint was found")
		return 0, fmt.Errorf("no JPEG baseline encode entrypoint: %w", encerr.ErrUnimplemented)
	}

	attribs := []ports.ConfigAttrib{{Type: ports.ConfigAttribRTFormat}}
	if err := e.driver.GetConfigAttributes(dpy, ports.ProfileJPEGBaseline, ports.EntrypointEncPicture, attribs); err != nil {
		e.log.Error("vaGetConfigAttributes failed: %v", err)
		return 0, encerr.Driver("vaGetConfigAttributes", err)
	}
	return ports.RTFormat(attribs[0].Value), nil
}

// Deinitialize destroys the context and every surface, then terminates the
// display. Cleanup is best-effort: all steps run and their failures are
// aggregated. The Encoder always ends Uninitialized unless it was encoding.
func (e *Encoder) Deinitialize() error {
	if e.display == 0 {
		e.log.Error("Deinitialize rejected: no display")
		return fail("deinitialize", encerr.ErrInvalidState, "no display to deinitialize")
	}
	if e.state == Encoding {
		e.log.Error("Deinitialize rejected: encoding in progress")
		return fail("deinitialize", encerr.ErrInvalidState, "encoding in progress")
	}

	var td encerr.Teardown
	if e.state == ContextCreated {
		td.Add(e.DestroyContext())
	}
	for i := range e.surfaces {
		if e.surfaces[i].id != 0 {
			td.Add(e.DestroySourceSurface(i))
		}
	}
	if err := e.driver.Terminate(e.display); err != nil {
		e.log.Error("vaTerminate failed: %v", err)
		td.Step("vaTerminate", err)
	}

	e.display = 0
	e.formats = 0
	e.count = 0
	e.ctx = encodeContext{}
	e.reserved = noJob
	e.state = Uninitialized
	e.log.Debug("Encoder deinitialized")

	if err := td.Err(); err != nil {
		return fmt.Errorf("imageencoder: deinitialize: %w", err)
	}
	return nil
}

// fail builds a classified error for op.
func fail(op string, kind error, detail string) error {
	return fmt.Errorf("imageencoder: %s: %s: %w", op, detail, kind)
}
