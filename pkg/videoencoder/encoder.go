// Package videoencoder runs a synchronous H.263 baseline encode session on a
// driver: one context, a reference and a reconstruction surface that swap
// after every frame, and a ring of two coded buffers.
package videoencoder

import (
	"fmt"
	"unsafe"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/h263"
	"github.com/user/vaencoder/pkg/imageencoder"
	"github.com/user/vaencoder/pkg/ports"
)

const (
	// MaxInputs is the capacity of the input surface table.
	MaxInputs = 16

	codedRing = 2
)

// Encoder is an H.263 encode session. It is not safe for concurrent use.
type Encoder struct {
	driver ports.Driver
	log    ports.Logger
	params h263.Params

	started bool
	display ports.Display
	config  ports.ConfigID
	context ports.ContextID

	ref, rec  ports.SurfaceID
	coded     [codedRing]ports.BufferID
	codedSize int

	inputs   []ports.SurfaceID
	frameNum int
	renderer *h263.Renderer
}

// New creates a session for codec. Only CodecH263 is implemented.
func New(codec Codec, driver ports.Driver, params h263.Params, log ports.Logger) (*Encoder, error) {
	if codec != CodecH263 {
		return nil, fmt.Errorf("videoencoder: %s (%s): %w", codec, codec.MIMEType(), encerr.ErrUnimplemented)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{
		driver: driver,
		log:    log.WithComponent("videoencoder"),
		params: params,
	}, nil
}

// CodedBufferSize returns the capacity of one coded buffer for a geometry.
func CodedBufferSize(width, height int) int {
	size := width * height * 400 / (16 * 16)
	return (size + 0xf) &^ 0xf
}

// MaxOutputSize returns the largest frame Encode can return.
func (e *Encoder) MaxOutputSize() int {
	return CodedBufferSize(e.params.Width, e.params.Height)
}

// FrameNum returns the number of frames encoded since Start.
func (e *Encoder) FrameNum() int {
	return e.frameNum
}

// Start opens the display and creates the config, the reference and
// reconstruction surfaces, the context and the coded buffers. On failure
// everything created so far is released.
func (e *Encoder) Start() error {
	if e.started {
		return fmt.Errorf("videoencoder: start: already started: %w", encerr.ErrInvalidState)
	}
	if err := e.start(); err != nil {
		if terr := e.teardown(); terr != nil {
			e.log.Warn("Cleanup after a failed start reported: %v", terr)
		}
		return fmt.Errorf("videoencoder: start: %w", err)
	}
	e.started = true
	e.log.Debug("Session started: %dx%d, coded buffers %d bytes", e.params.Width, e.params.Height, e.codedSize)
	return nil
}

func (e *Encoder) start() error {
	dpy, err := e.driver.GetDisplay()
	if err != nil {
		return encerr.Driver("vaGetDisplay", err)
	}
	e.display = dpy
	if _, _, err := e.driver.Initialize(dpy); err != nil {
		e.log.Error("vaInitialize failed: %v", err)
		return encerr.Driver("vaInitialize", err)
	}

	if err := e.checkSupport(); err != nil {
		return err
	}

	attribs := []ports.ConfigAttrib{{Type: ports.ConfigAttribRTFormat, Value: uint32(ports.RTFormatYUV420)}}
	if e.params.RateControl != 0 {
		attribs = append(attribs, ports.ConfigAttrib{Type: ports.ConfigAttribRateControl, Value: uint32(e.params.RateControl)})
	}
	cfg, err := e.driver.CreateConfig(dpy, ports.ProfileH263Baseline, ports.EntrypointEncSlice, attribs)
	if err != nil {
		e.log.Error("vaCreateConfig failed: %v", err)
		return encerr.Driver("vaCreateConfig", err)
	}
	e.config = cfg

	w, h := e.params.Width, e.params.Height
	if e.ref, err = e.driver.CreateSurface(dpy, ports.RTFormatYUV420, w, h, nil); err != nil {
		e.log.Error("vaCreateSurfaces failed: %v", err)
		return encerr.Driver("vaCreateSurfaces", err)
	}
	if e.rec, err = e.driver.CreateSurface(dpy, ports.RTFormatYUV420, w, h, nil); err != nil {
		e.log.Error("vaCreateSurfaces failed: %v", err)
		return encerr.Driver("vaCreateSurfaces", err)
	}

	ctx, err := e.driver.CreateContext(dpy, cfg, w, h, ports.ProgressiveFlag, []ports.SurfaceID{e.ref, e.rec})
	if err != nil {
		e.log.Error("vaCreateContext failed: %v", err)
		return encerr.Driver("vaCreateContext", err)
	}
	e.context = ctx

	e.codedSize = CodedBufferSize(w, h)
	for i := range e.coded {
		buf, err := e.driver.CreateBuffer(dpy, ctx, ports.BufferEncCoded, e.codedSize, nil)
		if err != nil {
			e.log.Error("vaCreateBuffer for coded buffer %d failed: %v", i, err)
			return encerr.Driver("vaCreateBuffer", err)
		}
		e.coded[i] = buf
	}

	e.renderer = h263.NewRenderer(e.driver, dpy, ctx, e.params, e.log)
	e.frameNum = 0
	return nil
}

// checkSupport verifies the slice entry point, 4:2:0 input and the
// requested rate-control mode.
func (e *Encoder) checkSupport() error {
	eps, err := e.driver.QueryConfigEntrypoints(e.display, ports.ProfileH263Baseline)
	if err != nil {
		return encerr.Driver("vaQueryConfigEntrypoints", err)
	}
	found := false
	for _, ep := range eps {
		found = found || ep == ports.EntrypointEncSlice
	}
	if !found {
		e.log.Error("No H.263 baseline encoding entrypoint was found")
		return fmt.Errorf("no H.263 slice encode entrypoint: %w", encerr.ErrUnimplemented)
	}

	attribs := []ports.ConfigAttrib{{Type: ports.ConfigAttribRTFormat}, {Type: ports.ConfigAttribRateControl}}
	if err := e.driver.GetConfigAttributes(e.display, ports.ProfileH263Baseline, ports.EntrypointEncSlice, attribs); err != nil {
		return encerr.Driver("vaGetConfigAttributes", err)
	}
	if ports.RTFormat(attribs[0].Value)&ports.RTFormatYUV420 == 0 {
		return fmt.Errorf("driver lacks yuv420 input: %w", encerr.ErrUnimplemented)
	}
	if rc := e.params.RateControl; rc != 0 && ports.RateControlMode(attribs[1].Value)&rc == 0 {
		return fmt.Errorf("rate control 0x%x not supported: %w", uint32(rc), encerr.ErrUnimplemented)
	}
	return nil
}

// RegisterInput wraps an NV12 frame buffer as an input surface and returns
// its index. User-pointer memory must be 4096-byte aligned.
func (e *Encoder) RegisterInput(kind ports.MemoryType, buf []byte, stride int) (int, error) {
	const op = "register input"
	if !e.started {
		return -1, fmt.Errorf("videoencoder: %s: not started: %w", op, encerr.ErrInvalidState)
	}
	if len(e.inputs) >= MaxInputs {
		return -1, fmt.Errorf("videoencoder: %s: input table full: %w", op, encerr.ErrAllocationFailed)
	}
	if kind != ports.MemoryUserPtr && kind != ports.MemoryGralloc {
		return -1, fmt.Errorf("videoencoder: %s: memory type %s: %w", op, kind, encerr.ErrInvalidParameter)
	}
	if kind == ports.MemoryUserPtr && len(buf) > 0 {
		if addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))); addr%imageencoder.UserPtrAlignment != 0 {
			return -1, fmt.Errorf("videoencoder: %s: user pointer 0x%x not aligned: %w", op, addr, encerr.ErrInvalidParameter)
		}
	}
	w, h := e.params.Width, e.params.Height
	if stride < w || stride%imageencoder.RequiredStride != 0 {
		return -1, fmt.Errorf("videoencoder: %s: stride %d: %w", op, stride, encerr.ErrInvalidParameter)
	}
	if need := ports.FrameSize(stride, h, ports.RTFormatYUV420); len(buf) < need {
		return -1, fmt.Errorf("videoencoder: %s: buffer of %d bytes, %d required: %w", op, len(buf), need, encerr.ErrInvalidParameter)
	}

	attribs := &ports.SurfaceAttributes{
		MemoryType: kind,
		External:   ports.NewExternalBuffers(buf, w, h, stride, ports.RTFormatYUV420),
	}
	id, err := e.driver.CreateSurface(e.display, ports.RTFormatYUV420, w, h, attribs)
	if err != nil {
		e.log.Error("vaCreateSurfaces failed: %v", err)
		return -1, fmt.Errorf("videoencoder: %s: %w", op, encerr.Driver("vaCreateSurfaces", err))
	}
	e.inputs = append(e.inputs, id)
	return len(e.inputs) - 1, nil
}

// IsIntra reports whether frame n is coded intra.
func (e *Encoder) IsIntra(n int) bool {
	if n == 0 {
		return true
	}
	p := int(e.params.IntraPeriod)
	return p > 0 && n%p == 0
}

// Encode codes the registered input and returns the coded frame.
func (e *Encoder) Encode(input int) ([]byte, error) {
	const op = "encode"
	if !e.started {
		return nil, fmt.Errorf("videoencoder: %s: not started: %w", op, encerr.ErrInvalidState)
	}
	if input < 0 || input >= len(e.inputs) {
		return nil, fmt.Errorf("videoencoder: %s: invalid input %d: %w", op, input, encerr.ErrInvalidParameter)
	}
	src := e.inputs[input]
	idx := e.frameNum % codedRing

	if err := e.driver.BeginPicture(e.display, e.context, src); err != nil {
		e.log.Error("vaBeginPicture failed: %v", err)
		return nil, fmt.Errorf("videoencoder: %s: %w", op, encerr.Driver("vaBeginPicture", err))
	}

	frame := h263.FrameState{
		FrameNum:      e.frameNum,
		IsIntra:       e.IsIntra(e.frameNum),
		Ref:           e.ref,
		Rec:           e.rec,
		CodedBuf:      e.coded[idx],
		CodedBufIndex: idx,
	}
	if err := e.renderer.SendEncodeCommand(frame); err != nil {
		if eerr := e.driver.EndPicture(e.display, e.context); eerr != nil {
			e.log.Warn("vaEndPicture after a failed command: %v", eerr)
		}
		return nil, fmt.Errorf("videoencoder: %s: %w", op, err)
	}
	if err := e.driver.EndPicture(e.display, e.context); err != nil {
		e.log.Error("vaEndPicture failed: %v", err)
		return nil, fmt.Errorf("videoencoder: %s: %w", op, encerr.Driver("vaEndPicture", err))
	}

	if err := e.driver.SyncSurface(e.display, src); err != nil {
		e.log.Error("vaSyncSurface failed: %v", err)
		return nil, fmt.Errorf("videoencoder: %s: %w", op, encerr.Driver("vaSyncSurface", err))
	}
	out, err := e.drain(e.coded[idx])
	if err != nil {
		return nil, fmt.Errorf("videoencoder: %s: %w", op, err)
	}

	e.ref, e.rec = e.rec, e.ref
	e.frameNum++
	e.log.Debug("Frame %d coded: %d bytes, intra %t", frame.FrameNum, len(out), frame.IsIntra)
	return out, nil
}

func (e *Encoder) drain(buf ports.BufferID) ([]byte, error) {
	mapped, err := e.driver.MapBuffer(e.display, buf)
	if err != nil {
		e.log.Error("vaMapBuffer failed: %v", err)
		return nil, encerr.Driver("vaMapBuffer", err)
	}
	out := make([]byte, e.codedSize)
	n, copyErr := imageencoder.CopySegments(out, mapped)
	if err := e.driver.UnmapBuffer(e.display, buf); err != nil && copyErr == nil {
		copyErr = encerr.Driver("vaUnmapBuffer", err)
	}
	if copyErr != nil {
		return nil, copyErr
	}
	return out[:n], nil
}

// Stop releases every driver object. All steps run; failures are aggregated.
func (e *Encoder) Stop() error {
	if !e.started {
		return fmt.Errorf("videoencoder: stop: not started: %w", encerr.ErrInvalidState)
	}
	e.started = false
	if err := e.teardown(); err != nil {
		return fmt.Errorf("videoencoder: stop: %w", err)
	}
	e.log.Debug("Session stopped after %d frames", e.frameNum)
	return nil
}

// teardown destroys whatever exists, newest first, and resets the session.
func (e *Encoder) teardown() error {
	var td encerr.Teardown
	dpy := e.display
	if dpy == 0 {
		return nil
	}
	for i := range e.coded {
		if e.coded[i] != 0 {
			td.Step("vaDestroyBuffer", e.driver.DestroyBuffer(dpy, e.coded[i]))
		}
	}
	if e.context != 0 {
		td.Step("vaDestroyContext", e.driver.DestroyContext(dpy, e.context))
	}
	for _, id := range e.inputs {
		td.Step("vaDestroySurfaces", e.driver.DestroySurface(dpy, id))
	}
	for _, id := range []ports.SurfaceID{e.ref, e.rec} {
		if id != 0 {
			td.Step("vaDestroySurfaces", e.driver.DestroySurface(dpy, id))
		}
	}
	if e.config != 0 {
		td.Step("vaDestroyConfig", e.driver.DestroyConfig(dpy, e.config))
	}
	td.Step("vaTerminate", e.driver.Terminate(dpy))

	e.display, e.config, e.context = 0, 0, 0
	e.ref, e.rec = 0, 0
	e.coded = [codedRing]ports.BufferID{}
	e.codedSize = 0
	e.inputs = nil
	e.renderer = nil
	return td.Err()
}
