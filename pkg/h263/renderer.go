package h263

import (
	"fmt"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/ports"
)

// Renderer submits the sequence, picture and slice parameters of an encode
// command. It must be called between BeginPicture and EndPicture.
type Renderer struct {
	driver  ports.Driver
	display ports.Display
	context ports.ContextID
	params  Params
	log     ports.Logger
}

// NewRenderer creates a Renderer bound to a driver context.
func NewRenderer(driver ports.Driver, dpy ports.Display, ctx ports.ContextID, params Params, log ports.Logger) *Renderer {
	return &Renderer{
		driver:  driver,
		display: dpy,
		context: ctx,
		params:  params,
		log:     log.WithComponent("h263"),
	}
}

// SendEncodeCommand renders the sequence parameters on frame 0, then the
// picture and slice parameters. The first failure aborts the command.
func (r *Renderer) SendEncodeCommand(f FrameState) error {
	if f.FrameNum == 0 {
		if err := r.renderSequence(); err != nil {
			return fmt.Errorf("h263: sequence params: %w", err)
		}
	}
	if err := r.renderPicture(f); err != nil {
		return fmt.Errorf("h263: picture params: %w", err)
	}
	if err := r.renderSlice(f); err != nil {
		return fmt.Errorf("h263: slice params: %w", err)
	}
	return nil
}

func (r *Renderer) renderSequence() error {
	seq := ports.H263SequenceParams{
		BitsPerSecond: r.params.BitsPerSecond,
		FrameRate:     r.params.FrameRate(),
		InitialQP:     r.params.InitialQP,
		MinQP:         r.params.MinQP,
		IntraPeriod:   r.params.IntraPeriod,
	}
	r.log.Debug("Sequence: %d bps, %d fps, QP %d/%d, intra period %d",
		seq.BitsPerSecond, seq.FrameRate, seq.InitialQP, seq.MinQP, seq.IntraPeriod)

	buf, err := r.driver.CreateBuffer(r.display, r.context, ports.BufferEncSequenceParam, 0, &seq)
	if err != nil {
		r.log.Error("vaCreateBuffer failed: %v", err)
		return encerr.Driver("vaCreateBuffer", err)
	}
	return r.render(buf)
}

func (r *Renderer) renderPicture(f FrameState) error {
	pic := ports.H263PictureParams{
		ReferencePicture:     f.Ref,
		ReconstructedPicture: f.Rec,
		CodedBuf:             f.CodedBuf,
		PictureWidth:         r.params.Width,
		PictureHeight:        r.params.Height,
		PictureType:          f.PictureType(),
	}
	r.log.Debug("Picture: ref 0x%08x, rec 0x%08x, coded 0x%08x (index %d), type %d",
		uint32(pic.ReferencePicture), uint32(pic.ReconstructedPicture), uint32(pic.CodedBuf), f.CodedBufIndex, pic.PictureType)

	buf, err := r.driver.CreateBuffer(r.display, r.context, ports.BufferEncPictureParam, 0, &pic)
	if err != nil {
		r.log.Error("vaCreateBuffer failed: %v", err)
		return encerr.Driver("vaCreateBuffer", err)
	}
	return r.render(buf)
}

// renderSlice creates an empty slice buffer and fills it through a mapping.
func (r *Renderer) renderSlice(f FrameState) error {
	buf, err := r.driver.CreateBuffer(r.display, r.context, ports.BufferEncSliceParam, 0, nil)
	if err != nil {
		r.log.Error("vaCreateBuffer failed: %v", err)
		return encerr.Driver("vaCreateBuffer", err)
	}

	mapped, err := r.driver.MapBuffer(r.display, buf)
	if err != nil {
		r.log.Error("vaMapBuffer failed: %v", err)
		return encerr.Driver("vaMapBuffer", err)
	}
	slice, ok := mapped.(*ports.SliceParams)
	if !ok {
		r.log.Error("vaMapBuffer returned %T for a slice buffer", mapped)
		return encerr.Driver("vaMapBuffer", ports.StatusInvalidBuffer)
	}
	slice.StartRowNumber = 0
	slice.SliceHeight = r.params.SliceHeightMB()
	slice.IsIntra = f.IsIntra
	slice.DisableDeblockingFilterIDC = 0
	r.log.Debug("Slice: start row %d, %d MB rows, intra %t", slice.StartRowNumber, slice.SliceHeight, slice.IsIntra)

	if err := r.driver.UnmapBuffer(r.display, buf); err != nil {
		r.log.Error("vaUnmapBuffer failed: %v", err)
		return encerr.Driver("vaUnmapBuffer", err)
	}
	return r.render(buf)
}

func (r *Renderer) render(buf ports.BufferID) error {
	if err := r.driver.RenderPicture(r.display, r.context, buf); err != nil {
		r.log.Error("vaRenderPicture failed: %v", err)
		return encerr.Driver("vaRenderPicture", err)
	}
	return nil
}
