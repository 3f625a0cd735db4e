// Package h263 builds the per-frame parameter buffers of the H.263 baseline
// profile and submits them to a driver context.
package h263

import (
	"fmt"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/ports"
)

// Params holds the stream parameters shared by every frame.
type Params struct {
	Width  int
	Height int

	FrameRateNum   uint32
	FrameRateDenom uint32

	BitsPerSecond uint32
	InitialQP     uint32
	MinQP         uint32
	// IntraPeriod is the distance between intra frames; 0 means only the first.
	IntraPeriod uint32

	// RateControl is handed to the driver unchanged.
	RateControl ports.RateControlMode
}

// Validate checks the geometry and frame rate.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("h263: geometry %dx%d: %w", p.Width, p.Height, encerr.ErrInvalidParameter)
	}
	if p.Width%2 != 0 || p.Height%2 != 0 {
		return fmt.Errorf("h263: odd geometry %dx%d: %w", p.Width, p.Height, encerr.ErrResolutionUnsupported)
	}
	if p.FrameRateDenom == 0 {
		return fmt.Errorf("h263: frame rate denominator is zero: %w", encerr.ErrInvalidParameter)
	}
	return nil
}

// FrameRate returns the frame rate rounded to the nearest integer.
func (p Params) FrameRate() uint32 {
	return (p.FrameRateNum + p.FrameRateDenom/2) / p.FrameRateDenom
}

// SliceHeightMB returns the picture height in macroblock rows.
func (p Params) SliceHeightMB() uint32 {
	return uint32((p.Height + 15) / 16)
}

// FrameState describes the surfaces bound to one encode command.
type FrameState struct {
	FrameNum int
	IsIntra  bool

	Ref ports.SurfaceID
	Rec ports.SurfaceID

	CodedBuf      ports.BufferID
	CodedBufIndex int
}

// PictureType returns the picture coding type for the frame.
func (f FrameState) PictureType() ports.PictureType {
	if f.IsIntra {
		return ports.PictureIntra
	}
	return ports.PicturePredictive
}
