// Package pattern generates moving YUV test frames.
//
// Frames are drawn in RGB with gg (a background, a checkerboard band and a
// box that moves every frame) and converted into the NV12 or YV16 layout the
// encoders wrap: luma at stride, then interleaved CbCr (NV12) or a V plane
// followed by a U plane at half stride (YV16).
package pattern

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/vaencoder/pkg/ports"
)

const (
	boxSize   = 64
	boxStep   = 8
	tileSize  = 16
	bandRatio = 4
)

// Generator draws frames of a fixed geometry.
type Generator struct {
	width  int
	height int

	background *image.RGBA
}

// New creates a Generator with a gradient background.
func New(width, height int) *Generator {
	return &Generator{width: width, height: height}
}

// Width returns the frame width.
func (g *Generator) Width() int { return g.width }

// Height returns the frame height.
func (g *Generator) Height() int { return g.height }

// SetBackground scales img to the frame size and uses it as background.
func (g *Generator) SetBackground(img image.Image) {
	dst := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	g.background = dst
}

// LoadBackground reads a PNG or JPEG file and uses it as background.
func (g *Generator) LoadBackground(path string) error {
	img, err := gg.LoadImage(path)
	if err != nil {
		return fmt.Errorf("pattern: load background: %w", err)
	}
	g.SetBackground(img)
	return nil
}

// Render draws frame n.
func (g *Generator) Render(n int) image.Image {
	dc := gg.NewContext(g.width, g.height)
	w, h := float64(g.width), float64(g.height)

	if g.background != nil {
		dc.DrawImage(g.background, 0, 0)
	} else {
		grad := gg.NewLinearGradient(0, 0, w, h)
		grad.AddColorStop(0, color.RGBA{0x20, 0x30, 0x80, 0xff})
		grad.AddColorStop(1, color.RGBA{0xe0, 0x90, 0x20, 0xff})
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	}

	// Checkerboard band along the bottom, scrolling with the frame number.
	band := g.height / bandRatio
	shift := (n * boxStep) % (2 * tileSize)
	for y := g.height - band; y < g.height; y += tileSize {
		for x := -2 * tileSize; x < g.width; x += tileSize {
			if ((x+y)/tileSize)%2 != 0 {
				continue
			}
			dc.DrawRectangle(float64(x+shift), float64(y), tileSize, tileSize)
		}
	}
	dc.SetColor(color.White)
	dc.Fill()

	span := g.width - boxSize
	if span < 1 {
		span = 1
	}
	x := (n * boxStep) % span
	y := (g.height - band - boxSize) / 2
	dc.SetColor(color.RGBA{0xeb, 0x10, 0x10, 0xff})
	dc.DrawRoundedRectangle(float64(x), float64(y), boxSize, boxSize, 8)
	dc.Fill()

	return dc.Image()
}

// Fill renders frame n into dst using the layout of format.
func (g *Generator) Fill(dst []byte, stride int, format ports.RTFormat, n int) error {
	if stride < g.width {
		return fmt.Errorf("pattern: stride %d below width %d", stride, g.width)
	}
	if need := ports.FrameSize(stride, g.height, format); len(dst) < need {
		return fmt.Errorf("pattern: buffer of %d bytes, %d required", len(dst), need)
	}

	img := g.Render(n)
	switch format {
	case ports.RTFormatYUV420:
		toNV12(dst, stride, img)
	case ports.RTFormatYUV422:
		toYV16(dst, stride, img)
	default:
		return fmt.Errorf("pattern: unsupported format %s", format)
	}
	return nil
}

func ycbcr(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

func toNV12(dst []byte, stride int, img image.Image) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	luma := stride * h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yy, cb, cr := ycbcr(img, b.Min.X+x, b.Min.Y+y)
			dst[y*stride+x] = yy
			if x%2 == 0 && y%2 == 0 {
				i := luma + (y/2)*stride + x
				dst[i] = cb
				dst[i+1] = cr
			}
		}
	}
}

func toYV16(dst []byte, stride int, img image.Image) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	luma := stride * h
	cstride := stride / 2
	vPlane, uPlane := luma, luma+luma/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yy, cb, cr := ycbcr(img, b.Min.X+x, b.Min.Y+y)
			dst[y*stride+x] = yy
			if x%2 == 0 {
				dst[vPlane+y*cstride+x/2] = cr
				dst[uPlane+y*cstride+x/2] = cb
			}
		}
	}
}
