package softva

import (
	"image"

	"github.com/user/vaencoder/pkg/ports"
)

type surface struct {
	width   int
	height  int
	format  ports.RTFormat
	fourcc  ports.FourCC
	pitches [4]int
	offsets [4]int
	data    []byte

	// result is the outcome of the last picture rendered to this surface,
	// reported and cleared by SyncSurface.
	result error
}

// CreateSurface wraps external memory or allocates an NV12 surface.
func (d *Driver) CreateSurface(dpy ports.Display, format ports.RTFormat, width, height int, attribs *ports.SurfaceAttributes) (ports.SurfaceID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return 0, err
	}
	if format&d.opts.Formats == 0 {
		return 0, ports.StatusUnsupportedRTFormat
	}
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return 0, ports.StatusResolutionNotSupported
	}

	s := &surface{width: width, height: height, format: format}
	if attribs == nil || attribs.External == nil {
		stride := (width + 63) &^ 63
		s.fourcc = ports.FourCCNV12
		s.pitches = [4]int{stride, stride, stride, 0}
		s.offsets = [4]int{0, stride * height, stride * height, 0}
		s.data = make([]byte, ports.FrameSize(stride, height, ports.RTFormatYUV420))
	} else {
		ext := attribs.External
		if attribs.MemoryType != ports.MemoryUserPtr && attribs.MemoryType != ports.MemoryGralloc {
			return 0, ports.StatusInvalidParameter
		}
		if len(ext.Buffers) != 1 || ext.NumPlanes < 2 {
			return 0, ports.StatusInvalidParameter
		}
		if ext.Width != width || ext.Height != height {
			return 0, ports.StatusInvalidParameter
		}
		if len(ext.Buffers[0]) < ext.DataSize {
			return 0, ports.StatusInvalidParameter
		}
		switch ext.PixelFormat {
		case ports.FourCCNV12, ports.FourCCYV16:
		default:
			return 0, ports.StatusInvalidImageFormat
		}
		s.fourcc = ext.PixelFormat
		s.pitches = ext.Pitches
		s.offsets = ext.Offsets
		s.data = ext.Buffers[0]
	}

	id := ports.SurfaceID(d.id())
	ds.surfaces[id] = s
	return id, nil
}

// DestroySurface forgets a surface. External memory is left untouched.
func (d *Driver) DestroySurface(dpy ports.Display, id ports.SurfaceID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	if _, ok := ds.surfaces[id]; !ok {
		return ports.StatusInvalidSurface
	}
	delete(ds.surfaces, id)
	return nil
}

// SyncSurface returns the outcome of the last picture rendered to the surface.
func (d *Driver) SyncSurface(dpy ports.Display, id ports.SurfaceID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	s, ok := ds.surfaces[id]
	if !ok {
		return ports.StatusInvalidSurface
	}
	result := s.result
	s.result = nil
	return result
}

// image returns a YCbCr view of the surface content.
func (s *surface) image() *image.YCbCr {
	rect := image.Rect(0, 0, s.width, s.height)
	if s.fourcc == ports.FourCCYV16 {
		img := image.NewYCbCr(rect, image.YCbCrSubsampleRatio422)
		cw := s.width / 2
		for y := 0; y < s.height; y++ {
			copy(img.Y[y*img.YStride:y*img.YStride+s.width], s.data[s.offsets[0]+y*s.pitches[0]:])
			copy(img.Cr[y*img.CStride:y*img.CStride+cw], s.data[s.offsets[1]+y*s.pitches[1]:])
			copy(img.Cb[y*img.CStride:y*img.CStride+cw], s.data[s.offsets[2]+y*s.pitches[2]:])
		}
		return img
	}

	img := image.NewYCbCr(rect, image.YCbCrSubsampleRatio420)
	for y := 0; y < s.height; y++ {
		copy(img.Y[y*img.YStride:y*img.YStride+s.width], s.data[s.offsets[0]+y*s.pitches[0]:])
	}
	for y := 0; y < s.height/2; y++ {
		row := s.data[s.offsets[1]+y*s.pitches[1]:]
		for x := 0; x < s.width/2; x++ {
			img.Cb[y*img.CStride+x] = row[2*x]
			img.Cr[y*img.CStride+x] = row[2*x+1]
		}
	}
	return img
}
