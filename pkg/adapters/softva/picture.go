package softva

import (
	"bytes"
	"encoding/binary"
	"image/jpeg"

	"github.com/user/vaencoder/pkg/ports"
)

var pictureStartCode = []byte{0x00, 0x00, 0x80}

type picture struct {
	target   ports.SurfaceID
	rendered []ports.BufferID

	jpeg  *ports.JPEGPictureParams
	h263  *ports.H263PictureParams
	slice *ports.SliceParams
}

// BeginPicture starts a picture targeting a surface.
func (d *Driver) BeginPicture(dpy ports.Display, ctxID ports.ContextID, target ports.SurfaceID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	c, ok := ds.contexts[ctxID]
	if !ok {
		return ports.StatusInvalidContext
	}
	if _, ok := ds.surfaces[target]; !ok {
		return ports.StatusInvalidSurface
	}
	if c.picture != nil {
		return ports.StatusOperationFailed
	}
	c.picture = &picture{target: target}
	return nil
}

// RenderPicture snapshots parameter buffers into the current picture.
func (d *Driver) RenderPicture(dpy ports.Display, ctxID ports.ContextID, bufs ...ports.BufferID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	c, ok := ds.contexts[ctxID]
	if !ok {
		return ports.StatusInvalidContext
	}
	if c.picture == nil {
		return ports.StatusOperationFailed
	}

	for _, id := range bufs {
		b, ok := ds.buffers[id]
		if !ok || b.context != ctxID {
			return ports.StatusInvalidBuffer
		}
		if b.mapped {
			return ports.StatusOperationFailed
		}
		switch p := b.params.(type) {
		case *ports.JPEGPictureParams:
			v := *p
			c.picture.jpeg = &v
		case *ports.H263SequenceParams:
			v := *p
			c.seq = &v
		case *ports.H263PictureParams:
			v := *p
			c.picture.h263 = &v
		case *ports.SliceParams:
			v := *p
			c.picture.slice = &v
		default:
			return ports.StatusUnsupportedBufferType
		}
		c.picture.rendered = append(c.picture.rendered, id)
	}
	return nil
}

// EndPicture encodes the current picture into its coded buffer. Rendered
// parameter buffers are consumed.
func (d *Driver) EndPicture(dpy ports.Display, ctxID ports.ContextID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	c, ok := ds.contexts[ctxID]
	if !ok {
		return ports.StatusInvalidContext
	}
	p := c.picture
	if p == nil {
		return ports.StatusOperationFailed
	}
	c.picture = nil
	for _, id := range p.rendered {
		delete(ds.buffers, id)
	}

	target, ok := ds.surfaces[p.target]
	if !ok {
		return ports.StatusInvalidSurface
	}

	switch c.config.profile {
	case ports.ProfileJPEGBaseline:
		if p.jpeg == nil {
			return ports.StatusInvalidParameter
		}
		coded, ok := ds.buffers[p.jpeg.CodedBuf]
		if !ok || coded.typ != ports.BufferEncCoded {
			return ports.StatusInvalidBuffer
		}
		target.result = encodeJPEG(target, p.jpeg, coded)
	case ports.ProfileH263Baseline:
		if c.seq == nil || p.h263 == nil || p.slice == nil {
			return ports.StatusInvalidParameter
		}
		if int(p.slice.SliceHeight)*16 < c.height {
			return ports.StatusInvalidParameter
		}
		coded, ok := ds.buffers[p.h263.CodedBuf]
		if !ok || coded.typ != ports.BufferEncCoded {
			return ports.StatusInvalidBuffer
		}
		ref := ds.surfaces[p.h263.ReferencePicture]
		rec := ds.surfaces[p.h263.ReconstructedPicture]
		target.result = encodeH263(target, ref, rec, c, p.h263, coded)
	default:
		return ports.StatusUnsupportedProfile
	}
	c.frames++
	return nil
}

func encodeJPEG(src *surface, params *ports.JPEGPictureParams, coded *buffer) error {
	if params.PictureWidth != src.width || params.PictureHeight != src.height {
		return ports.StatusInvalidParameter
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, src.image(), &jpeg.Options{Quality: params.Quality}); err != nil {
		return ports.StatusEncodingError
	}
	return store(coded, out.Bytes())
}

// encodeH263 writes a picture record: start code, temporal reference,
// picture type, QP, geometry, then one byte per macroblock holding the mean
// luma (intra) or the signed mean difference from the reference (predictive).
// The reconstructed surface receives a copy of the source luma.
func encodeH263(src, ref, rec *surface, c *vaContext, params *ports.H263PictureParams, coded *buffer) error {
	if params.PictureWidth != src.width || params.PictureHeight != src.height {
		return ports.StatusInvalidParameter
	}

	var out bytes.Buffer
	out.Write(pictureStartCode)
	out.WriteByte(byte(c.frames))
	out.WriteByte(byte(params.PictureType))
	out.WriteByte(byte(c.seq.InitialQP))
	binary.Write(&out, binary.BigEndian, uint16(src.width))
	binary.Write(&out, binary.BigEndian, uint16(src.height))

	mbw, mbh := (src.width+15)/16, (src.height+15)/16
	for my := 0; my < mbh; my++ {
		for mx := 0; mx < mbw; mx++ {
			cur := src.meanLuma(mx, my)
			if params.PictureType == ports.PicturePredictive && ref != nil {
				out.WriteByte(byte(int8(cur/2 - ref.meanLuma(mx, my)/2)))
			} else {
				out.WriteByte(byte(cur))
			}
		}
	}

	if rec != nil && rec != src && rec.width == src.width && rec.height == src.height {
		for y := 0; y < src.height; y++ {
			copy(rec.data[rec.offsets[0]+y*rec.pitches[0]:rec.offsets[0]+y*rec.pitches[0]+src.width],
				src.data[src.offsets[0]+y*src.pitches[0]:])
		}
	}
	return store(coded, out.Bytes())
}

// meanLuma averages the luma samples of one 16x16 macroblock.
func (s *surface) meanLuma(mx, my int) int {
	sum, n := 0, 0
	for y := my * 16; y < my*16+16 && y < s.height; y++ {
		row := s.data[s.offsets[0]+y*s.pitches[0]:]
		for x := mx * 16; x < mx*16+16 && x < s.width; x++ {
			sum += int(row[x])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

func store(coded *buffer, data []byte) error {
	if len(data) > coded.size {
		coded.coded = nil
		return ports.StatusEncodingError
	}
	coded.coded = append(coded.coded[:0], data...)
	return nil
}
