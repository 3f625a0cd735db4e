package softva

import (
	"github.com/user/vaencoder/pkg/ports"
)

type buffer struct {
	typ     ports.BufferType
	context ports.ContextID
	size    int
	params  any
	coded   []byte
	mapped  bool
}

// CreateBuffer creates a coded buffer of size bytes or a parameter buffer
// holding a copy of data.
func (d *Driver) CreateBuffer(dpy ports.Display, ctxID ports.ContextID, typ ports.BufferType, size int, data any) (ports.BufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return 0, err
	}
	if _, ok := ds.contexts[ctxID]; !ok {
		return 0, ports.StatusInvalidContext
	}

	b := &buffer{typ: typ, context: ctxID, size: size}
	switch typ {
	case ports.BufferEncCoded:
		if size <= 0 || data != nil {
			return 0, ports.StatusInvalidParameter
		}
	case ports.BufferEncSequenceParam, ports.BufferEncPictureParam, ports.BufferEncSliceParam:
		params, err := copyParams(typ, data)
		if err != nil {
			return 0, err
		}
		b.params = params
	default:
		return 0, ports.StatusUnsupportedBufferType
	}

	id := ports.BufferID(d.id())
	ds.buffers[id] = b
	return id, nil
}

// copyParams returns a private copy of data, or a zero parameter struct when
// data is nil. The picture parameter type is inferred from data.
func copyParams(typ ports.BufferType, data any) (any, error) {
	switch v := data.(type) {
	case nil:
		switch typ {
		case ports.BufferEncSequenceParam:
			return &ports.H263SequenceParams{}, nil
		case ports.BufferEncSliceParam:
			return &ports.SliceParams{}, nil
		default:
			return &ports.H263PictureParams{}, nil
		}
	case *ports.H263SequenceParams:
		if typ == ports.BufferEncSequenceParam {
			c := *v
			return &c, nil
		}
	case *ports.JPEGPictureParams:
		if typ == ports.BufferEncPictureParam {
			c := *v
			return &c, nil
		}
	case *ports.H263PictureParams:
		if typ == ports.BufferEncPictureParam {
			c := *v
			return &c, nil
		}
	case *ports.SliceParams:
		if typ == ports.BufferEncSliceParam {
			c := *v
			return &c, nil
		}
	}
	return nil, ports.StatusInvalidParameter
}

// MapBuffer maps a buffer. A coded buffer maps to its segment list, split
// into SegmentSize pieces; a parameter buffer maps to its struct pointer.
func (d *Driver) MapBuffer(dpy ports.Display, id ports.BufferID) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return nil, err
	}
	b, ok := ds.buffers[id]
	if !ok {
		return nil, ports.StatusInvalidBuffer
	}
	b.mapped = true

	if b.typ != ports.BufferEncCoded {
		return b.params, nil
	}
	return segments(b.coded, d.opts.SegmentSize), nil
}

// segments splits data into a linked list. Empty data yields one empty segment.
func segments(data []byte, size int) *ports.CodedSegment {
	head := &ports.CodedSegment{}
	cur := head
	for {
		n := len(data)
		if n > size {
			n = size
		}
		cur.Buf = data[:n:n]
		data = data[n:]
		if len(data) == 0 {
			return head
		}
		cur.Next = &ports.CodedSegment{}
		cur = cur.Next
	}
}

// UnmapBuffer ends a mapping started by MapBuffer.
func (d *Driver) UnmapBuffer(dpy ports.Display, id ports.BufferID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	b, ok := ds.buffers[id]
	if !ok {
		return ports.StatusInvalidBuffer
	}
	if !b.mapped {
		return ports.StatusOperationFailed
	}
	b.mapped = false
	return nil
}

// DestroyBuffer forgets a buffer.
func (d *Driver) DestroyBuffer(dpy ports.Display, id ports.BufferID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	if _, ok := ds.buffers[id]; !ok {
		return ports.StatusInvalidBuffer
	}
	delete(ds.buffers, id)
	return nil
}
