package softva

import (
	"bytes"
	"errors"
	"image/jpeg"
	"testing"

	"github.com/user/vaencoder/pkg/ports"
)

func open(t *testing.T, d *Driver) ports.Display {
	t.Helper()
	dpy, err := d.GetDisplay()
	if err != nil {
		t.Fatalf("GetDisplay failed: %v", err)
	}
	if _, _, err := d.Initialize(dpy); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return dpy
}

// external wraps a flat luma-filled NV12 frame.
func external(t *testing.T, d *Driver, dpy ports.Display, w, h int, luma byte) (ports.SurfaceID, []byte) {
	t.Helper()
	buf := make([]byte, ports.FrameSize(w, h, ports.RTFormatYUV420))
	for i := range buf[:w*h] {
		buf[i] = luma
	}
	for i := w * h; i < len(buf); i++ {
		buf[i] = 128
	}
	attribs := &ports.SurfaceAttributes{
		MemoryType: ports.MemoryGralloc,
		External:   ports.NewExternalBuffers(buf, w, h, w, ports.RTFormatYUV420),
	}
	id, err := d.CreateSurface(dpy, ports.RTFormatYUV420, w, h, attribs)
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	return id, buf
}

func coded(t *testing.T, d *Driver, dpy ports.Display, id ports.BufferID) []byte {
	t.Helper()
	mapped, err := d.MapBuffer(dpy, id)
	if err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	var out []byte
	for seg := mapped.(*ports.CodedSegment); seg != nil; seg = seg.Next {
		out = append(out, seg.Buf...)
	}
	if err := d.UnmapBuffer(dpy, id); err != nil {
		t.Fatalf("UnmapBuffer failed: %v", err)
	}
	return out
}

func TestDriver_DisplayLifecycle(t *testing.T) {
	d := New()
	dpy, err := d.GetDisplay()
	if err != nil {
		t.Fatalf("GetDisplay failed: %v", err)
	}
	if _, err := d.QueryVendorString(dpy); !errors.Is(err, ports.StatusInvalidDisplay) {
		t.Errorf("uninitialized display: expected invalid display, got %v", err)
	}

	major, minor, err := d.Initialize(dpy)
	if err != nil || major != 1 || minor != 16 {
		t.Fatalf("Initialize = %d.%d, %v", major, minor, err)
	}
	vendor, err := d.QueryVendorString(dpy)
	if err != nil || vendor != d.Vendor() {
		t.Errorf("QueryVendorString = %q, %v, want %q", vendor, err, d.Vendor())
	}

	external(t, d, dpy, 32, 32, 16)
	if _, _, surfaces, _ := d.Objects(dpy); surfaces != 1 {
		t.Errorf("expected 1 surface, got %d", surfaces)
	}

	if err := d.Terminate(dpy); err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}
	if d.Displays() != 0 {
		t.Errorf("expected no open displays, got %d", d.Displays())
	}
	if err := d.Terminate(dpy); !errors.Is(err, ports.StatusInvalidDisplay) {
		t.Errorf("double terminate: expected invalid display, got %v", err)
	}
}

func TestDriver_Capabilities(t *testing.T) {
	d := NewWithOptions(Options{Formats: ports.RTFormatYUV420, Profiles: []ports.Profile{ports.ProfileJPEGBaseline}})
	dpy := open(t, d)

	eps, err := d.QueryConfigEntrypoints(dpy, ports.ProfileJPEGBaseline)
	if err != nil || len(eps) != 1 || eps[0] != ports.EntrypointEncPicture {
		t.Errorf("JPEG entrypoints = %v, %v", eps, err)
	}
	if _, err := d.QueryConfigEntrypoints(dpy, ports.ProfileH263Baseline); !errors.Is(err, ports.StatusUnsupportedProfile) {
		t.Errorf("expected unsupported profile, got %v", err)
	}

	attribs := []ports.ConfigAttrib{{Type: ports.ConfigAttribRTFormat}, {Type: ports.ConfigAttribRateControl}}
	if err := d.GetConfigAttributes(dpy, ports.ProfileJPEGBaseline, ports.EntrypointEncPicture, attribs); err != nil {
		t.Fatalf("GetConfigAttributes failed: %v", err)
	}
	if ports.RTFormat(attribs[0].Value) != ports.RTFormatYUV420 {
		t.Errorf("format mask 0x%x", attribs[0].Value)
	}
	if ports.RateControlMode(attribs[1].Value)&ports.RateControlVBR == 0 {
		t.Errorf("rate-control mask 0x%x lacks VBR", attribs[1].Value)
	}
	if err := d.GetConfigAttributes(dpy, ports.ProfileJPEGBaseline, ports.EntrypointEncSlice, attribs); !errors.Is(err, ports.StatusUnsupportedEntrypoint) {
		t.Errorf("expected unsupported entrypoint, got %v", err)
	}

	_, err = d.CreateConfig(dpy, ports.ProfileJPEGBaseline, ports.EntrypointEncPicture,
		[]ports.ConfigAttrib{{Type: ports.ConfigAttribRTFormat, Value: uint32(ports.RTFormatYUV422)}})
	if !errors.Is(err, ports.StatusUnsupportedRTFormat) {
		t.Errorf("expected unsupported RT format, got %v", err)
	}
	if _, err := d.CreateSurface(dpy, ports.RTFormatYUV422, 32, 32, nil); !errors.Is(err, ports.StatusUnsupportedRTFormat) {
		t.Errorf("expected unsupported RT format for a 4:2:2 surface, got %v", err)
	}
	if _, err := d.CreateSurface(dpy, ports.RTFormatYUV420, 33, 32, nil); !errors.Is(err, ports.StatusResolutionNotSupported) {
		t.Errorf("expected unsupported resolution, got %v", err)
	}
}

func TestDriver_ExternalSurfaceValidation(t *testing.T) {
	d := New()
	dpy := open(t, d)
	buf := make([]byte, ports.FrameSize(64, 32, ports.RTFormatYUV420))

	tests := []struct {
		name   string
		mutate func(a *ports.SurfaceAttributes)
		want   ports.Status
	}{
		{"memory type", func(a *ports.SurfaceAttributes) { a.MemoryType = 0x1 }, ports.StatusInvalidParameter},
		{"geometry", func(a *ports.SurfaceAttributes) { a.External.Width = 62 }, ports.StatusInvalidParameter},
		{"short buffer", func(a *ports.SurfaceAttributes) { a.External.Buffers = [][]byte{buf[:100]} }, ports.StatusInvalidParameter},
		{"fourcc", func(a *ports.SurfaceAttributes) { a.External.PixelFormat = 0x32315659 }, ports.StatusInvalidImageFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &ports.SurfaceAttributes{MemoryType: ports.MemoryUserPtr, External: ports.NewExternalBuffers(buf, 64, 32, 64, ports.RTFormatYUV420)}
			tt.mutate(a)
			if _, err := d.CreateSurface(dpy, ports.RTFormatYUV420, 64, 32, a); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDriver_JPEG(t *testing.T) {
	d := NewWithOptions(Options{SegmentSize: 100})
	dpy := open(t, d)
	src, _ := external(t, d, dpy, 64, 32, 200)

	cfg, err := d.CreateConfig(dpy, ports.ProfileJPEGBaseline, ports.EntrypointEncPicture, nil)
	if err != nil {
		t.Fatalf("CreateConfig failed: %v", err)
	}
	ctx, err := d.CreateContext(dpy, cfg, 64, 32, ports.ProgressiveFlag, []ports.SurfaceID{src})
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	buf, err := d.CreateBuffer(dpy, ctx, ports.BufferEncCoded, 8192, nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}

	if err := d.BeginPicture(dpy, ctx, src); err != nil {
		t.Fatalf("BeginPicture failed: %v", err)
	}
	if err := d.BeginPicture(dpy, ctx, src); !errors.Is(err, ports.StatusOperationFailed) {
		t.Errorf("nested BeginPicture: expected operation failed, got %v", err)
	}
	params, err := d.CreateBuffer(dpy, ctx, ports.BufferEncPictureParam, 0,
		&ports.JPEGPictureParams{PictureWidth: 64, PictureHeight: 32, CodedBuf: buf, Quality: 90})
	if err != nil {
		t.Fatalf("CreateBuffer for parameters failed: %v", err)
	}
	if err := d.RenderPicture(dpy, ctx, params); err != nil {
		t.Fatalf("RenderPicture failed: %v", err)
	}
	if err := d.EndPicture(dpy, ctx); err != nil {
		t.Fatalf("EndPicture failed: %v", err)
	}
	if err := d.DestroyBuffer(dpy, params); !errors.Is(err, ports.StatusInvalidBuffer) {
		t.Errorf("rendered parameters must be consumed, got %v", err)
	}
	if err := d.SyncSurface(dpy, src); err != nil {
		t.Fatalf("SyncSurface failed: %v", err)
	}

	mapped, err := d.MapBuffer(dpy, buf)
	if err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	if seg := mapped.(*ports.CodedSegment); len(seg.Buf) != 100 || seg.Next == nil {
		t.Errorf("expected 100-byte segments, first is %d", len(seg.Buf))
	}
	d.UnmapBuffer(dpy, buf)

	img, err := jpeg.Decode(bytes.NewReader(coded(t, d, dpy, buf)))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("decoded %v", b)
	}

	if err := d.DestroyContext(dpy, ctx); err != nil {
		t.Fatalf("DestroyContext failed: %v", err)
	}
	if _, _, _, buffers := d.Objects(dpy); buffers != 0 {
		t.Errorf("context buffers leaked: %d", buffers)
	}
}

func TestDriver_JPEGOverflow(t *testing.T) {
	d := New()
	dpy := open(t, d)
	src, _ := external(t, d, dpy, 64, 32, 200)
	cfg, _ := d.CreateConfig(dpy, ports.ProfileJPEGBaseline, ports.EntrypointEncPicture, nil)
	ctx, _ := d.CreateContext(dpy, cfg, 64, 32, ports.ProgressiveFlag, nil)
	buf, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncCoded, 16, nil)

	d.BeginPicture(dpy, ctx, src)
	params, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncPictureParam, 0,
		&ports.JPEGPictureParams{PictureWidth: 64, PictureHeight: 32, CodedBuf: buf, Quality: 50})
	d.RenderPicture(dpy, ctx, params)
	if err := d.EndPicture(dpy, ctx); err != nil {
		t.Fatalf("EndPicture failed: %v", err)
	}
	if err := d.SyncSurface(dpy, src); !errors.Is(err, ports.StatusEncodingError) {
		t.Errorf("expected encoding error for a too-small coded buffer, got %v", err)
	}
	if err := d.SyncSurface(dpy, src); err != nil {
		t.Errorf("the outcome is reported once, got %v", err)
	}
}

func TestDriver_RenderRejectsMappedBuffer(t *testing.T) {
	d := New()
	dpy := open(t, d)
	src, _ := external(t, d, dpy, 32, 32, 0)
	cfg, _ := d.CreateConfig(dpy, ports.ProfileH263Baseline, ports.EntrypointEncSlice, nil)
	ctx, _ := d.CreateContext(dpy, cfg, 32, 32, ports.ProgressiveFlag, nil)

	slice, err := d.CreateBuffer(dpy, ctx, ports.BufferEncSliceParam, 0, nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	mapped, err := d.MapBuffer(dpy, slice)
	if err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	if _, ok := mapped.(*ports.SliceParams); !ok {
		t.Fatalf("slice buffer mapped to %T", mapped)
	}

	d.BeginPicture(dpy, ctx, src)
	if err := d.RenderPicture(dpy, ctx, slice); !errors.Is(err, ports.StatusOperationFailed) {
		t.Errorf("expected operation failed for a mapped buffer, got %v", err)
	}
	if _, err := d.CreateBuffer(dpy, ctx, ports.BufferEncSliceParam, 0, &ports.JPEGPictureParams{}); !errors.Is(err, ports.StatusInvalidParameter) {
		t.Errorf("expected invalid parameter for mismatched data, got %v", err)
	}
}

func TestDriver_H263Record(t *testing.T) {
	d := New()
	dpy := open(t, d)
	src, _ := external(t, d, dpy, 32, 32, 100)
	ref, err := d.CreateSurface(dpy, ports.RTFormatYUV420, 32, 32, nil)
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	rec, _ := d.CreateSurface(dpy, ports.RTFormatYUV420, 32, 32, nil)

	cfg, err := d.CreateConfig(dpy, ports.ProfileH263Baseline, ports.EntrypointEncSlice,
		[]ports.ConfigAttrib{{Type: ports.ConfigAttribRateControl, Value: uint32(ports.RateControlVBR)}})
	if err != nil {
		t.Fatalf("CreateConfig failed: %v", err)
	}
	ctx, _ := d.CreateContext(dpy, cfg, 32, 32, ports.ProgressiveFlag, []ports.SurfaceID{ref, rec})
	out, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncCoded, 1024, nil)
	seq, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncSequenceParam, 0, &ports.H263SequenceParams{InitialQP: 15, IntraPeriod: 30})

	picture := func(typ ports.PictureType) {
		t.Helper()
		if err := d.BeginPicture(dpy, ctx, src); err != nil {
			t.Fatalf("BeginPicture failed: %v", err)
		}
		pic, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncPictureParam, 0, &ports.H263PictureParams{
			ReferencePicture: ref, ReconstructedPicture: rec, CodedBuf: out,
			PictureWidth: 32, PictureHeight: 32, PictureType: typ,
		})
		slice, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncSliceParam, 0, &ports.SliceParams{SliceHeight: 2, IsIntra: typ == ports.PictureIntra})
		bufs := []ports.BufferID{pic, slice}
		if seq != 0 {
			bufs = append([]ports.BufferID{seq}, bufs...)
			seq = 0
		}
		if err := d.RenderPicture(dpy, ctx, bufs...); err != nil {
			t.Fatalf("RenderPicture failed: %v", err)
		}
		if err := d.EndPicture(dpy, ctx); err != nil {
			t.Fatalf("EndPicture failed: %v", err)
		}
		if err := d.SyncSurface(dpy, src); err != nil {
			t.Fatalf("SyncSurface failed: %v", err)
		}
	}

	picture(ports.PictureIntra)
	want := []byte{0x00, 0x00, 0x80, 0, byte(ports.PictureIntra), 15, 0x00, 0x20, 0x00, 0x20, 100, 100, 100, 100}
	if got := coded(t, d, dpy, out); !bytes.Equal(got, want) {
		t.Errorf("intra record\n got %v\nwant %v", got, want)
	}

	// The reference is still black, so every macroblock differs by 50.
	picture(ports.PicturePredictive)
	want = []byte{0x00, 0x00, 0x80, 1, byte(ports.PicturePredictive), 15, 0x00, 0x20, 0x00, 0x20, 50, 50, 50, 50}
	if got := coded(t, d, dpy, out); !bytes.Equal(got, want) {
		t.Errorf("predictive record\n got %v\nwant %v", got, want)
	}
}

func TestDriver_H263RequiresSequence(t *testing.T) {
	d := New()
	dpy := open(t, d)
	src, _ := external(t, d, dpy, 32, 32, 100)
	cfg, _ := d.CreateConfig(dpy, ports.ProfileH263Baseline, ports.EntrypointEncSlice, nil)
	ctx, _ := d.CreateContext(dpy, cfg, 32, 32, ports.ProgressiveFlag, nil)
	out, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncCoded, 1024, nil)

	d.BeginPicture(dpy, ctx, src)
	pic, _ := d.CreateBuffer(dpy, ctx, ports.BufferEncPictureParam, 0, &ports.H263PictureParams{CodedBuf: out, PictureWidth: 32, PictureHeight: 32})
	d.RenderPicture(dpy, ctx, pic)
	if err := d.EndPicture(dpy, ctx); !errors.Is(err, ports.StatusInvalidParameter) {
		t.Errorf("expected invalid parameter without sequence parameters, got %v", err)
	}
}
