package ports

// FrameSize returns the bytes a frame of the given stride, height and format occupies.
func FrameSize(stride, height int, format RTFormat) int {
	if format == RTFormatYUV422 {
		return stride * height * 2
	}
	return stride * height * 3 / 2
}

// NewExternalBuffers describes a single caller buffer holding one frame.
// 4:2:0 frames are NV12 (luma plane, then interleaved chroma at full stride);
// 4:2:2 frames are YV16 (luma, then V and U planes at half stride).
func NewExternalBuffers(buf []byte, width, height, stride int, format RTFormat) *ExternalBuffers {
	eb := &ExternalBuffers{
		Width:     width,
		Height:    height,
		DataSize:  FrameSize(stride, height, format),
		NumPlanes: 3,
		Buffers:   [][]byte{buf},
	}
	luma := stride * height
	switch format {
	case RTFormatYUV422:
		eb.PixelFormat = FourCCYV16
		eb.Pitches = [4]int{stride, stride / 2, stride / 2, 0}
		eb.Offsets = [4]int{0, luma, luma + luma/2, 0}
	default:
		eb.PixelFormat = FourCCNV12
		eb.Pitches = [4]int{stride, stride, stride, 0}
		eb.Offsets = [4]int{0, luma, luma, 0}
	}
	return eb
}
