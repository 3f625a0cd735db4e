package ports

import "fmt"

// Handles returned by the driver. The zero value of every handle means "none".
type (
	Display   uintptr
	SurfaceID uint32
	ConfigID  uint32
	ContextID uint32
	BufferID  uint32
)

// Status is a driver status code. Success is never returned as an error.
type Status uint32

// Driver status codes, numbered as in libva.
const (
	StatusSuccess                Status = 0x00
	StatusOperationFailed        Status = 0x01
	StatusAllocationFailed       Status = 0x02
	StatusInvalidDisplay         Status = 0x03
	StatusInvalidConfig          Status = 0x04
	StatusInvalidContext         Status = 0x05
	StatusInvalidSurface         Status = 0x06
	StatusInvalidBuffer          Status = 0x07
	StatusUnsupportedProfile     Status = 0x0c
	StatusUnsupportedEntrypoint  Status = 0x0d
	StatusUnsupportedRTFormat    Status = 0x0e
	StatusUnsupportedBufferType  Status = 0x0f
	StatusSurfaceBusy            Status = 0x10
	StatusInvalidParameter       Status = 0x12
	StatusResolutionNotSupported Status = 0x13
	StatusUnimplemented          Status = 0x14
	StatusInvalidImageFormat     Status = 0x16
	StatusEncodingError          Status = 0x18
)

var statusNames = map[Status]string{
	StatusSuccess:                "success",
	StatusOperationFailed:        "operation failed",
	StatusAllocationFailed:       "allocation failed",
	StatusInvalidDisplay:         "invalid display",
	StatusInvalidConfig:          "invalid config",
	StatusInvalidContext:         "invalid context",
	StatusInvalidSurface:         "invalid surface",
	StatusInvalidBuffer:          "invalid buffer",
	StatusUnsupportedProfile:     "unsupported profile",
	StatusUnsupportedEntrypoint:  "unsupported entrypoint",
	StatusUnsupportedRTFormat:    "unsupported RT format",
	StatusUnsupportedBufferType:  "unsupported buffer type",
	StatusSurfaceBusy:            "surface busy",
	StatusInvalidParameter:       "invalid parameter",
	StatusResolutionNotSupported: "resolution not supported",
	StatusUnimplemented:          "unimplemented",
	StatusInvalidImageFormat:     "invalid image format",
	StatusEncodingError:          "encoding error",
}

// Error implements the error interface.
func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return fmt.Sprintf("va status 0x%02x (%s)", uint32(s), name)
	}
	return fmt.Sprintf("va status 0x%02x", uint32(s))
}

// Profile identifies a codec profile.
type Profile int

const (
	ProfileH263Baseline Profile = 11
	ProfileJPEGBaseline Profile = 12
)

// Entrypoint identifies how a profile is driven.
type Entrypoint int

const (
	EntrypointEncSlice   Entrypoint = 6
	EntrypointEncPicture Entrypoint = 7
)

// RTFormat is a render-target format bit. Several bits form a mask.
type RTFormat uint32

const (
	RTFormatYUV420 RTFormat = 0x00000001
	RTFormatYUV422 RTFormat = 0x00000002
)

// String returns the chroma layout name.
func (f RTFormat) String() string {
	switch f {
	case RTFormatYUV420:
		return "yuv420"
	case RTFormatYUV422:
		return "yuv422"
	default:
		return fmt.Sprintf("rtformat(0x%x)", uint32(f))
	}
}

// FourCC is a pixel layout code.
type FourCC uint32

func fourcc(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

var (
	FourCCNV12 = fourcc('N', 'V', '1', '2')
	FourCCYV16 = fourcc('Y', 'V', '1', '6')
)

// MemoryType is the kind of external memory wrapped by a surface.
type MemoryType uint32

const (
	MemoryUserPtr MemoryType = 0x00000004
	MemoryGralloc MemoryType = 0x00100000
)

// String returns the memory kind name.
func (m MemoryType) String() string {
	switch m {
	case MemoryUserPtr:
		return "user-ptr"
	case MemoryGralloc:
		return "gralloc"
	default:
		return fmt.Sprintf("memory(0x%x)", uint32(m))
	}
}

// ConfigAttribType selects a config attribute.
type ConfigAttribType int

const (
	ConfigAttribRTFormat    ConfigAttribType = 0
	ConfigAttribRateControl ConfigAttribType = 5
)

// ConfigAttrib is a typed config attribute value.
type ConfigAttrib struct {
	Type  ConfigAttribType
	Value uint32
}

// RateControlMode is a rate-control bit, passed through to the driver unchanged.
type RateControlMode uint32

const (
	RateControlNone RateControlMode = 0x00000001
	RateControlCBR  RateControlMode = 0x00000002
	RateControlVBR  RateControlMode = 0x00000004
	RateControlVCM  RateControlMode = 0x00000008
)

// ProgressiveFlag is the only context flag the encoders use.
const ProgressiveFlag = 0x1

// BufferType identifies the content of a driver buffer.
type BufferType int

const (
	BufferEncCoded         BufferType = 21
	BufferEncSequenceParam BufferType = 22
	BufferEncPictureParam  BufferType = 23
	BufferEncSliceParam    BufferType = 24
)

// ExternalBuffers describes caller memory a surface wraps without copying.
type ExternalBuffers struct {
	PixelFormat FourCC
	Width       int
	Height      int
	DataSize    int
	NumPlanes   int
	Pitches     [4]int
	Offsets     [4]int
	// Buffers carries one entry per physical buffer; the encoders always pass one.
	Buffers [][]byte
	Flags   uint32
}

// SurfaceAttributes are passed to Driver.CreateSurface. A nil value asks the
// driver to allocate the surface memory itself.
type SurfaceAttributes struct {
	MemoryType MemoryType
	External   *ExternalBuffers
}

// CodedSegment is one link of the coded-data list in a mapped coded buffer.
type CodedSegment struct {
	BitOffset uint32
	Status    uint32
	Buf       []byte
	Next      *CodedSegment
}

// JPEGPictureFlags mirrors the JPEG picture flag bits.
type JPEGPictureFlags struct {
	Profile      uint32
	Progressive  bool
	Huffman      bool
	Interleaved  bool
	Differential bool
}

// JPEGPictureParams is the picture parameter buffer of the JPEG baseline profile.
type JPEGPictureParams struct {
	PictureWidth         int
	PictureHeight        int
	ReconstructedPicture SurfaceID
	CodedBuf             BufferID
	Flags                JPEGPictureFlags
	SampleBitDepth       int
	NumComponents        int
	Quality              int
}

// PictureType selects intra or predictive coding.
type PictureType int

const (
	PictureIntra      PictureType = 0
	PicturePredictive PictureType = 1
)

// H263SequenceParams is the H.263 sequence parameter buffer.
type H263SequenceParams struct {
	BitsPerSecond uint32
	FrameRate     uint32
	InitialQP     uint32
	MinQP         uint32
	IntraPeriod   uint32
}

// H263PictureParams is the H.263 picture parameter buffer.
type H263PictureParams struct {
	ReferencePicture     SurfaceID
	ReconstructedPicture SurfaceID
	CodedBuf             BufferID
	PictureWidth         int
	PictureHeight        int
	PictureType          PictureType
}

// SliceParams is the generic encoder slice parameter buffer.
type SliceParams struct {
	StartRowNumber             uint32
	SliceHeight                uint32
	IsIntra                    bool
	DisableDeblockingFilterIDC uint32
}
