package videoencoder

import (
	"fmt"
	"strings"

	"github.com/user/vaencoder/pkg/encerr"
)

// Codec identifies a video codec by the sample program's numbering.
type Codec int

const (
	CodecH264 Codec = iota
	CodecMPEG4
	CodecH263
)

var mimeTypes = map[Codec]string{
	CodecH264:  "video/h264",
	CodecMPEG4: "video/mpeg4",
	CodecH263:  "video/h263",
}

// MIMEType returns the codec's MIME type, or "" for an unknown codec.
func (c Codec) MIMEType() string {
	return mimeTypes[c]
}

func (c Codec) String() string {
	switch c {
	case CodecH264:
		return "h264"
	case CodecMPEG4:
		return "mpeg4"
	case CodecH263:
		return "h263"
	default:
		return fmt.Sprintf("codec(%d)", int(c))
	}
}

// ParseCodec accepts a short name, a MIME type or a numeric identifier.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h264", "avc", "video/h264", "0":
		return CodecH264, nil
	case "mpeg4", "video/mpeg4", "1":
		return CodecMPEG4, nil
	case "h263", "video/h263", "2":
		return CodecH263, nil
	}
	return 0, fmt.Errorf("videoencoder: unknown codec %q: %w", s, encerr.ErrInvalidParameter)
}
