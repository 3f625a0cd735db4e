// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/user/vaencoder/pkg/imageencoder"
	"github.com/user/vaencoder/pkg/orchestrator"
	"github.com/user/vaencoder/pkg/ports"
	"github.com/user/vaencoder/pkg/videoencoder"
)

// CodecJPEG selects the still-image encoder.
const CodecJPEG = "jpeg"

// Config represents the full configuration for vaencoder.
type Config struct {
	// Job
	Codec  string `yaml:"codec"`
	Output string `yaml:"output"`

	// Source frames
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Stride       int    `yaml:"stride"`
	Format       string `yaml:"format"`
	Frames       int    `yaml:"frames"`
	SourceFrames int    `yaml:"source_frames"`
	Mode         string `yaml:"mode"`
	Background   string `yaml:"background"`

	// JPEG
	Quality int `yaml:"quality"`

	// Video
	Video VideoConfig `yaml:"video"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// VideoConfig represents the stream parameters of a video job.
type VideoConfig struct {
	FrameRate   int    `yaml:"frame_rate"`
	Bitrate     int    `yaml:"bitrate"`
	RateControl string `yaml:"rate_control"`
	IntraPeriod int    `yaml:"intra_period"`
	InitQP      int    `yaml:"init_qp"`
	MinQP       int    `yaml:"min_qp"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Codec: CodecJPEG,

		Width:        1280,
		Height:       720,
		Stride:       1280,
		Format:       "yuv420",
		Frames:       15,
		SourceFrames: 8,
		Mode:         string(orchestrator.SourceMalloc),

		Quality: imageencoder.DefaultQuality,

		Video: VideoConfig{
			FrameRate:   30,
			Bitrate:     1280000,
			RateControl: "cbr",
			IntraPeriod: 30,
			InitQP:      15,
			MinQP:       1,
		},

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default.
func LoadFromFile(fs ports.FileSystem, path string) (Config, error) {
	cfg := Defaults()

	data, err := fs.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// OutputPath returns Output, or the default target of the codec: a frame
// directory for JPEG and a stream file otherwise.
func (c Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	if c.isJPEG() {
		return "frames"
	}
	return "out." + strings.ToLower(c.Codec)
}

func (c Config) isJPEG() bool {
	return strings.EqualFold(c.Codec, CodecJPEG)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...interface{}) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	maxSources := imageencoder.MaxBuffers
	if !c.isJPEG() {
		maxSources = videoencoder.MaxInputs
		if _, err := videoencoder.ParseCodec(c.Codec); err != nil {
			add("codec %q is not one of jpeg, h263, h264, mpeg4", c.Codec)
		}
	}

	if c.Width <= 0 || c.Height <= 0 {
		add("invalid geometry %dx%d", c.Width, c.Height)
	}
	if c.Stride < c.Width {
		add("stride %d is below width %d", c.Stride, c.Width)
	}
	if _, err := ParseFormat(c.Format); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Frames <= 0 {
		add("frames must be positive, got %d", c.Frames)
	}
	if c.SourceFrames <= 0 || c.SourceFrames > maxSources {
		add("source_frames must be within [1, %d], got %d", maxSources, c.SourceFrames)
	}
	if _, err := ParseMode(c.Mode); err != nil {
		result = multierror.Append(result, err)
	}

	if c.isJPEG() {
		if c.Quality < imageencoder.MinQuality || c.Quality > imageencoder.MaxQuality {
			add("quality must be within [%d, %d], got %d", imageencoder.MinQuality, imageencoder.MaxQuality, c.Quality)
		}
	} else {
		v := c.Video
		if v.FrameRate <= 0 {
			add("video.frame_rate must be positive, got %d", v.FrameRate)
		}
		if v.Bitrate <= 0 {
			add("video.bitrate must be positive, got %d", v.Bitrate)
		}
		if _, err := ParseRateControl(v.RateControl); err != nil {
			result = multierror.Append(result, err)
		}
		if v.IntraPeriod < 0 {
			add("video.intra_period must not be negative, got %d", v.IntraPeriod)
		}
		if v.MinQP < 1 || v.InitQP > 31 || v.MinQP > v.InitQP {
			add("video QP range %d..%d is outside 1..31", v.MinQP, v.InitQP)
		}
	}

	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "golog" {
		add("log_format must be console or golog, got %q", c.LogFormat)
	}

	return result.ErrorOrNil()
}

// ParseFormat parses a source format name.
func ParseFormat(s string) (ports.RTFormat, error) {
	switch strings.ToLower(s) {
	case "yuv420", "420", "nv12":
		return ports.RTFormatYUV420, nil
	case "yuv422", "422", "yv16":
		return ports.RTFormatYUV422, nil
	}
	return 0, fmt.Errorf("format %q is not one of yuv420, yuv422", s)
}

// ParseRateControl parses a rate-control name or its legacy numeric mode
// (0 none, 1 cbr, 2 vbr, 3 vcm).
func ParseRateControl(s string) (ports.RateControlMode, error) {
	switch strings.ToLower(s) {
	case "none", "0":
		return ports.RateControlNone, nil
	case "cbr", "1":
		return ports.RateControlCBR, nil
	case "vbr", "2":
		return ports.RateControlVBR, nil
	case "vcm", "3":
		return ports.RateControlVCM, nil
	}
	return 0, fmt.Errorf("rate control %q is not one of none, cbr, vbr, vcm", s)
}

// ParseMode parses a source mode name.
func ParseMode(s string) (orchestrator.SourceMode, error) {
	switch m := orchestrator.SourceMode(strings.ToLower(s)); m {
	case orchestrator.SourceMalloc, orchestrator.SourceGralloc:
		return m, nil
	}
	return "", fmt.Errorf("mode %q is not one of malloc, gralloc", s)
}

// ToOrchestratorConfig validates c and converts it to orchestrator.Config.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	if err := c.Validate(); err != nil {
		return orchestrator.Config{}, err
	}

	format, _ := ParseFormat(c.Format)
	mode, _ := ParseMode(c.Mode)
	oc := orchestrator.Config{
		Job:          orchestrator.JobJPEG,
		Width:        c.Width,
		Height:       c.Height,
		Stride:       c.Stride,
		Format:       format,
		Frames:       c.Frames,
		SourceFrames: c.SourceFrames,
		Mode:         mode,
		Background:   c.Background,
		Quality:      c.Quality,
	}
	if c.isJPEG() {
		return oc, nil
	}

	codec, _ := videoencoder.ParseCodec(c.Codec)
	rc, _ := ParseRateControl(c.Video.RateControl)
	oc.Job = orchestrator.JobVideo
	oc.Codec = codec
	oc.FrameRateNum = uint32(c.Video.FrameRate)
	oc.FrameRateDenom = 1
	oc.Bitrate = uint32(c.Video.Bitrate)
	oc.RateControl = rc
	oc.IntraPeriod = uint32(c.Video.IntraPeriod)
	oc.InitialQP = uint32(c.Video.InitQP)
	oc.MinQP = uint32(c.Video.MinQP)
	return oc, nil
}
