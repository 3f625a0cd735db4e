// Package orchestrator runs the sample encode loop: it prepares test-pattern
// source frames, drives the JPEG or H.263 encoder over them and hands every
// coded frame to a sink.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/user/vaencoder/pkg/ports"
	"github.com/user/vaencoder/pkg/videoencoder"
)

// Job selects the encoder a run drives.
type Job int

const (
	JobJPEG Job = iota
	JobVideo
)

// SourceMode selects how source frame memory is obtained.
type SourceMode string

const (
	// SourceMalloc uses page-aligned user-pointer memory.
	SourceMalloc SourceMode = "malloc"
	// SourceGralloc uses buffers from a ports.BufferAllocator.
	SourceGralloc SourceMode = "gralloc"
)

// Config contains all configuration for a run.
type Config struct {
	Job   Job
	Codec videoencoder.Codec

	// Frame geometry
	Width  int
	Height int
	Stride int
	Format ports.RTFormat

	// Frames is the number of frames encoded. Sources are reused round-robin.
	Frames       int
	SourceFrames int
	Mode         SourceMode
	Background   string

	// JPEG
	Quality int

	// Video
	FrameRateNum   uint32
	FrameRateDenom uint32
	Bitrate        uint32
	RateControl    ports.RateControlMode
	IntraPeriod    uint32
	InitialQP      uint32
	MinQP          uint32
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Job:   JobJPEG,
		Codec: videoencoder.CodecH263,

		Width:  1280,
		Height: 720,
		Stride: 1280,
		Format: ports.RTFormatYUV420,

		Frames:       15,
		SourceFrames: 8,
		Mode:         SourceMalloc,

		Quality: 90,

		FrameRateNum:   30,
		FrameRateDenom: 1,
		Bitrate:        1280000,
		RateControl:    ports.RateControlCBR,
		IntraPeriod:    30,
		InitialQP:      15,
		MinQP:          1,
	}
}

// Orchestrator coordinates one encode run.
type Orchestrator struct {
	driver ports.Driver
	alloc  ports.BufferAllocator
	sink   ports.CodedSink
	logger ports.Logger
}

// New creates a new Orchestrator. alloc is only used in gralloc mode.
func New(driver ports.Driver, alloc ports.BufferAllocator, sink ports.CodedSink, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		driver: driver,
		alloc:  alloc,
		sink:   sink,
		logger: logger,
	}
}

// Run encodes config.Frames frames. Cancelling ctx stops the loop between
// frames; the encoder is torn down either way and the frames coded so far are
// reported.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	if config.Frames <= 0 || config.SourceFrames <= 0 {
		return RunResult{}, fmt.Errorf("orchestrator: %d frames from %d sources", config.Frames, config.SourceFrames)
	}

	switch config.Job {
	case JobJPEG:
		o.logger.Info("Encoding %d JPEG frames at %dx%d, quality %d", config.Frames, config.Width, config.Height, config.Quality)
		return o.runJPEG(ctx, config)
	case JobVideo:
		o.logger.Info("Encoding %d %s frames at %dx%d, %d bps", config.Frames, config.Codec, config.Width, config.Height, config.Bitrate)
		return o.runVideo(ctx, config)
	default:
		return RunResult{}, fmt.Errorf("orchestrator: unknown job %d", config.Job)
	}
}

// RunResult contains the statistics of a run.
type RunResult struct {
	Frames int
	Bytes  int64

	// Encode time per frame, measured from submission to retrieved output.
	Average  time.Duration
	Max      time.Duration
	MaxFrame int
	Min      time.Duration
	MinFrame int

	total time.Duration
}

func (r *RunResult) record(frame int, size int, d time.Duration) {
	if r.Frames == 0 || d > r.Max {
		r.Max, r.MaxFrame = d, frame
	}
	if r.Frames == 0 || d < r.Min {
		r.Min, r.MinFrame = d, frame
	}
	r.Frames++
	r.Bytes += int64(size)
	r.total += d
	r.Average = r.total / time.Duration(r.Frames)
}

// emit hands one coded frame to the sink and records it.
func (o *Orchestrator) emit(result *RunResult, frame int, data []byte, started time.Time) error {
	elapsed := time.Since(started)
	if err := o.sink.WriteFrame(frame, data); err != nil {
		o.logger.Error("Failed to write frame %d: %v", frame, err)
		return fmt.Errorf("orchestrator: write frame %d: %w", frame, err)
	}
	result.record(frame, len(data), elapsed)
	o.logger.Debug("Frame %d: %d bytes in %s", frame, len(data), elapsed)
	return nil
}

// keep folds a teardown error into the run error. The first failure wins;
// later ones are logged.
func (o *Orchestrator) keep(err *error, teardown error) {
	if teardown == nil {
		return
	}
	if *err == nil {
		*err = teardown
		return
	}
	o.logger.Warn("Teardown after a failed run reported: %v", teardown)
}
