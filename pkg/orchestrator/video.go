package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/user/vaencoder/pkg/encerr"
	"github.com/user/vaencoder/pkg/h263"
	"github.com/user/vaencoder/pkg/ports"
	"github.com/user/vaencoder/pkg/videoencoder"
)

// Params returns the stream parameters of a video run.
func (c Config) Params() h263.Params {
	return h263.Params{
		Width:          c.Width,
		Height:         c.Height,
		FrameRateNum:   c.FrameRateNum,
		FrameRateDenom: c.FrameRateDenom,
		BitsPerSecond:  c.Bitrate,
		InitialQP:      c.InitialQP,
		MinQP:          c.MinQP,
		IntraPeriod:    c.IntraPeriod,
		RateControl:    c.RateControl,
	}
}

// runVideo starts a video session, registers every source as an input and
// encodes the frames into one stream.
func (o *Orchestrator) runVideo(ctx context.Context, config Config) (result RunResult, err error) {
	if config.Format != ports.RTFormatYUV420 {
		return result, fmt.Errorf("orchestrator: video input must be %s, got %s: %w", ports.RTFormatYUV420, config.Format, encerr.ErrInvalidParameter)
	}
	if config.SourceFrames > videoencoder.MaxInputs {
		return result, fmt.Errorf("orchestrator: %d source frames, the video encoder holds %d", config.SourceFrames, videoencoder.MaxInputs)
	}

	enc, err := videoencoder.New(config.Codec, o.driver, config.Params(), o.logger)
	if err != nil {
		o.logger.Error("Failed to create the %s encoder: %v", config.Codec, err)
		return result, err
	}

	sources, err := o.prepareSources(config)
	if err != nil {
		return result, err
	}
	defer func() { o.keep(&err, sources.release()) }()

	if err := enc.Start(); err != nil {
		o.logger.Error("Failed to start the encoder: %v", err)
		return result, err
	}
	defer func() { o.keep(&err, enc.Stop()) }()

	inputs := make([]int, len(sources.frames))
	for i, src := range sources.frames {
		idx, err := enc.RegisterInput(sources.kind, src.buf, src.stride)
		if err != nil {
			o.logger.Error("Failed to register source %d: %v", i, err)
			return result, err
		}
		inputs[i] = idx
	}

	for n := 0; n < config.Frames; n++ {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("Interrupted after %d frames", n)
			return result, err
		}

		started := time.Now()
		out, err := enc.Encode(inputs[n%len(inputs)])
		if err != nil {
			o.logger.Error("Failed to encode frame %d: %v", n, err)
			return result, err
		}
		if err := o.emit(&result, n, out, started); err != nil {
			return result, err
		}
	}

	o.logger.Info("Encoded %d frames, %d bytes", result.Frames, result.Bytes)
	return result, nil
}
