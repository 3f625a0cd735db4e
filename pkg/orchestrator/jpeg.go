package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/user/vaencoder/pkg/imageencoder"
)

// runJPEG registers every source as a surface, binds one context and
// encodes the frames one at a time.
func (o *Orchestrator) runJPEG(ctx context.Context, config Config) (result RunResult, err error) {
	if config.SourceFrames > imageencoder.MaxBuffers {
		return result, fmt.Errorf("orchestrator: %d source frames, the JPEG encoder holds %d", config.SourceFrames, imageencoder.MaxBuffers)
	}

	sources, err := o.prepareSources(config)
	if err != nil {
		return result, err
	}
	defer func() { o.keep(&err, sources.release()) }()

	enc := imageencoder.New(o.driver, o.logger)
	if err := enc.Initialize(); err != nil {
		o.logger.Error("Failed to initialize the encoder: %v", err)
		return result, err
	}
	defer func() { o.keep(&err, enc.Deinitialize()) }()

	seqs := make([]int, len(sources.frames))
	for i, src := range sources.frames {
		seq, err := enc.CreateSourceSurface(sources.kind, src.buf, config.Width, config.Height, src.stride, config.Format)
		if err != nil {
			o.logger.Error("Failed to register source %d: %v", i, err)
			return result, err
		}
		seqs[i] = seq
	}

	capacity, err := enc.CreateContext(seqs[0])
	if err != nil {
		o.logger.Error("Failed to create the encode context: %v", err)
		return result, err
	}
	out := make([]byte, capacity)

	for n := 0; n < config.Frames; n++ {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("Interrupted after %d frames", n)
			return result, err
		}

		started := time.Now()
		if err := enc.Encode(seqs[n%len(seqs)], config.Quality); err != nil {
			o.logger.Error("Failed to encode frame %d: %v", n, err)
			return result, err
		}
		size, err := enc.GetCoded(out)
		if err != nil {
			o.logger.Error("Failed to retrieve frame %d: %v", n, err)
			return result, err
		}
		if err := o.emit(&result, n, out[:size], started); err != nil {
			return result, err
		}
	}

	o.logger.Info("Encoded %d frames, %d bytes", result.Frames, result.Bytes)
	return result, nil
}
