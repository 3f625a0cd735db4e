package orchestrator

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/user/vaencoder/pkg/adapters/pagealloc"
	"github.com/user/vaencoder/pkg/adapters/pattern"
	"github.com/user/vaencoder/pkg/ports"
)

// source is one prepared input frame.
type source struct {
	buf    []byte
	stride int
	handle ports.GraphicHandle
}

// sourceSet owns the memory of the prepared input frames.
type sourceSet struct {
	kind   ports.MemoryType
	frames []source
	alloc  ports.BufferAllocator
}

// prepareSources allocates config.SourceFrames frames and fills frame i with
// pattern frame i. In gralloc mode each buffer is locked while it is filled.
func (o *Orchestrator) prepareSources(config Config) (*sourceSet, error) {
	gen := pattern.New(config.Width, config.Height)
	if config.Background != "" {
		if err := gen.LoadBackground(config.Background); err != nil {
			return nil, err
		}
	}

	set := &sourceSet{alloc: o.alloc}
	switch config.Mode {
	case SourceMalloc, "":
		set.kind = ports.MemoryUserPtr
		for i := 0; i < config.SourceFrames; i++ {
			buf := pagealloc.Frame(config.Stride, config.Height, config.Format)
			if err := gen.Fill(buf, config.Stride, config.Format, i); err != nil {
				return nil, err
			}
			set.frames = append(set.frames, source{buf: buf, stride: config.Stride})
		}
	case SourceGralloc:
		if o.alloc == nil {
			return nil, fmt.Errorf("orchestrator: gralloc mode needs a buffer allocator")
		}
		set.kind = ports.MemoryGralloc
		for i := 0; i < config.SourceFrames; i++ {
			src, err := fillGraphic(o.alloc, gen, config, i)
			if err != nil {
				set.release()
				return nil, err
			}
			set.frames = append(set.frames, src)
		}
	default:
		return nil, fmt.Errorf("orchestrator: unknown source mode %q", config.Mode)
	}

	o.logger.Debug("Prepared %d %s source frames", len(set.frames), config.Mode)
	return set, nil
}

func fillGraphic(alloc ports.BufferAllocator, gen *pattern.Generator, config Config, n int) (source, error) {
	gb, err := alloc.Allocate(config.Width, config.Height, config.Format)
	if err != nil {
		return source{}, fmt.Errorf("orchestrator: allocate source %d: %w", n, err)
	}
	buf, err := alloc.Lock(gb.Handle)
	if err != nil {
		alloc.Free(gb.Handle)
		return source{}, fmt.Errorf("orchestrator: lock source %d: %w", n, err)
	}
	fillErr := gen.Fill(buf, gb.Stride, config.Format, n)
	if err := alloc.Unlock(gb.Handle); err != nil && fillErr == nil {
		fillErr = err
	}
	if fillErr != nil {
		alloc.Free(gb.Handle)
		return source{}, fmt.Errorf("orchestrator: fill source %d: %w", n, fillErr)
	}
	return source{buf: buf, stride: gb.Stride, handle: gb.Handle}, nil
}

// get returns the source used for frame n.
func (s *sourceSet) get(n int) source {
	return s.frames[n%len(s.frames)]
}

// release frees allocator buffers. Malloc memory is left to the collector.
func (s *sourceSet) release() error {
	var result *multierror.Error
	for _, f := range s.frames {
		if f.handle != 0 {
			if err := s.alloc.Free(f.handle); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	s.frames = nil
	return result.ErrorOrNil()
}
