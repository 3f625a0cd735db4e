package main

import (
	"github.com/user/vaencoder/pkg/config"
	"github.com/user/vaencoder/pkg/orchestrator"
	"github.com/user/vaencoder/pkg/ports"
	"github.com/user/vaencoder/pkg/summarizer"
)

// writeSummary writes the Markdown report of a run to f.Summary.
func (f *JobFlags) writeSummary(fs ports.FileSystem, cfg config.Config, result orchestrator.RunResult, vendor string, interrupted bool) error {
	settings := summarizer.Settings{
		Codec:        cfg.Codec,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Stride:       cfg.Stride,
		Format:       cfg.Format,
		Mode:         cfg.Mode,
		Frames:       cfg.Frames,
		SourceFrames: cfg.SourceFrames,
	}
	if cfg.Codec == config.CodecJPEG {
		settings.Quality = cfg.Quality
	} else {
		settings.Bitrate = cfg.Video.Bitrate
		settings.RateControl = cfg.Video.RateControl
		settings.FrameRate = cfg.Video.FrameRate
		settings.IntraPeriod = cfg.Video.IntraPeriod
	}

	b := summarizer.NewBuilder().
		WithDriver(vendor).
		WithSettings(settings).
		WithResult(summarizer.ResultInfo{
			Frames:      result.Frames,
			Bytes:       result.Bytes,
			Average:     result.Average,
			Max:         result.Max,
			MaxFrame:    result.MaxFrame,
			Min:         result.Min,
			MinFrame:    result.MinFrame,
			Interrupted: interrupted,
		})
	if !f.DryRun {
		b.WithOutput(cfg.OutputPath())
	}

	return summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs).Write(f.Summary, b.Build())
}
