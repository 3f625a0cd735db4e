// Package main provides the CLI entry point for vaencoder.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/vaencoder/pkg/adapters/filesink"
	"github.com/user/vaencoder/pkg/adapters/logger"
	"github.com/user/vaencoder/pkg/adapters/nullsink"
	"github.com/user/vaencoder/pkg/adapters/osfilesystem"
	"github.com/user/vaencoder/pkg/adapters/pagealloc"
	"github.com/user/vaencoder/pkg/adapters/softva"
	"github.com/user/vaencoder/pkg/config"
	"github.com/user/vaencoder/pkg/orchestrator"
	"github.com/user/vaencoder/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	JPEG    JPEGCmd    `cmd:"" name:"jpeg" help:"Encode test-pattern frames as JPEG files."`
	H263    H263Cmd    `cmd:"" name:"h263" help:"Encode test-pattern frames as a raw H.263 stream."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// JobFlags are shared by the encode subcommands. Unset pointer flags keep the
// configuration file or default value.
type JobFlags struct {
	Config string `short:"C" type:"existingfile" help:"YAML configuration file."`

	// Output
	Output  *string `short:"o" help:"Output directory (jpeg) or stream file (h263)."`
	DryRun  bool    `help:"Encode without writing any output."`
	Summary string  `short:"s" help:"Write a Markdown run summary to this file."`

	// Source frames
	Width        *int    `short:"W" help:"Frame width (default: 1280)."`
	Height       *int    `short:"H" help:"Frame height (default: 720)."`
	Stride       *int    `help:"Row stride in bytes, a multiple of 64 (default: 1280)."`
	Frames       *int    `short:"n" help:"Number of frames to encode (default: 15)."`
	SourceFrames *int    `help:"Number of distinct source frames."`
	Mode         *string `short:"m" help:"Source memory: malloc or gralloc."`
	Background   *string `help:"PNG or JPEG image drawn behind the pattern."`

	// Logging
	LogLevel  *string `short:"l" help:"Log level (debug, info, warn, error)."`
	LogFormat *string `help:"Log format (console, golog)."`
	Quiet     bool    `short:"Q" help:"Suppress all log output."`
}

// JPEGCmd defines the jpeg subcommand.
type JPEGCmd struct {
	JobFlags `embed:""`

	Quality *int    `short:"q" help:"JPEG quality (1-100, default: 90)."`
	Format  *string `short:"f" help:"Source format: yuv420 or yuv422."`
}

// H263Cmd defines the h263 subcommand.
type H263Cmd struct {
	JobFlags `embed:""`

	Bitrate     *int    `short:"b" help:"Target bitrate in bits per second (default: 1280000)."`
	RateControl *string `short:"r" help:"Rate control: none, cbr, vbr or vcm."`
	FrameRate   *int    `help:"Frames per second (default: 30)."`
	IntraPeriod *int    `help:"Distance between intra frames, 0 for only the first."`
	InitQP      *int    `name:"init-qp" help:"Initial quantiser (1-31)."`
	MinQP       *int    `name:"min-qp" help:"Minimum quantiser (1-31)."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("vaencoder"),
		kong.Description("Drive the hardware JPEG and H.263 encoders with generated frames."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the jpeg command.
func (cmd *JPEGCmd) Run() error {
	fs := osfilesystem.New()
	cfg, err := cmd.load(fs)
	if err != nil {
		return err
	}
	cfg.Codec = config.CodecJPEG
	if cmd.Quality != nil {
		cfg.Quality = *cmd.Quality
	}
	if cmd.Format != nil {
		cfg.Format = *cmd.Format
	}
	return cmd.run(fs, cfg)
}

// Run executes the h263 command.
func (cmd *H263Cmd) Run() error {
	fs := osfilesystem.New()
	cfg, err := cmd.load(fs)
	if err != nil {
		return err
	}
	cfg.Codec = "h263"
	cfg.Format = "yuv420"
	if cmd.Bitrate != nil {
		cfg.Video.Bitrate = *cmd.Bitrate
	}
	if cmd.RateControl != nil {
		cfg.Video.RateControl = *cmd.RateControl
	}
	if cmd.FrameRate != nil {
		cfg.Video.FrameRate = *cmd.FrameRate
	}
	if cmd.IntraPeriod != nil {
		cfg.Video.IntraPeriod = *cmd.IntraPeriod
	}
	if cmd.InitQP != nil {
		cfg.Video.InitQP = *cmd.InitQP
	}
	if cmd.MinQP != nil {
		cfg.Video.MinQP = *cmd.MinQP
	}
	return cmd.run(fs, cfg)
}

// load reads the configuration file, if any, and applies the shared flags.
func (f *JobFlags) load(fs ports.FileSystem) (config.Config, error) {
	cfg := config.Defaults()
	if f.Config != "" {
		var err error
		if cfg, err = config.LoadFromFile(fs, f.Config); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	if f.Output != nil {
		cfg.Output = *f.Output
	}
	if f.Width != nil {
		cfg.Width = *f.Width
		// A width given without a stride implies a packed stride.
		if f.Stride == nil {
			cfg.Stride = pagealloc.AlignStride(cfg.Width)
		}
	}
	if f.Height != nil {
		cfg.Height = *f.Height
	}
	if f.Stride != nil {
		cfg.Stride = *f.Stride
	}
	if f.Frames != nil {
		cfg.Frames = *f.Frames
	}
	if f.SourceFrames != nil {
		cfg.SourceFrames = *f.SourceFrames
	}
	if f.Mode != nil {
		cfg.Mode = *f.Mode
	}
	if f.Background != nil {
		cfg.Background = *f.Background
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if f.LogFormat != nil {
		cfg.LogFormat = *f.LogFormat
	}
	return cfg, nil
}

func (f *JobFlags) newLogger(cfg config.Config) ports.Logger {
	if f.Quiet {
		return logger.NewNoop()
	}
	level, err := ports.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		level = ports.LevelInfo
	}
	if cfg.LogFormat == "golog" {
		return logger.NewGolog(level, os.Stderr)
	}
	return logger.NewConsole(level)
}

func (f *JobFlags) newSink(fs ports.FileSystem, cfg config.Config) (ports.CodedSink, error) {
	switch {
	case f.DryRun:
		return nullsink.New(), nil
	case cfg.Codec == config.CodecJPEG:
		return filesink.NewFrameSink(cfg.OutputPath(), "jpg", fs)
	default:
		return filesink.NewStreamSink(cfg.OutputPath(), fs)
	}
}

// run encodes the configured job with the software driver.
func (f *JobFlags) run(fs ports.FileSystem, cfg config.Config) (err error) {
	oc, err := cfg.ToOrchestratorConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := f.newLogger(cfg)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	sink, err := f.newSink(fs, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	driver := softva.New()
	log.Info("Encoding %s (%s mode, %s)...", cfg.Codec, oc.Mode, oc.Format)

	orch := orchestrator.New(driver, pagealloc.NewAllocator(), sink, log)
	result, err := orch.Run(ctx, oc)
	if result.Frames > 0 {
		log.Info("Encoded %d frames, encode time: average %s, max %s (frame %d), min %s (frame %d)",
			result.Frames, result.Average, result.Max, result.MaxFrame, result.Min, result.MinFrame)
	}
	if f.Summary != "" {
		if werr := f.writeSummary(fs, cfg, result, driver.Vendor(), errors.Is(err, context.Canceled)); werr != nil {
			log.Error("Failed to write the summary: %v", werr)
		} else {
			log.Info("Summary saved to %s", f.Summary)
		}
	}
	if errors.Is(err, context.Canceled) {
		return errors.New(l10n.T("interrupted"))
	}
	if err != nil {
		return err
	}

	if !f.DryRun {
		log.Info("Output saved to %s", cfg.OutputPath())
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("vaencoder (Go) version %s", version))
	return nil
}
