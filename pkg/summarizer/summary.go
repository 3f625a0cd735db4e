// Package summarizer generates a report of an encode run.
package summarizer

import "time"

// Summary contains all data collected during an encode run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	Driver      DriverInfo

	// Run configuration
	Settings Settings

	// Encode results
	Result ResultInfo

	// Output location, empty for a dry run
	Output string
}

// DriverInfo identifies the driver that encoded the run.
type DriverInfo struct {
	Vendor string
}

// Settings contains the run configuration.
type Settings struct {
	Codec        string
	Width        int
	Height       int
	Stride       int
	Format       string
	Mode         string
	Frames       int
	SourceFrames int

	// JPEG
	Quality int

	// Video (bits/sec, 0 = not a video run)
	Bitrate     int
	RateControl string
	FrameRate   int
	IntraPeriod int
}

// ResultInfo contains the encode statistics.
type ResultInfo struct {
	Frames   int
	Bytes    int64
	Average  time.Duration
	Max      time.Duration
	MaxFrame int
	Min      time.Duration
	MinFrame int

	// Interrupted is set when the run stopped before all frames were coded.
	Interrupted bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithDriver sets the driver vendor string.
func (b *Builder) WithDriver(vendor string) *Builder {
	b.summary.Driver = DriverInfo{Vendor: vendor}
	return b
}

// WithSettings sets the run configuration.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithResult sets the encode statistics.
func (b *Builder) WithResult(result ResultInfo) *Builder {
	b.summary.Result = result
	return b
}

// WithOutput sets the output location.
func (b *Builder) WithOutput(path string) *Builder {
	b.summary.Output = path
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
