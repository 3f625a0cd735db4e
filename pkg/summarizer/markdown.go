package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Encode Summary\n\n")
	fmt.Fprintf(&b, "Generated at %s\n\n", s.GeneratedAt.Format(time.RFC3339))
	if s.Driver.Vendor != "" {
		fmt.Fprintf(&b, "Driver: %s\n\n", s.Driver.Vendor)
	}

	b.WriteString("## Settings\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	row(&b, "Codec", s.Settings.Codec)
	row(&b, "Resolution", fmt.Sprintf("%dx%d", s.Settings.Width, s.Settings.Height))
	row(&b, "Stride", fmt.Sprintf("%d", s.Settings.Stride))
	row(&b, "Format", s.Settings.Format)
	row(&b, "Source memory", s.Settings.Mode)
	row(&b, "Frames", fmt.Sprintf("%d (%d sources)", s.Settings.Frames, s.Settings.SourceFrames))
	if s.Settings.Quality > 0 {
		row(&b, "Quality", fmt.Sprintf("%d", s.Settings.Quality))
	}
	if s.Settings.Bitrate > 0 {
		row(&b, "Bitrate", formatBitrate(s.Settings.Bitrate))
		row(&b, "Rate control", s.Settings.RateControl)
		row(&b, "Frame rate", fmt.Sprintf("%d fps", s.Settings.FrameRate))
		row(&b, "Intra period", fmt.Sprintf("%d", s.Settings.IntraPeriod))
	}

	b.WriteString("\n## Result\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	r := s.Result
	row(&b, "Frames encoded", fmt.Sprintf("%d", r.Frames))
	row(&b, "Coded size", formatBytes(r.Bytes))
	if r.Frames > 0 {
		row(&b, "Average size", formatBytes(r.Bytes/int64(r.Frames)))
		row(&b, "Average encode time", r.Average.String())
		row(&b, "Max encode time", fmt.Sprintf("%s (frame %d)", r.Max, r.MaxFrame))
		row(&b, "Min encode time", fmt.Sprintf("%s (frame %d)", r.Min, r.MinFrame))
	}
	if r.Interrupted {
		row(&b, "Status", "interrupted")
	}

	if s.Output != "" {
		fmt.Fprintf(&b, "\nOutput: `%s`\n", s.Output)
	}
	return b.String()
}

func row(b *strings.Builder, item, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", item, value)
}

// formatBytes prints a byte count in B, KB or MB.
func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func formatBitrate(bps int) string {
	if bps >= 1000 {
		return fmt.Sprintf("%.0f kbps", float64(bps)/1000)
	}
	return fmt.Sprintf("%d bps", bps)
}
