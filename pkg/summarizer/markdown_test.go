package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/vaencoder/pkg/mocks"
)

func jpegSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Driver:      DriverInfo{Vendor: "softva software encoder"},
		Settings: Settings{
			Codec:        "jpeg",
			Width:        1280,
			Height:       720,
			Stride:       1280,
			Format:       "YUV420",
			Mode:         "malloc",
			Frames:       15,
			SourceFrames: 8,
			Quality:      90,
		},
		Result: ResultInfo{
			Frames:   15,
			Bytes:    3 * 1024 * 1024,
			Average:  2 * time.Millisecond,
			Max:      5 * time.Millisecond,
			MaxFrame: 0,
			Min:      time.Millisecond,
			MinFrame: 7,
		},
		Output: "frames",
	}
}

func TestMarkdownFormatter_Format_JPEG(t *testing.T) {
	result := NewMarkdownFormatter().Format(jpegSummary())

	checks := []string{
		"# Encode Summary",
		"2024-01-15T10:30:00Z",
		"softva software encoder",
		"| Codec | jpeg |",
		"| Resolution | 1280x720 |",
		"| Frames | 15 (8 sources) |",
		"| Quality | 90 |",
		"| Coded size | 3.00 MB |",
		"| Average size | 204.80 KB |",
		"| Max encode time | 5ms (frame 0) |",
		"| Min encode time | 1ms (frame 7) |",
		"Output: `frames`",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
	if strings.Contains(result, "Bitrate") {
		t.Error("JPEG summary should not contain video settings")
	}
}

func TestMarkdownFormatter_Format_Video(t *testing.T) {
	s := jpegSummary()
	s.Settings.Codec = "h263"
	s.Settings.Quality = 0
	s.Settings.Bitrate = 1280000
	s.Settings.RateControl = "cbr"
	s.Settings.FrameRate = 30
	s.Settings.IntraPeriod = 30

	result := NewMarkdownFormatter().Format(s)

	for _, check := range []string{"| Bitrate | 1280 kbps |", "| Rate control | cbr |", "| Frame rate | 30 fps |"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
	if strings.Contains(result, "Quality") {
		t.Error("video summary should not contain the JPEG quality")
	}
}

func TestMarkdownFormatter_Format_NoFrames(t *testing.T) {
	s := jpegSummary()
	s.Result = ResultInfo{Interrupted: true}
	s.Output = ""

	result := NewMarkdownFormatter().Format(s)

	if strings.Contains(result, "Average size") {
		t.Error("averages should be omitted without frames")
	}
	if !strings.Contains(result, "| Status | interrupted |") {
		t.Error("expected the interrupted status")
	}
	if strings.Contains(result, "Output:") {
		t.Error("dry runs have no output line")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(*Summary) string { return "report" }), fs)

	if err := w.Write("out/summary.md", NewSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, ok := fs.GetFile("out/summary.md")
	if !ok || string(data) != "report" {
		t.Errorf("expected 'report', got %q (exists: %v)", data, ok)
	}
}

func TestWriter_Write_Error(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(string, []byte) error { return errors.New("disk full") }
	w := NewWriter(NewMarkdownFormatter(), fs)

	err := w.Write("summary.md", jpegSummary())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}
