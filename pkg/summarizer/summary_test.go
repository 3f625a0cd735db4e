package summarizer

import (
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	settings := Settings{Codec: "jpeg", Width: 1280, Height: 720, Frames: 15, SourceFrames: 8, Quality: 90}
	result := ResultInfo{Frames: 15, Bytes: 4096, Max: time.Millisecond, MaxFrame: 3}

	summary := NewBuilder().
		WithDriver("softva").
		WithSettings(settings).
		WithResult(result).
		WithOutput("frames").
		Build()

	if summary.Driver.Vendor != "softva" {
		t.Errorf("expected vendor 'softva', got '%s'", summary.Driver.Vendor)
	}
	if summary.Settings != settings {
		t.Errorf("expected settings %+v, got %+v", settings, summary.Settings)
	}
	if summary.Result != result {
		t.Errorf("expected result %+v, got %+v", result, summary.Result)
	}
	if summary.Output != "frames" {
		t.Errorf("expected output 'frames', got '%s'", summary.Output)
	}
}
