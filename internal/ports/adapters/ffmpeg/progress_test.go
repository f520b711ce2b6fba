package ffmpeg

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestProgressTracker_ForwardOnly(t *testing.T) {
	p := &progressTracker{}
	lines := []string{
		"frame=10",
		"out_time_ms=N/A",
		"out_time_ms=500000",
		"out_time_ms=500000",
		"out_time_ms=250000",
		"out_time_ms=garbage",
		"out_time_ms=1750000",
		"progress=continue",
	}
	var total time.Duration
	var deltas []time.Duration
	for _, line := range lines {
		d, end := p.observe(line)
		if end {
			t.Fatalf("unexpected end on %q", line)
		}
		if d < 0 {
			t.Fatalf("negative delta on %q", line)
		}
		if d > 0 {
			deltas = append(deltas, d)
			total += d
		}
	}
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %v", deltas)
	}
	if total != 1750*time.Millisecond {
		t.Fatalf("total = %s, want 1.75s", total)
	}
}

func TestProgressTracker_EndMarker(t *testing.T) {
	p := &progressTracker{}
	if _, end := p.observe("progress=continue"); end {
		t.Fatalf("continue is not the end")
	}
	if _, end := p.observe("progress=end"); !end {
		t.Fatalf("expected end marker")
	}
}

func TestIsProgressRecord(t *testing.T) {
	tests := map[string]bool{
		"out_time_ms=100":          true,
		"progress=end":             true,
		"stream_1_0_q=28.0":        true,
		"speed=1.5x":               true,
		"Error opening output":     false,
		"[libx264 @ 0x1] crf=23.0": false,
		"Stream mapping: a=b":      false,
		"":                         false,
	}
	for line, want := range tests {
		if got := isProgressRecord(line); got != want {
			t.Fatalf("isProgressRecord(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestClock(t *testing.T) {
	tests := map[time.Duration]string{
		0:                           "00:00:00",
		1500 * time.Millisecond:     "00:00:01",
		61 * time.Second:            "00:01:01",
		3*time.Hour + 2*time.Minute: "03:02:00",
		-time.Second:                "00:00:00",
	}
	for in, want := range tests {
		if got := clock(in); got != want {
			t.Fatalf("clock(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestLogSink_SamplesBuckets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sink := NewSinkFactory(&buf, logger)("clip 1", 10*time.Second)

	for i := 0; i < 20; i++ {
		sink.Advance(500 * time.Millisecond)
	}
	sink.Done(nil)

	var percents []float64
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec struct {
			Msg     string  `json:"msg"`
			Clip    string  `json:"clip"`
			Percent float64 `json:"percent"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		if rec.Clip != "clip 1" {
			t.Fatalf("unexpected clip attr %q", rec.Clip)
		}
		percents = append(percents, rec.Percent)
	}
	// One record per 10% bucket, 0 through 100.
	if len(percents) != 11 {
		t.Fatalf("expected 11 sampled records, got %v", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] <= percents[i-1] {
			t.Fatalf("progress not monotonic: %v", percents)
		}
	}
	if percents[len(percents)-1] != 100 {
		t.Fatalf("expected final 100%%, got %v", percents)
	}
}
