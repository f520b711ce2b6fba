package ffmpeg

import (
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/filtergraph"
	"github.com/forPelevin/reelcut/internal/ports"
)

func TestRenderArgs(t *testing.T) {
	g := filtergraph.Build("/tmp/out/clip.srt")
	args := renderArgs(ports.RenderRequest{
		Input:    "in.mp4",
		Output:   "out/01_intro.mp4",
		Start:    12500 * time.Millisecond,
		Duration: 30 * time.Second,
		Graph:    g,
	})

	want := []string{
		"-hide_banner", "-y",
		"-ss", "12.500",
		"-i", "in.mp4",
		"-t", "30.000",
		"-filter_complex", g.Expr,
		"-map", "[vsub]",
		"-map", "0:a:0?",
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "128k",
		"-movflags", "+faststart",
		"-progress", "pipe:1", "-nostats",
		"out/01_intro.mp4",
	}
	if strings.Join(args, "\x00") != strings.Join(want, "\x00") {
		t.Fatalf("args mismatch\n got: %q\nwant: %q", args, want)
	}
}

func TestRenderArgs_WithoutSubtitles(t *testing.T) {
	args := renderArgs(ports.RenderRequest{Input: "a.mp4", Output: "b.mp4", Duration: time.Second, Graph: filtergraph.Build("")})
	for i, a := range args {
		if a == "-map" && args[i+1] == "[vsub]" {
			t.Fatalf("unexpected subtitle label in %q", args)
		}
	}
	if args[len(args)-1] != "b.mp4" {
		t.Fatalf("output must be the last argument: %q", args)
	}
}
