//go:build integration

package itest

import (
	"bytes"
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/reelcut/internal/config"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/pipeline"
)

func TestE2E_Cut(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	tmp := t.TempDir()
	in := filepath.Join(tmp, "input.mp4")

	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "testsrc=s=1280x720:d=12:r=25",
		"-f", "lavfi",
		"-i", "sine=frequency=440:duration=12",
		"-shortest",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		in,
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}

	work := filepath.Join(tmp, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	transcript := "[0.00 -> 2.50] first line, with: punctuation\n" +
		"[2.50 -> 5.00] it's quoted 'here'\n" +
		"[6.00 -> 9.00] second clip line\n"
	if err := os.WriteFile(filepath.Join(work, "transcript.txt"), []byte(transcript), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	cuts := `[
		{"clips": [
			{"title": "Opening: part 1", "start": 0.5, "end": 4.5},
			{"title": "Broken", "start": 5, "end": 5}
		]},
		{"title": "Second", "start": "6", "end": "9"}
	]`
	if err := os.WriteFile(filepath.Join(work, "clips.json"), []byte(cuts), 0o644); err != nil {
		t.Fatalf("write cut-list: %v", err)
	}
	cfgPath := filepath.Join(tmp, "reelcut.toml")
	if err := os.WriteFile(cfgPath, []byte("[paths]\nwork_dir = \""+filepath.ToSlash(work)+"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	var stdout bytes.Buffer
	p := pipeline.New(pipeline.Options{
		Config:   cfg,
		Logger:   logging.Discard(),
		Stdout:   &stdout,
		Progress: &bytes.Buffer{},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := p.Cut(ctx, in)
	if err != nil {
		t.Fatalf("cut failed: %v\n%s", err, stdout.String())
	}
	if res.SucceededCount() != 2 || len(res.Rejected) != 1 {
		t.Fatalf("unexpected result: %s, rejected=%d", res.Summary(), len(res.Rejected))
	}
	if !strings.Contains(stdout.String(), "2/2 succeeded, 0 failed") {
		t.Fatalf("summary missing from stdout:\n%s", stdout.String())
	}

	want := map[string]float64{
		"01_Opening part 1.mp4": 4,
		"03_Second.mp4":         3,
	}
	for name, dur := range want {
		path := filepath.Join(cfg.Paths.OutDir, name)
		got, err := probeClip(path)
		if err != nil {
			t.Fatalf("probe %s: %v", name, err)
		}
		if got.width != 1080 || got.height != 1920 {
			t.Fatalf("%s: size %dx%d, want 1080x1920", name, got.width, got.height)
		}
		if math.Abs(got.duration-dur) > 0.5 {
			t.Fatalf("%s: duration %.2f, want about %.0f", name, got.duration, dur)
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.OutDir, "summary.json")); err != nil {
		t.Fatalf("missing summary: %v", err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(cfg.Paths.OutDir, "*.srt"))
	if len(leftovers) != 0 {
		t.Fatalf("temporary subtitle files left behind: %v", leftovers)
	}
}
