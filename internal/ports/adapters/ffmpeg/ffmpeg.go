package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	sinks   SinkFactory
	// waitDelay bounds how long Wait blocks on output after the process is killed.
	waitDelay time.Duration
}

// New returns an adapter driving the given binaries. A nil SinkFactory
// discards progress.
func New(ffmpegPath, ffprobePath string, sinks SinkFactory) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if sinks == nil {
		sinks = DiscardSinks
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, sinks: sinks, waitDelay: 5 * time.Second}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-hide_banner",
		"-y",
		"-i", inVideo,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("ffmpeg extract audio: %w: %s", ports.ErrEncoderNotFound, a.ffmpeg)
		}
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, lastLines(string(b), tailLines))
	}
	return nil
}

// RenderClip encodes one vertical clip, streaming progress to a sink created
// for this call only.
func (a *Adapter) RenderClip(ctx context.Context, req ports.RenderRequest) error {
	if req.Duration <= 0 {
		return fmt.Errorf("render clip %q: non-positive duration %s", req.Output, req.Duration)
	}
	sink := a.sinks(req.Label, req.Duration)
	err := a.stream(ctx, renderArgs(req), sink)
	sink.Done(err)
	return err
}

func (a *Adapter) ProbeDuration(ctx context.Context, inVideo string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inVideo,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("ffprobe duration: %w: %s", ports.ErrEncoderNotFound, a.ffprobe)
		}
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return types.Seconds(sec), nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
