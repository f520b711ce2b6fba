package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/transcript"
)

type TranscribeInput struct {
	Video          string
	TranscriptPath string
	// WorkDir holds the intermediate audio and recognizer output.
	WorkDir string
}

// Transcribe extracts mono 16 kHz audio, runs speech recognition and writes
// the transcript file. It returns the number of segments written.
func (u Usecase) Transcribe(ctx context.Context, in TranscribeInput) (int, error) {
	log := u.d.Logger.With("component", "transcribe")
	if err := os.MkdirAll(in.WorkDir, 0o755); err != nil {
		return 0, fmt.Errorf("create work dir: %w", err)
	}

	started := time.Now()
	wav := filepath.Join(in.WorkDir, "audio.wav")
	log.Info("extracting audio", slog.String("video", in.Video))
	if err := u.d.Video.ExtractAudioMono16k(ctx, in.Video, wav); err != nil {
		return 0, err
	}
	defer os.Remove(wav)

	log.Info("transcribing audio")
	segs, err := u.d.ASR.Transcribe(ctx, wav, in.WorkDir)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(in.TranscriptPath), 0o755); err != nil {
		return 0, fmt.Errorf("create transcript dir: %w", err)
	}
	if err := transcript.WriteFile(in.TranscriptPath, segs); err != nil {
		return 0, fmt.Errorf("write transcript: %w", err)
	}
	log.Info("transcript written",
		slog.String("path", in.TranscriptPath),
		slog.Int("segments", len(segs)),
		slog.Duration("elapsed", time.Since(started).Round(time.Second)),
	)
	return len(segs), nil
}
