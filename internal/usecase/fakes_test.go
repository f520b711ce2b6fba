package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

type renderCall struct {
	req         ports.RenderRequest
	srtFiles    []string
	hasDeadline bool
}

type fakeVideoTool struct {
	mu    sync.Mutex
	calls []renderCall
	// fail returns the error for the n-th call (1-based), nil for success.
	fail func(n int, req ports.RenderRequest) error
	// onRender runs before the result is produced.
	onRender func(n int)
	wavs     []string
}

func (f *fakeVideoTool) ExtractAudioMono16k(_ context.Context, _ string, outWav string) error {
	f.wavs = append(f.wavs, outWav)
	return os.WriteFile(outWav, []byte("RIFF"), 0o644)
}

func (f *fakeVideoTool) RenderClip(ctx context.Context, req ports.RenderRequest) error {
	f.mu.Lock()
	n := len(f.calls) + 1
	srts, _ := filepath.Glob(filepath.Join(filepath.Dir(req.Output), "*.srt"))
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, renderCall{req: req, srtFiles: srts, hasDeadline: hasDeadline})
	f.mu.Unlock()

	if f.onRender != nil {
		f.onRender(n)
	}
	// Partial output exists even when the encode fails.
	if err := os.WriteFile(req.Output, []byte("mp4"), 0o644); err != nil {
		return err
	}
	if f.fail != nil {
		if err := f.fail(n, req); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (f *fakeVideoTool) ProbeDuration(context.Context, string) (time.Duration, error) {
	return time.Hour, nil
}

type fakeASR struct {
	segs []types.TranscriptSegment
	err  error
}

func (f fakeASR) Transcribe(context.Context, string, string) ([]types.TranscriptSegment, error) {
	return f.segs, f.err
}

type fakeSuggester struct {
	answers []string
	errs    []error
	chunks  []string
}

func (f *fakeSuggester) Suggest(_ context.Context, chunk string) (json.RawMessage, error) {
	i := len(f.chunks)
	f.chunks = append(f.chunks, chunk)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.answers) {
		return json.RawMessage(f.answers[i]), nil
	}
	return nil, errors.New("no scripted answer")
}

type tailError struct{ tail string }

func (e *tailError) Error() string    { return "ffmpeg exited with code 1: " + e.tail }
func (e *tailError) TailText() string { return e.tail }

func sec(f float64) time.Duration { return types.Seconds(f) }
