package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/cutlist"
	"github.com/forPelevin/reelcut/internal/domain/filtergraph"
	"github.com/forPelevin/reelcut/internal/domain/subtitles"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

type CutInput struct {
	RunID    string
	Input    string
	CutList  json.RawMessage
	Segments []types.TranscriptSegment
	OutDir   string
	// ClipTimeout bounds one encode; 0 disables the limit.
	ClipTimeout time.Duration
	// SourceDuration, when known, is used to warn about cuts past the end.
	SourceDuration time.Duration
}

type BatchResult struct {
	RunID    string
	Outcomes []types.RenderOutcome
	Rejected []cutlist.Rejection
}

// Attempted counts clips handed to the encoder. Rejected specs are excluded.
func (r BatchResult) Attempted() int { return len(r.Outcomes) }

func (r BatchResult) SucceededCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

func (r BatchResult) FailedCount() int { return r.Attempted() - r.SucceededCount() }

// Summary renders the one-line tally, e.g. "2/3 succeeded, 1 failed".
func (r BatchResult) Summary() string {
	return fmt.Sprintf("%d/%d succeeded, %d failed", r.SucceededCount(), r.Attempted(), r.FailedCount())
}

// Manifest converts the result into its machine-readable form.
func (r BatchResult) Manifest(input, outDir string) types.Manifest {
	m := types.Manifest{
		RunID:     r.RunID,
		Input:     input,
		OutputDir: outDir,
		Attempted: r.Attempted(),
		Succeeded: r.SucceededCount(),
		Failed:    r.FailedCount(),
		Rejected:  len(r.Rejected),
		Clips:     make([]types.ManifestClip, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		mc := types.ManifestClip{
			Index:     o.Clip.Index,
			Title:     o.Clip.Title,
			StartSec:  o.Clip.Start.Seconds(),
			EndSec:    o.Clip.End.Seconds(),
			Subtitles: o.SubtitlesBurned,
			Status:    "ok",
		}
		if o.Succeeded() {
			mc.File = filepath.ToSlash(filepath.Base(o.OutputPath))
		} else {
			mc.Status = "failed"
			mc.Error = o.Err.Error()
		}
		m.Clips = append(m.Clips, mc)
	}
	return m
}

// Cut normalizes the cut-list once and renders every accepted clip in order,
// one encoder at a time. A clip failure is recorded and the batch goes on.
// A missing encoder or a canceled parent context stops the batch; the
// partial result is returned with the error.
func (u Usecase) Cut(ctx context.Context, in CutInput) (BatchResult, error) {
	log := u.d.Logger.With("component", "cut")
	res := BatchResult{RunID: in.RunID}

	specs, rejected, err := cutlist.Flatten(in.CutList)
	if err != nil {
		return res, fmt.Errorf("normalize cut-list: %w", err)
	}
	res.Rejected = rejected
	for _, r := range rejected {
		log.Warn("cut-list entry dropped", slog.String("path", r.Path), slog.String("reason", r.Reason))
	}
	if len(specs) == 0 {
		log.Warn("no valid clips in cut-list", slog.Int("rejected", len(rejected)))
		return res, nil
	}

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}
	total := cutlist.Candidates(specs, rejected)

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("batch stopped after %d of %d clips: %w", res.Attempted(), len(specs), err)
		}

		log.Info("rendering clip",
			slog.Int("clip", spec.Index),
			slog.Int("total", total),
			slog.String("title", spec.Title),
			slog.String("start", clock(spec.Start)),
			slog.String("end", clock(spec.End)),
			slog.Float64("duration_sec", spec.Duration().Seconds()),
		)
		if in.SourceDuration > 0 && spec.End > in.SourceDuration {
			log.Warn("clip ends after the source video",
				slog.Int("clip", spec.Index),
				slog.String("source_duration", clock(in.SourceDuration)),
			)
		}

		outcome := u.renderOne(ctx, in, spec, total)
		res.Outcomes = append(res.Outcomes, outcome)

		if outcome.Err == nil {
			log.Info("clip rendered",
				slog.Int("clip", spec.Index),
				slog.String("file", outcome.OutputPath),
				slog.Bool("subtitles", outcome.SubtitlesBurned),
				slog.Duration("elapsed", outcome.Elapsed),
			)
			continue
		}
		if errors.Is(outcome.Err, ports.ErrEncoderNotFound) {
			log.Error("encoder unavailable, aborting batch", logging.Error(outcome.Err))
			return res, outcome.Err
		}
		attrs := []any{slog.Int("clip", spec.Index), slog.String("title", spec.Title), logging.Error(outcome.Err)}
		var tail interface{ TailText() string }
		if errors.As(outcome.Err, &tail) {
			attrs = append(attrs, slog.String("encoder_output", tail.TailText()))
		}
		log.Error("clip failed", attrs...)
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("batch stopped after %d of %d clips: %w", res.Attempted(), len(specs), err)
		}
	}

	log.Info(res.Summary(),
		slog.Int("attempted", res.Attempted()),
		slog.Int("succeeded", res.SucceededCount()),
		slog.Int("failed", res.FailedCount()),
		slog.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

// renderOne runs one clip through projection, graph building and encoding.
// The temporary subtitle file is removed on every path.
func (u Usecase) renderOne(ctx context.Context, in CutInput, spec types.ClipSpec, total int) types.RenderOutcome {
	started := time.Now()
	outcome := types.RenderOutcome{
		Clip:       spec,
		OutputPath: filepath.Join(in.OutDir, ClipFileName(spec)),
	}
	finish := func(err error) types.RenderOutcome {
		outcome.Err = err
		outcome.Elapsed = time.Since(started)
		return outcome
	}

	var srtPath string
	if cues, ok := subtitles.Project(in.Segments, spec.Start, spec.End); ok {
		p, err := subtitles.WriteSRTFile(in.OutDir, fmt.Sprintf(".clip%02d-*.srt", spec.Index), cues)
		if err != nil {
			return finish(fmt.Errorf("clip %d: %w", spec.Index, err))
		}
		srtPath = p
		defer os.Remove(srtPath)
		outcome.SubtitlesBurned = true
	}

	clipCtx := ctx
	if in.ClipTimeout > 0 {
		var cancel context.CancelFunc
		clipCtx, cancel = context.WithTimeout(ctx, in.ClipTimeout)
		defer cancel()
	}

	err := u.d.Video.RenderClip(clipCtx, ports.RenderRequest{
		Input:    in.Input,
		Output:   outcome.OutputPath,
		Start:    spec.Start,
		Duration: spec.Duration(),
		Graph:    filtergraph.Build(srtPath),
		Label:    fmt.Sprintf("clip %d/%d", spec.Index, total),
	})
	if err != nil {
		_ = os.Remove(outcome.OutputPath)
		outcome.SubtitlesBurned = false
		return finish(fmt.Errorf("clip %d: %w", spec.Index, err))
	}
	return finish(nil)
}

// clock formats d as HH:MM:SS for log lines.
func clock(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec/60)%60, sec%60)
}
