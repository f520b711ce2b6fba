package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/forPelevin/reelcut/internal/config"
	"github.com/forPelevin/reelcut/internal/domain/transcript"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/reelcut/internal/ports/adapters/ollama"
	"github.com/forPelevin/reelcut/internal/ports/adapters/openrouter"
	"github.com/forPelevin/reelcut/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/reelcut/internal/usecase"
)

const manifestName = "summary.json"

type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Stdout receives the summary table.
	Stdout io.Writer
	// Progress receives the encoder progress bar when it is a terminal.
	Progress io.Writer
	// Video overrides the ffmpeg adapter, mainly for tests.
	Video ports.VideoTool
}

type Pipeline struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	video  ports.VideoTool
}

func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	progress := opts.Progress
	if progress == nil {
		progress = os.Stderr
	}
	video := opts.Video
	if video == nil {
		video = ffmpeg.New(
			opts.Config.Encoder.FFmpegBin,
			opts.Config.Encoder.FFprobeBin,
			ffmpeg.NewSinkFactory(progress, log.With("component", "ffmpeg")),
		)
	}
	return &Pipeline{cfg: opts.Config, log: log, stdout: stdout, video: video}
}

// Transcribe writes the transcript for video to the configured path.
func (p *Pipeline) Transcribe(ctx context.Context, video string) error {
	if err := validateInput(video); err != nil {
		return err
	}
	if err := Preflight([]Requirement{
		{Name: "FFmpeg", Command: p.cfg.Encoder.FFmpegBin},
		{Name: "whisper.cpp", Command: p.cfg.Whisper.Bin},
	}); err != nil {
		return err
	}
	if _, err := os.Stat(p.cfg.Whisper.Model); err != nil {
		return fmt.Errorf("whisper model: %w", err)
	}

	uc := usecase.New(usecase.Deps{
		Video:  p.video,
		ASR:    whispercpp.New(p.cfg.Whisper.Bin, p.cfg.Whisper.Model, p.cfg.Whisper.Language, p.cfg.Whisper.Threads),
		Logger: p.log,
	})
	_, err := uc.Transcribe(ctx, usecase.TranscribeInput{
		Video:          video,
		TranscriptPath: p.cfg.Paths.Transcript,
		WorkDir:        scratchDir(p.cfg.Paths.WorkDir, video),
	})
	return err
}

// Suggest turns the transcript into a cut-list with the configured provider.
func (p *Pipeline) Suggest(ctx context.Context) error {
	suggester, err := p.suggester()
	if err != nil {
		return err
	}
	uc := usecase.New(usecase.Deps{Suggester: suggester, Logger: p.log})
	_, err = uc.Suggest(ctx, usecase.SuggestInput{
		TranscriptPath: p.cfg.Paths.Transcript,
		CutListPath:    p.cfg.Paths.CutList,
		ChunkLines:     p.cfg.LLM.ChunkLines,
	})
	return err
}

func (p *Pipeline) suggester() (ports.CutSuggester, error) {
	switch p.cfg.LLM.Provider {
	case config.ProviderOpenRouter:
		if err := p.cfg.RequireOpenRouterKey(); err != nil {
			return nil, err
		}
		return openrouter.New(
			p.cfg.OpenRouter.APIKey,
			p.cfg.LLM.Model,
			p.cfg.OpenRouter.BaseURL,
			p.cfg.LLM.Temperature,
			p.cfg.LLMTimeout(),
		), nil
	case config.ProviderOllama:
		return ollama.New(ollama.Options{
			BaseURL:     p.cfg.Ollama.URL,
			Model:       p.cfg.LLM.Model,
			Temperature: p.cfg.LLM.Temperature,
			NumCtx:      p.cfg.Ollama.ContextLen,
			Timeout:     p.cfg.LLMTimeout(),
		}), nil
	default:
		return nil, fmt.Errorf("llm.provider: unsupported value %q", p.cfg.LLM.Provider)
	}
}

// Cut renders every clip of the configured cut-list from video. The output
// directory is locked for the duration of the batch.
func (p *Pipeline) Cut(ctx context.Context, video string) (usecase.BatchResult, error) {
	if err := validateInput(video); err != nil {
		return usecase.BatchResult{}, err
	}
	if p.usesRealEncoder() {
		if err := Preflight([]Requirement{{Name: "FFmpeg", Command: p.cfg.Encoder.FFmpegBin}}); err != nil {
			return usecase.BatchResult{}, err
		}
	}

	raw, err := os.ReadFile(p.cfg.Paths.CutList)
	if err != nil {
		return usecase.BatchResult{}, fmt.Errorf("read cut-list: %w", err)
	}
	segs, err := transcript.Parse(p.cfg.Paths.Transcript)
	if err != nil {
		return usecase.BatchResult{}, fmt.Errorf("read transcript: %w", err)
	}
	if len(segs) == 0 {
		p.log.Warn("no transcript segments, clips will have no subtitles", slog.String("path", p.cfg.Paths.Transcript))
	}

	outDir := p.cfg.Paths.OutDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return usecase.BatchResult{}, fmt.Errorf("create output dir: %w", err)
	}
	unlock, err := lockOutputDir(outDir)
	if err != nil {
		return usecase.BatchResult{}, err
	}
	defer unlock()

	sourceDur, err := p.video.ProbeDuration(ctx, video)
	if err != nil {
		p.log.Warn("could not probe source duration", logging.Error(err))
		sourceDur = 0
	}

	runID := uuid.NewString()
	p.log.Info("starting batch", slog.String("run_id", runID), slog.String("input", video), slog.String("out_dir", outDir))

	uc := usecase.New(usecase.Deps{Video: p.video, Logger: p.log})
	res, cutErr := uc.Cut(ctx, usecase.CutInput{
		RunID:          runID,
		Input:          video,
		CutList:        json.RawMessage(raw),
		Segments:       segs,
		OutDir:         outDir,
		ClipTimeout:    p.cfg.ClipTimeout(),
		SourceDuration: sourceDur,
	})
	if res.Attempted() > 0 || len(res.Rejected) > 0 {
		if err := writeManifest(filepath.Join(outDir, manifestName), res.Manifest(video, outDir)); err != nil {
			p.log.Error("write summary failed", logging.Error(err))
		}
		fmt.Fprintln(p.stdout, renderSummary(res))
		fmt.Fprintln(p.stdout, res.Summary())
	}
	return res, cutErr
}

// usesRealEncoder reports whether the video port is the ffmpeg adapter.
func (p *Pipeline) usesRealEncoder() bool {
	_, ok := p.video.(*ffmpeg.Adapter)
	return ok
}

// Run chains transcribe, suggest and cut. With reuse set, an existing
// transcript or cut-list is kept instead of being regenerated.
func (p *Pipeline) Run(ctx context.Context, video string, reuse bool) (usecase.BatchResult, error) {
	if err := validateInput(video); err != nil {
		return usecase.BatchResult{}, err
	}
	if reuse && fileExists(p.cfg.Paths.Transcript) {
		p.log.Info("reusing transcript", slog.String("path", p.cfg.Paths.Transcript))
	} else if err := p.Transcribe(ctx, video); err != nil {
		return usecase.BatchResult{}, fmt.Errorf("transcribe: %w", err)
	}
	if reuse && fileExists(p.cfg.Paths.CutList) {
		p.log.Info("reusing cut-list", slog.String("path", p.cfg.Paths.CutList))
	} else if err := p.Suggest(ctx); err != nil {
		return usecase.BatchResult{}, fmt.Errorf("suggest: %w", err)
	}
	return p.Cut(ctx, video)
}

func validateInput(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("input is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory", path)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// scratchDir is the per-video directory for intermediate audio and
// recognizer output.
func scratchDir(workDir, video string) string {
	name := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	abs, err := filepath.Abs(video)
	if err != nil {
		abs = video
	}
	return filepath.Join(workDir, "cache", name+"-"+hash(abs))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.CutSuggester = (*openrouter.Adapter)(nil)
var _ ports.CutSuggester = (*ollama.Adapter)(nil)
