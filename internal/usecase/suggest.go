package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/reelcut/internal/domain/suggest"
	"github.com/forPelevin/reelcut/internal/logging"
)

// ErrNoSuggestions means no chunk produced a usable cut-list document.
var ErrNoSuggestions = errors.New("language model produced no cut suggestions")

type SuggestInput struct {
	TranscriptPath string
	CutListPath    string
	ChunkLines     int
}

type SuggestResult struct {
	Chunks       int
	FailedChunks int
	Suggestions  int
}

// Suggest sends the transcript to the configured model chunk by chunk and
// writes the merged answers as one cut-list container. A failing chunk is
// logged and skipped.
func (u Usecase) Suggest(ctx context.Context, in SuggestInput) (SuggestResult, error) {
	log := u.d.Logger.With("component", "suggest")
	var res SuggestResult

	b, err := os.ReadFile(in.TranscriptPath)
	if err != nil {
		return res, fmt.Errorf("read transcript: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return res, fmt.Errorf("transcript %s is empty", in.TranscriptPath)
	}

	chunks := suggest.Chunk(lines, in.ChunkLines)
	res.Chunks = len(chunks)
	log.Info("requesting cut suggestions", slog.Int("lines", len(lines)), slog.Int("chunks", len(chunks)))

	var container suggest.Container
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		log.Info("analysing chunk", slog.Int("chunk", i+1), slog.Int("total", len(chunks)))
		doc, err := u.d.Suggester.Suggest(ctx, chunk)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			res.FailedChunks++
			log.Warn("chunk failed", slog.Int("chunk", i+1), logging.Error(err))
			continue
		}
		n, err := container.Add(doc)
		if err != nil {
			res.FailedChunks++
			log.Warn("chunk answer unusable", slog.Int("chunk", i+1), logging.Error(err))
			continue
		}
		log.Debug("chunk answered", slog.Int("chunk", i+1), slog.Int("suggestions", n))
	}

	res.Suggestions = container.Len()
	if res.Suggestions == 0 {
		return res, ErrNoSuggestions
	}

	out, err := container.MarshalIndent()
	if err != nil {
		return res, err
	}
	if err := writeFileAtomic(in.CutListPath, out); err != nil {
		return res, fmt.Errorf("write cut-list: %w", err)
	}
	log.Info("cut-list written",
		slog.String("path", in.CutListPath),
		slog.Int("suggestions", res.Suggestions),
		slog.Int("failed_chunks", res.FailedChunks),
	)
	return res, nil
}

// writeFileAtomic replaces path with b via a rename in the same directory.
func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
