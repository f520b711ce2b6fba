package whispercpp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

// ErrBinaryNotFound means the whisper.cpp CLI could not be launched.
var ErrBinaryNotFound = errors.New("whisper.cpp binary not found")

type Adapter struct {
	bin      string
	model    string
	language string
	threads  int
}

func New(binPath, modelPath, language string, threads int) *Adapter {
	return &Adapter{bin: binPath, model: modelPath, language: language, threads: threads}
}

// Transcribe runs whisper.cpp with JSON output into cacheDir and returns the
// non-empty segments in file order.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) ([]types.TranscriptSegment, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
		"-np",
	}
	if a.language != "" {
		args = append(args, "-l", a.language)
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, a.bin)
		}
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jsonPath := outPrefix + ".json"
	defer os.Remove(jsonPath)
	jb, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	return decode(jb)
}

type output struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// decode converts whisper.cpp JSON (offsets in milliseconds) into segments.
func decode(b []byte) ([]types.TranscriptSegment, error) {
	var out output
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}
	segs := make([]types.TranscriptSegment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		start := time.Duration(t.Offsets.From) * time.Millisecond
		end := time.Duration(t.Offsets.To) * time.Millisecond
		if text == "" || end <= start {
			continue
		}
		segs = append(segs, types.TranscriptSegment{Start: start, End: end, Text: text})
	}
	return segs, nil
}
