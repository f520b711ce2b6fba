package ports

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/filtergraph"
	"github.com/forPelevin/reelcut/internal/types"
)

// ErrEncoderNotFound means the encoder binary could not be launched at all.
// It is fatal for the whole batch.
var ErrEncoderNotFound = errors.New("encoder binary not found")

// RenderRequest describes one clip encode.
type RenderRequest struct {
	Input    string
	Output   string
	Start    time.Duration
	Duration time.Duration
	Graph    filtergraph.Graph
	// Label is shown next to the progress indicator.
	Label string
}

type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error
	RenderClip(ctx context.Context, req RenderRequest) error
	ProbeDuration(ctx context.Context, inVideo string) (time.Duration, error)
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) ([]types.TranscriptSegment, error)
}

// CutSuggester asks a language model for cut suggestions over one transcript
// chunk and returns the raw cut-list document it produced.
type CutSuggester interface {
	Suggest(ctx context.Context, transcriptChunk string) (json.RawMessage, error)
}
