package types

import (
	"math"
	"time"
)

// TranscriptSegment is one timestamped utterance of the source video.
type TranscriptSegment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type ClipSpec struct {
	// Index is the 1-based output number, assigned in cut-list order.
	Index  int
	Title  string
	Start  time.Duration
	End    time.Duration
	Reason string
}

func (c ClipSpec) Duration() time.Duration { return c.End - c.Start }

// SubtitleCue is a caption timed relative to the start of its clip.
type SubtitleCue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type RenderOutcome struct {
	Clip            ClipSpec
	OutputPath      string
	SubtitlesBurned bool
	Elapsed         time.Duration
	Err             error
}

func (o RenderOutcome) Succeeded() bool { return o.Err == nil }

type Manifest struct {
	RunID     string         `json:"run_id"`
	Input     string         `json:"input"`
	OutputDir string         `json:"output_dir"`
	Attempted int            `json:"attempted"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Rejected  int            `json:"rejected"`
	Clips     []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	Index     int     `json:"index"`
	Title     string  `json:"title"`
	StartSec  float64 `json:"start_sec"`
	EndSec    float64 `json:"end_sec"`
	File      string  `json:"file,omitempty"`
	Subtitles bool    `json:"subtitles"`
	Status    string  `json:"status"`
	Error     string  `json:"error,omitempty"`
}

// Seconds converts float seconds to a Duration, rounding to the nearest
// nanosecond so decimal inputs keep their exact millisecond value.
func Seconds(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
