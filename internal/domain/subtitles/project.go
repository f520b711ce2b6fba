package subtitles

import (
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

// Project selects the transcript segments overlapping [start, end) and re-bases
// them onto the clip timeline. The boolean is false when no segment overlaps,
// in which case the clip renders without subtitles.
func Project(segs []types.TranscriptSegment, start, end time.Duration) ([]types.SubtitleCue, bool) {
	if end <= start {
		return nil, false
	}
	clipLen := end - start
	var out []types.SubtitleCue
	for _, s := range segs {
		// Strict inequalities: a segment that only touches the window edge is excluded.
		if !(s.End > start && s.Start < end) {
			continue
		}
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		cs := s.Start - start
		if cs < 0 {
			cs = 0
		}
		ce := s.End - start
		if ce > clipLen {
			ce = clipLen
		}
		if ce <= cs {
			continue
		}
		out = append(out, types.SubtitleCue{Start: cs, End: ce, Text: text})
	}
	return out, len(out) > 0
}
