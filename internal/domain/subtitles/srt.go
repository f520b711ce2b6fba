package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

// WriteSRT serializes cues as SubRip with 1-based numbering.
func WriteSRT(w io.Writer, cues []types.SubtitleCue) error {
	bw := bufio.NewWriter(w)
	for i, c := range cues {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n", i+1, srtTime(c.Start), srtTime(c.End), sanitizeSRT(c.Text)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteSRTFile creates a uniquely named SRT file in dir and returns its path.
// The caller owns the file and must remove it.
func WriteSRTFile(dir, pattern string, cues []types.SubtitleCue) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create subtitle file: %w", err)
	}
	path := f.Name()
	if err := WriteSRT(f, cues); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write subtitle file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close subtitle file: %w", err)
	}
	return path, nil
}

// ParseSRT reads cues back from SubRip text.
func ParseSRT(r io.Reader) ([]types.SubtitleCue, error) {
	sc := bufio.NewScanner(r)
	var (
		out  []types.SubtitleCue
		cur  *types.SubtitleCue
		text []string
	)
	flush := func() {
		if cur != nil {
			cur.Text = strings.Join(text, "\n")
			out = append(out, *cur)
		}
		cur = nil
		text = text[:0]
	}
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case cur == nil && strings.Contains(line, "-->"):
			parts := strings.SplitN(line, "-->", 2)
			start, err := parseSRTTime(parts[0])
			if err != nil {
				return nil, err
			}
			end, err := parseSRTTime(parts[1])
			if err != nil {
				return nil, err
			}
			cur = &types.SubtitleCue{Start: start, End: end}
		case cur == nil:
			// cue number
		default:
			text = append(text, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

// srtTime formats d as HH:MM:SS,mmm, truncating below the millisecond.
func srtTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := int64(d / time.Millisecond)
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func parseSRTTime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, ".", ",")
	clock, frac, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	h, errH := strconv.Atoi(hms[0])
	m, errM := strconv.Atoi(hms[1])
	s, errS := strconv.Atoi(hms[2])
	ms, errMS := strconv.Atoi(frac)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// sanitizeSRT keeps each cue on non-blank lines so a cue never splits in two.
func sanitizeSRT(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r", ""), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
