package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

var lineRE = regexp.MustCompile(`^\[\s*(\d+(?:\.\d+)?)\s*->\s*(\d+(?:\.\d+)?)\s*\]\s?(.*)$`)

// Parse reads a transcript file. A missing file is not an error: it means the
// batch renders without subtitles.
func Parse(path string) ([]types.TranscriptSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	segs, err := ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	return segs, nil
}

// ParseReader yields one segment per line shaped like "[1.00 -> 2.50] text".
// Other lines are skipped.
func ParseReader(r io.Reader) ([]types.TranscriptSegment, error) {
	var out []types.TranscriptSegment
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		seg, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		out = append(out, seg)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseLine(line string) (types.TranscriptSegment, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	if line == "" {
		return types.TranscriptSegment{}, false
	}
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return types.TranscriptSegment{}, false
	}
	start, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return types.TranscriptSegment{}, false
	}
	end, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return types.TranscriptSegment{}, false
	}
	seg := types.TranscriptSegment{
		Start: types.Seconds(start),
		End:   types.Seconds(end),
		Text:  strings.TrimSpace(m[3]),
	}
	if seg.End <= seg.Start {
		return types.TranscriptSegment{}, false
	}
	return seg, true
}

// Write emits segments in the line format Parse reads.
func Write(w io.Writer, segs []types.TranscriptSegment) error {
	bw := bufio.NewWriter(w)
	for _, s := range segs {
		text := strings.Join(strings.Fields(s.Text), " ")
		if _, err := fmt.Fprintf(bw, "[%.2f -> %.2f] %s\n", s.Start.Seconds(), s.End.Seconds(), text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the transcript to path, replacing any existing file.
func WriteFile(path string, segs []types.TranscriptSegment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	if err := Write(f, segs); err != nil {
		_ = f.Close()
		return fmt.Errorf("write transcript: %w", err)
	}
	return f.Close()
}
