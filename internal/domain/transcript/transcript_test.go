package transcript

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

func TestParseReader_SkipsNonMatchingLines(t *testing.T) {
	in := strings.Join([]string{
		"[0.00 -> 2.00] hi",
		"",
		"not a transcript line",
		"[5.00 -> 7.00]  bye there ",
		"[3 -> 4] integer stamps",
		"[9.00 -> 8.00] backwards",
		"[-1.00 -> 2.00] negative",
	}, "\n")

	segs, err := ParseReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []types.TranscriptSegment{
		{Start: 0, End: 2 * time.Second, Text: "hi"},
		{Start: 5 * time.Second, End: 7 * time.Second, Text: "bye there"},
		{Start: 3 * time.Second, End: 4 * time.Second, Text: "integer stamps"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
}

func TestParse_MissingFileIsEmpty(t *testing.T) {
	segs, err := Parse(filepath.Join(t.TempDir(), "nope.txt"))
	if err != nil {
		t.Fatalf("expected nil error for missing transcript, got %v", err)
	}
	if len(segs) != 0 {
		t.Fatalf("expected no segments, got %d", len(segs))
	}
}

func TestParse_NoMatchingLinesIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	segs, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 0 {
		t.Fatalf("expected no segments, got %d", len(segs))
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	segs := []types.TranscriptSegment{
		{Start: 1290 * time.Millisecond, End: 3 * time.Second, Text: "first\nline"},
		{Start: 3 * time.Second, End: 4500 * time.Millisecond, Text: "second"},
	}
	var buf bytes.Buffer
	if err := Write(&buf, segs); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "[1.29 -> 3.00] first line\n") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	got, err := ParseReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[0].Start != segs[0].Start || got[1].End != segs[1].End {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
