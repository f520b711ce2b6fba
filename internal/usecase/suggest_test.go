package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/reelcut/internal/domain/cutlist"
)

func writeTranscript(t *testing.T, lines int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&b, "[%d.00 -> %d.00] line %d\n\n", i, i+1, i)
	}
	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return path
}

func TestSuggest_MergesChunksAndSkipsFailures(t *testing.T) {
	llm := &fakeSuggester{
		answers: []string{
			`[{"title":"A","start":1,"end":20}]`,
			"",
			`{"clips":[{"title":"B","start":30,"end":50},{"title":"C","start":60,"end":75}]}`,
		},
		errs: []error{nil, errors.New("ollama status 500"), nil},
	}
	cutPath := filepath.Join(t.TempDir(), "work", "clips.json")
	uc := New(Deps{Suggester: llm})

	res, err := uc.Suggest(context.Background(), SuggestInput{
		TranscriptPath: writeTranscript(t, 5),
		CutListPath:    cutPath,
		ChunkLines:     2,
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if res.Chunks != 3 || res.FailedChunks != 1 || res.Suggestions != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if strings.Count(llm.chunks[0], "\n") != 2 || strings.Count(llm.chunks[2], "\n") != 1 {
		t.Fatalf("blank lines should not count toward chunks: %q", llm.chunks)
	}

	b, err := os.ReadFile(cutPath)
	if err != nil {
		t.Fatalf("read cut-list: %v", err)
	}
	specs, rejected, err := cutlist.Flatten(json.RawMessage(b))
	if err != nil {
		t.Fatalf("written cut-list does not normalize: %v", err)
	}
	if len(specs) != 3 || len(rejected) != 0 {
		t.Fatalf("expected 3 specs from merged container, got %d (rejected %v)", len(specs), rejected)
	}
	if specs[2].Title != "C" {
		t.Fatalf("order not preserved: %+v", specs)
	}
}

func TestSuggest_NothingUsable(t *testing.T) {
	llm := &fakeSuggester{answers: []string{`42`}}
	cutPath := filepath.Join(t.TempDir(), "clips.json")
	_, err := New(Deps{Suggester: llm}).Suggest(context.Background(), SuggestInput{
		TranscriptPath: writeTranscript(t, 1),
		CutListPath:    cutPath,
		ChunkLines:     250,
	})
	if !errors.Is(err, ErrNoSuggestions) {
		t.Fatalf("expected ErrNoSuggestions, got %v", err)
	}
	if _, err := os.Stat(cutPath); !os.IsNotExist(err) {
		t.Fatalf("no cut-list should be written, stat err = %v", err)
	}
}

func TestSuggest_MissingTranscript(t *testing.T) {
	_, err := New(Deps{Suggester: &fakeSuggester{}}).Suggest(context.Background(), SuggestInput{
		TranscriptPath: filepath.Join(t.TempDir(), "missing.txt"),
		CutListPath:    filepath.Join(t.TempDir(), "clips.json"),
		ChunkLines:     250,
	})
	if err == nil || !strings.Contains(err.Error(), "read transcript") {
		t.Fatalf("expected read error, got %v", err)
	}
}
