package whispercpp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	in := `{
  "systeminfo": "AVX = 1",
  "transcription": [
    {"timestamps": {"from": "00:00:00,000", "to": "00:00:02,500"}, "offsets": {"from": 0, "to": 2500}, "text": " Bom dia a todos."},
    {"timestamps": {"from": "00:00:02,500", "to": "00:00:02,500"}, "offsets": {"from": 2500, "to": 2500}, "text": " zero"},
    {"timestamps": {"from": "00:00:02,500", "to": "00:00:04,000"}, "offsets": {"from": 2500, "to": 4000}, "text": "   "},
    {"timestamps": {"from": "00:00:04,000", "to": "00:00:07,120"}, "offsets": {"from": 4000, "to": 7120}, "text": " Vamos lá."}
  ]
}`
	segs, err := decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %+v", segs)
	}
	if segs[0].Text != "Bom dia a todos." || segs[0].End != 2500*time.Millisecond {
		t.Fatalf("unexpected first segment %+v", segs[0])
	}
	if segs[1].Start != 4*time.Second || segs[1].End != 7120*time.Millisecond {
		t.Fatalf("unexpected second segment %+v", segs[1])
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := decode([]byte("not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTranscribe_BinaryMissing(t *testing.T) {
	dir := t.TempDir()
	a := New(filepath.Join(dir, "missing-whisper"), "model.bin", "pt", 0)
	_, err := a.Transcribe(context.Background(), filepath.Join(dir, "a.wav"), dir)
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}
