package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/filtergraph"
	"github.com/forPelevin/reelcut/internal/ports"
)

type recordSink struct {
	deltas []time.Duration
	done   bool
	err    error
}

func (s *recordSink) Advance(d time.Duration) { s.deltas = append(s.deltas, d) }
func (s *recordSink) Done(err error)          { s.done, s.err = true, err }

func fakeEncoder(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script encoder requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write fake encoder: %v", err)
	}
	return path
}

func request() ports.RenderRequest {
	return ports.RenderRequest{
		Input:    "in.mp4",
		Output:   "out.mp4",
		Duration: 3 * time.Second,
		Graph:    filtergraph.Build(""),
		Label:    "clip 1",
	}
}

func TestRenderClip_StreamsProgress(t *testing.T) {
	bin := fakeEncoder(t, `echo "Input #0, mov,mp4" >&2
echo "out_time_ms=N/A"
echo "out_time_ms=1000000"
echo "progress=continue"
echo "out_time_ms=500000"
echo "out_time_ms=2000000"
echo "progress=end"
echo "out_time_ms=9000000"
echo "muxing overhead: 0.1%" >&2
exit 0
`)
	sink := &recordSink{}
	a := New(bin, "", func(string, time.Duration) ProgressSink { return sink })

	if err := a.RenderClip(context.Background(), request()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(sink.deltas) != 2 || sink.deltas[0] != time.Second || sink.deltas[1] != time.Second {
		t.Fatalf("unexpected deltas %v", sink.deltas)
	}
	if !sink.done || sink.err != nil {
		t.Fatalf("sink not finished cleanly: %+v", sink)
	}
}

func TestRenderClip_NonZeroExit(t *testing.T) {
	bin := fakeEncoder(t, `echo "out_time_ms=100000"
echo "Error opening output file out.mp4" >&2
exit 3
`)
	sink := &recordSink{}
	a := New(bin, "", func(string, time.Duration) ProgressSink { return sink })

	err := a.RenderClip(context.Background(), request())
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if rerr.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", rerr.ExitCode)
	}
	if len(rerr.Tail) != 1 || rerr.Tail[0] != "Error opening output file out.mp4" {
		t.Fatalf("unexpected tail %q", rerr.Tail)
	}
	if sink.err == nil {
		t.Fatalf("sink should see the failure")
	}
}

func TestRenderClip_EncoderMissing(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "no-such-ffmpeg"), "", nil)
	err := a.RenderClip(context.Background(), request())
	if !errors.Is(err, ports.ErrEncoderNotFound) {
		t.Fatalf("expected ErrEncoderNotFound, got %v", err)
	}
}

func TestRenderClip_Timeout(t *testing.T) {
	bin := fakeEncoder(t, "exec sleep 5\n")
	a := New(bin, "", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := a.RenderClip(ctx, request())
	var rerr *RenderError
	if !errors.As(err, &rerr) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline RenderError, got %v", err)
	}
}

func TestRenderClip_RejectsEmptyDuration(t *testing.T) {
	req := request()
	req.Duration = 0
	if err := New("ffmpeg", "", nil).RenderClip(context.Background(), req); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTailBuffer_KeepsLastLines(t *testing.T) {
	tb := newTailBuffer(3)
	if got := tb.lines(); len(got) != 0 {
		t.Fatalf("expected empty tail, got %q", got)
	}
	for i := 1; i <= 5; i++ {
		tb.add(fmt.Sprintf("line %d", i))
	}
	tb.add("   ")
	got := tb.lines()
	want := []string{"line 3", "line 4", "line 5"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("tail = %q, want %q", got, want)
	}
}

func TestRenderError_Message(t *testing.T) {
	err := &RenderError{ExitCode: 1, Tail: []string{"a", "Conversion failed!"}}
	if err.Error() != "ffmpeg exited with code 1: Conversion failed!" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	timeout := &RenderError{ExitCode: -1, Err: context.DeadlineExceeded}
	if timeout.Error() != "ffmpeg timed out" {
		t.Fatalf("unexpected message %q", timeout.Error())
	}
}
