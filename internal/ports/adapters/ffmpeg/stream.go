package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/forPelevin/reelcut/internal/ports"
)

const (
	tailLines    = 30
	maxLineBytes = 1 << 20
)

// RenderError reports a failed encode together with the last lines the
// encoder printed.
type RenderError struct {
	ExitCode int
	Tail     []string
	Err      error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		b.WriteString("ffmpeg timed out")
	case errors.Is(e.Err, context.Canceled):
		b.WriteString("ffmpeg canceled")
	default:
		fmt.Fprintf(&b, "ffmpeg exited with code %d", e.ExitCode)
	}
	if len(e.Tail) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Tail[len(e.Tail)-1])
	}
	return b.String()
}

func (e *RenderError) Unwrap() error { return e.Err }

// TailText joins the captured output tail for diagnostics.
func (e *RenderError) TailText() string { return strings.Join(e.Tail, "\n") }

// stream runs ffmpeg with stdout and stderr merged on one pipe. Progress
// records feed the sink until the end marker; everything else is kept in a
// bounded tail. The pipe is always drained so the child never blocks.
func (a *Adapter) stream(ctx context.Context, args []string, sink ProgressSink) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	cmd.WaitDelay = a.waitDelay

	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("start ffmpeg: %w: %s", ports.ErrEncoderNotFound, a.ffmpeg)
		}
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	tail := newTailBuffer(tailLines)
	tracker := &progressTracker{}
	ended := false

	sc := bufio.NewScanner(out)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if isProgressRecord(line) {
			if ended {
				continue
			}
			delta, end := tracker.observe(line)
			if delta > 0 {
				sink.Advance(delta)
			}
			ended = end
			continue
		}
		tail.add(line)
	}
	if err := sc.Err(); err != nil {
		tail.add("reelcut: output read error: " + err.Error())
		_, _ = io.Copy(io.Discard, out)
	}

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &RenderError{ExitCode: exitCode(waitErr), Tail: tail.lines(), Err: ctxErr}
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &RenderError{ExitCode: exitErr.ExitCode(), Tail: tail.lines(), Err: waitErr}
		}
		return fmt.Errorf("wait ffmpeg: %w", waitErr)
	}
	return nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// tailBuffer is a fixed-size ring of output lines.
type tailBuffer struct {
	buf  []string
	next int
	full bool
}

func newTailBuffer(n int) *tailBuffer {
	return &tailBuffer{buf: make([]string, n)}
}

func (t *tailBuffer) add(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	t.buf[t.next] = line
	t.next = (t.next + 1) % len(t.buf)
	if t.next == 0 {
		t.full = true
	}
}

// lines returns the buffered lines oldest first.
func (t *tailBuffer) lines() []string {
	if !t.full {
		return append([]string(nil), t.buf[:t.next]...)
	}
	out := make([]string, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
