package ffmpeg

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/forPelevin/reelcut/internal/logging"
)

// Keys emitted by `-progress pipe:1`.
var progressKeys = map[string]struct{}{
	"frame":        {},
	"fps":          {},
	"bitrate":      {},
	"total_size":   {},
	"out_time_us":  {},
	"out_time_ms":  {},
	"out_time":     {},
	"dup_frames":   {},
	"drop_frames":  {},
	"speed":        {},
	"progress":     {},
	"stream_0_0_q": {},
}

func isProgressRecord(line string) bool {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return false
	}
	key = strings.TrimSpace(key)
	if _, ok := progressKeys[key]; ok {
		return true
	}
	return strings.HasPrefix(key, "stream_") && strings.HasSuffix(key, "_q")
}

// progressTracker turns out_time_ms records into forward-only deltas.
type progressTracker struct {
	last time.Duration
}

// observe returns the positive advance carried by line and whether line is
// the end marker. out_time_ms is in microseconds.
func (p *progressTracker) observe(line string) (time.Duration, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "progress":
		return 0, value == "end"
	case "out_time_ms":
		if value == "" || value == "N/A" {
			return 0, false
		}
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		pos := time.Duration(us) * time.Microsecond
		if pos <= p.last {
			return 0, false
		}
		delta := pos - p.last
		p.last = pos
		return delta, false
	}
	return 0, false
}

// ProgressSink receives encode progress for exactly one render call.
type ProgressSink interface {
	Advance(delta time.Duration)
	Done(err error)
}

// SinkFactory creates the sink for one render. total is the clip duration.
type SinkFactory func(label string, total time.Duration) ProgressSink

type discardSink struct{}

func (discardSink) Advance(time.Duration) {}
func (discardSink) Done(error)            {}

// DiscardSinks drops all progress.
func DiscardSinks(string, time.Duration) ProgressSink { return discardSink{} }

// NewSinkFactory picks a terminal bar when w is a terminal and a sampled log
// sink otherwise.
func NewSinkFactory(w io.Writer, logger *slog.Logger) SinkFactory {
	if logger == nil {
		logger = logging.Discard()
	}
	if isTerminal(w) {
		return func(label string, total time.Duration) ProgressSink {
			return newBarSink(w, label, total)
		}
	}
	return func(label string, total time.Duration) ProgressSink {
		return newLogSink(logger, label, total)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barSink struct {
	bar   *progressbar.ProgressBar
	label string
	total time.Duration
	pos   time.Duration
}

func newBarSink(w io.Writer, label string, total time.Duration) *barSink {
	bar := progressbar.NewOptions64(
		total.Milliseconds(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &barSink{bar: bar, label: label, total: total}
}

func (s *barSink) Advance(delta time.Duration) {
	s.pos += delta
	if s.pos > s.total {
		s.pos = s.total
	}
	s.bar.Describe(fmt.Sprintf("%s %s / %s", s.label, clock(s.pos), clock(s.total)))
	_ = s.bar.Set64(s.pos.Milliseconds())
}

func (s *barSink) Done(err error) {
	if err != nil {
		_ = s.bar.Exit()
		return
	}
	_ = s.bar.Finish()
}

type logSink struct {
	logger  *slog.Logger
	label   string
	total   time.Duration
	pos     time.Duration
	sampler *logging.ProgressSampler
}

func newLogSink(logger *slog.Logger, label string, total time.Duration) *logSink {
	return &logSink{logger: logger, label: label, total: total, sampler: logging.NewProgressSampler(10)}
}

func (s *logSink) Advance(delta time.Duration) {
	s.pos += delta
	if s.pos > s.total {
		s.pos = s.total
	}
	percent := float64(s.pos) / float64(s.total) * 100
	if !s.sampler.ShouldLog(percent) {
		return
	}
	s.logger.Info("encoding progress",
		slog.String("clip", s.label),
		slog.Float64("percent", float64(int(percent))),
		slog.String("position", fmt.Sprintf("%s / %s", clock(s.pos), clock(s.total))),
	)
}

func (s *logSink) Done(err error) {
	if err != nil {
		return
	}
	if s.sampler.ShouldLog(100) {
		s.logger.Info("encoding progress",
			slog.String("clip", s.label),
			slog.Float64("percent", 100),
			slog.String("position", fmt.Sprintf("%s / %s", clock(s.total), clock(s.total))),
		)
	}
}

// clock formats d as HH:MM:SS.
func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec/60)%60, sec%60)
}
