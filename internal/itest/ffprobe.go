//go:build integration

package itest

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type probeResult struct {
	width    int
	height   int
	duration float64
}

// probeClip reads the first video stream's size and the container duration.
func probeClip(mp4Path string) (probeResult, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:format=duration",
		"-of", "default=noprint_wrappers=1",
		mp4Path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return probeResult{}, fmt.Errorf("ffprobe: %w\n%s", err, string(b))
	}

	var res probeResult
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "width":
			res.width, err = strconv.Atoi(value)
		case "height":
			res.height, err = strconv.Atoi(value)
		case "duration":
			res.duration, err = strconv.ParseFloat(value, 64)
		}
		if err != nil {
			return probeResult{}, fmt.Errorf("parse %s %q: %w", key, value, err)
		}
	}
	return res, nil
}
