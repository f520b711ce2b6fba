package ffmpeg

import "github.com/forPelevin/reelcut/internal/ports"

// Fixed encoder profile.
const (
	videoCodec  = "libx264"
	videoPreset = "veryfast"
	videoCRF    = "23"
	pixelFormat = "yuv420p"
	audioCodec  = "aac"
	audioRate   = "128k"
)

// renderArgs builds the argument list for one clip. Seeking happens before
// -i so the input is not decoded from the beginning.
func renderArgs(req ports.RenderRequest) []string {
	return []string{
		"-hide_banner",
		"-y",
		"-ss", fmtSeconds(req.Start),
		"-i", req.Input,
		"-t", fmtSeconds(req.Duration),
		"-filter_complex", req.Graph.Expr,
		"-map", req.Graph.MapArg(),
		"-map", "0:a:0?",
		"-c:v", videoCodec,
		"-preset", videoPreset,
		"-crf", videoCRF,
		"-pix_fmt", pixelFormat,
		"-c:a", audioCodec,
		"-b:a", audioRate,
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		req.Output,
	}
}
