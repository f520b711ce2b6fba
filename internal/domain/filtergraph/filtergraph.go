// Package filtergraph builds the ffmpeg filter_complex expression that reframes
// a landscape source into a 1080x1920 vertical clip and optionally burns in
// subtitles.
package filtergraph

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	Width  = 1080
	Height = 1920

	// LabelBase is the composite output when no subtitles are burned.
	LabelBase = "vbase"
	// LabelSubtitled is the output once subtitles are burned on top of the composite.
	LabelSubtitled = "vsub"
)

// SubtitleStyle is the libass force_style used for burned captions: bold sans
// on a semi-transparent box, bottom centered.
const SubtitleStyle = "FontName=Arial,FontSize=14,Bold=1,PrimaryColour=&H00FFFFFF,BackColour=&H80000000,BorderStyle=3,Outline=1,Shadow=0,Alignment=2,MarginV=40"

// Graph is a complete filter_complex expression and the label of its final
// video pad.
type Graph struct {
	Expr   string
	Output string
}

// MapArg returns the -map value selecting the graph output.
func (g Graph) MapArg() string { return "[" + g.Output + "]" }

// Build composes the vertical reframe graph. An empty subtitlePath leaves the
// subtitle stage out.
func Build(subtitlePath string) Graph {
	return build(subtitlePath, runtime.GOOS)
}

func build(subtitlePath, goos string) Graph {
	stages := []string{
		"[0:v]split=2[bgsrc][fgsrc]",
		fmt.Sprintf("[bgsrc]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,boxblur=20:5[bg]", Width, Height, Width, Height),
		fmt.Sprintf("[fgsrc]scale=%d:-2[fg]", Width),
		"[bg][fg]overlay=(W-w)/2:(H-h)/2[" + LabelBase + "]",
	}
	out := LabelBase
	if subtitlePath != "" {
		stages = append(stages, fmt.Sprintf(
			"[%s]subtitles=filename='%s':force_style='%s'[%s]",
			LabelBase, EscapePath(subtitlePath, goos), SubtitleStyle, LabelSubtitled,
		))
		out = LabelSubtitled
	}
	return Graph{Expr: strings.Join(stages, ";"), Output: out}
}

// EscapePath makes a filesystem path safe to embed as a quoted filter option
// value. ffmpeg unescapes the value twice: once while splitting the graph and
// once while splitting the filter options. Backslash and colon survive the
// first pass inside the quotes and are escaped for the second. A single quote
// cannot appear inside quotes, so it closes the quoting, emits \\\' (which
// the first pass turns into \') and reopens it. On windows backslash
// separators become forward slashes, which ffmpeg accepts.
func EscapePath(p, goos string) string {
	if goos == "windows" {
		p = strings.ReplaceAll(p, `\`, `/`)
	} else {
		p = strings.ReplaceAll(p, `\`, `\\`)
	}
	p = strings.ReplaceAll(p, `:`, `\:`)
	p = strings.ReplaceAll(p, `'`, `'\\\''`)
	return p
}
