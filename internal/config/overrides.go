package config

import (
	"fmt"
	"strings"
	"time"
)

// Overrides carries command-line values layered over the loaded file.
// Zero values leave the corresponding setting untouched.
type Overrides struct {
	Transcript  string
	CutList     string
	OutDir      string
	ClipTimeout time.Duration
	Provider    string
	Model       string
	ChunkLines  int
	Language    string
	LogLevel    string
	LogFormat   string
}

// Apply merges o into c and re-validates the result. Switching provider
// without naming a model picks that provider's default model.
func (c *Config) Apply(o Overrides) error {
	paths := []struct {
		name  string
		value string
		dst   *string
	}{
		{"transcript", o.Transcript, &c.Paths.Transcript},
		{"cut-list", o.CutList, &c.Paths.CutList},
		{"out", o.OutDir, &c.Paths.OutDir},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			continue
		}
		expanded, err := expandPath(p.value)
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = expanded
	}

	if o.ClipTimeout < 0 {
		return fmt.Errorf("clip timeout must be >= 0")
	}
	if o.ClipTimeout > 0 {
		secs := int(o.ClipTimeout.Round(time.Second) / time.Second)
		if secs == 0 {
			secs = 1
		}
		c.Encoder.ClipTimeoutSeconds = secs
	}
	if o.Provider != "" {
		c.LLM.Provider = o.Provider
		c.LLM.Model = ""
	}
	if o.Model != "" {
		c.LLM.Model = o.Model
	}
	if o.ChunkLines != 0 {
		c.LLM.ChunkLines = o.ChunkLines
	}
	if o.Language != "" {
		c.Whisper.Language = strings.TrimSpace(o.Language)
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}

	c.normalizeLLM()
	c.normalizeLogging()
	return c.Validate()
}
