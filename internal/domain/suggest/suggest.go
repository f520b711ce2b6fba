// Package suggest holds the provider independent parts of LLM cut
// suggestion: the editor prompt, transcript chunking and merging of the
// per-chunk answers into one cut-list container.
package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to act as a short-form video editor.
const SystemPrompt = "Act as a Shorts/Reels editor. Analyze the transcript and extract the most impactful moments. " +
	`Follow the JSON format strictly: [{"title": "...", "start": 0.0, "end": 0.0, "reason": "..."}]`

// UserPrompt wraps one transcript chunk.
func UserPrompt(chunk string) string {
	return "TRANSCRIPT:\n" + chunk + "\n\nReturn the cuts as JSON:"
}

// Chunk groups transcript lines into blocks of at most size lines. Each
// block keeps one line per row with a trailing newline.
func Chunk(lines []string, size int) []string {
	if size <= 0 {
		size = 1
	}
	var out []string
	for i := 0; i < len(lines); i += size {
		end := i + size
		if end > len(lines) {
			end = len(lines)
		}
		var b strings.Builder
		for _, line := range lines[i:end] {
			b.WriteString(strings.TrimRight(line, "\r\n"))
			b.WriteByte('\n')
		}
		out = append(out, b.String())
	}
	return out
}

// Container accumulates suggestions from several chunks.
type Container struct {
	items []json.RawMessage
}

// Add appends one extracted document. Arrays contribute their elements. An
// object holding a "data" array contributes that array; any other object is
// kept whole so the cut-list normalizer can unwrap it.
func (c *Container) Add(doc json.RawMessage) (int, error) {
	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 {
		return 0, fmt.Errorf("suggest: empty document")
	}
	switch doc[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(doc, &arr); err != nil {
			return 0, fmt.Errorf("suggest: decode array: %w", err)
		}
		c.items = append(c.items, arr...)
		return len(arr), nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(doc, &obj); err != nil {
			return 0, fmt.Errorf("suggest: decode object: %w", err)
		}
		if data, ok := obj["data"]; ok && bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
			return c.Add(data)
		}
		c.items = append(c.items, doc)
		return 1, nil
	default:
		return 0, fmt.Errorf("suggest: unexpected document %.40q", doc)
	}
}

// Len reports the number of collected elements.
func (c *Container) Len() int { return len(c.items) }

// MarshalIndent renders the container as an indented JSON array.
func (c *Container) MarshalIndent() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []json.RawMessage{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cut-list: %w", err)
	}
	return append(b, '\n'), nil
}
