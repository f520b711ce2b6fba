package cutlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ExtractDocument pulls the cut-list JSON out of a free-form model response.
// Markdown fences and any prose around the first array or object are dropped.
func ExtractDocument(s string) (json.RawMessage, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil, errors.New("cutlist: empty response")
	}

	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	for _, pair := range bracketOrder(t) {
		start := strings.IndexByte(t, pair[0])
		end := strings.LastIndexByte(t, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := t[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, fmt.Errorf("cutlist: could not locate JSON document in: %q", truncate(t, 200))
}

// bracketOrder tries whichever bracket kind opens first.
func bracketOrder(t string) [][2]byte {
	arr := strings.IndexByte(t, '[')
	obj := strings.IndexByte(t, '{')
	if arr >= 0 && (obj < 0 || arr < obj) {
		return [][2]byte{{'[', ']'}, {'{', '}'}}
	}
	return [][2]byte{{'{', '}'}, {'[', ']'}}
}
