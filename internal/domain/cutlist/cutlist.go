// Package cutlist normalizes the loosely structured cut-list documents produced
// by the clip suggestion step into an ordered list of clip specifications.
package cutlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

// ContainerKeys lists the wrapper keys recognized around a clip list, in
// priority order. Only the first key present with an array value is used.
var ContainerKeys = []string{
	"clips",
	"cuts",
	"segments",
	"transcript",
	"transcription",
	"transcricao",
	"transcrição",
}

const maxDepth = 32

// Rejection describes a cut-list element that was dropped during normalization.
type Rejection struct {
	Path   string
	Reason string
	// Index is the position the element held in the flattened clip list,
	// 0 when the element was never a clip candidate.
	Index int
}

func (r Rejection) String() string { return r.Path + ": " + r.Reason }

var ErrInvalidDocument = errors.New("cut-list must be a JSON array or object")

type kind int

const (
	kindNone kind = iota
	kindWrapper
	kindSpec
	kindPartial
	kindNested
)

// element is one decoded cut-list entry. Exactly one of the payload fields is
// meaningful, selected by kind.
type element struct {
	kind  kind
	key   string
	items []json.RawMessage
	spec  rawSpec
}

type rawSpec struct {
	Title  json.RawMessage
	Start  json.RawMessage
	End    json.RawMessage
	Reason json.RawMessage
}

// Flatten decodes raw and returns the accepted clip specs in first-seen order
// together with every element it had to drop. Every clip candidate is numbered
// from 1 by its position in the flattened list, so a dropped candidate leaves
// a gap in the numbering of the accepted specs.
func Flatten(raw json.RawMessage) ([]types.ClipSpec, []Rejection, error) {
	top, err := topLevel(raw)
	if err != nil {
		return nil, nil, err
	}
	var f flattener
	for i, item := range top {
		f.walk(fmt.Sprintf("$[%d]", i), item, 0)
	}
	return f.out, f.rejected, nil
}

func topLevel(raw json.RawMessage) ([]json.RawMessage, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse cut-list: %w", err)
	}
	if items, ok := asArray(raw); ok {
		return items, nil
	}
	if _, ok := asObject(raw); ok {
		return []json.RawMessage{raw}, nil
	}
	return nil, ErrInvalidDocument
}

type flattener struct {
	out      []types.ClipSpec
	rejected []Rejection
	pos      int
}

func (f *flattener) next() int {
	f.pos++
	return f.pos
}

func (f *flattener) walk(path string, raw json.RawMessage, depth int) {
	if depth > maxDepth {
		f.reject(path, "nested too deeply")
		return
	}
	el := decode(raw)
	switch el.kind {
	case kindWrapper:
		for i, item := range el.items {
			itemPath := fmt.Sprintf("%s.%s[%d]", path, el.key, i)
			n := f.next()
			obj, ok := asObject(item)
			if !ok {
				f.rejectAt(n, itemPath, "not a clip object")
				continue
			}
			spec, ok := decodeSpec(obj)
			if !ok {
				f.rejectAt(n, itemPath, "missing start or end")
				continue
			}
			f.add(n, itemPath, spec)
		}
	case kindSpec:
		f.add(f.next(), path, el.spec)
	case kindPartial:
		f.rejectAt(f.next(), path, "missing start or end")
	case kindNested:
		for i, item := range el.items {
			f.walk(fmt.Sprintf("%s[%d]", path, i), item, depth+1)
		}
	default:
		f.reject(path, "unrecognized element shape")
	}
}

func (f *flattener) add(n int, path string, rs rawSpec) {
	clip, err := coerce(rs)
	if err != nil {
		f.rejectAt(n, path, err.Error())
		return
	}
	clip.Index = n
	if clip.Title == "" {
		clip.Title = fmt.Sprintf("clip_%d", clip.Index)
	}
	f.out = append(f.out, clip)
}

func (f *flattener) reject(path, reason string) {
	f.rejectAt(0, path, reason)
}

func (f *flattener) rejectAt(n int, path, reason string) {
	f.rejected = append(f.rejected, Rejection{Path: path, Reason: reason, Index: n})
}

// Candidates returns how many positions the flattened list had, accepted
// and dropped candidates together.
func Candidates(specs []types.ClipSpec, rejected []Rejection) int {
	n := len(specs)
	for _, r := range rejected {
		if r.Index > 0 {
			n++
		}
	}
	return n
}

// decode tries the wrapper, direct spec and nested list variants in that order.
func decode(raw json.RawMessage) element {
	if obj, ok := asObject(raw); ok {
		if el, ok := decodeWrapper(obj); ok {
			return el
		}
		if spec, ok := decodeSpec(obj); ok {
			return element{kind: kindSpec, spec: spec}
		}
		if _, ok := obj["start"]; ok {
			return element{kind: kindPartial}
		}
		return element{}
	}
	if items, ok := asArray(raw); ok {
		return element{kind: kindNested, items: items}
	}
	return element{}
}

func decodeWrapper(obj map[string]json.RawMessage) (element, bool) {
	for _, key := range ContainerKeys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		items, ok := asArray(v)
		if !ok {
			continue
		}
		return element{kind: kindWrapper, key: key, items: items}, true
	}
	return element{}, false
}

func decodeSpec(obj map[string]json.RawMessage) (rawSpec, bool) {
	start, hasStart := obj["start"]
	end, hasEnd := obj["end"]
	if !hasStart || !hasEnd {
		return rawSpec{}, false
	}
	return rawSpec{
		Title:  obj["title"],
		Start:  start,
		End:    end,
		Reason: obj["reason"],
	}, true
}

func coerce(rs rawSpec) (types.ClipSpec, error) {
	start, err := seconds(rs.Start)
	if err != nil {
		return types.ClipSpec{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := seconds(rs.End)
	if err != nil {
		return types.ClipSpec{}, fmt.Errorf("invalid end: %w", err)
	}
	if start < 0 {
		return types.ClipSpec{}, fmt.Errorf("negative start (%.3fs)", start)
	}
	clip := types.ClipSpec{
		Title:  optionalString(rs.Title),
		Start:  types.Seconds(start),
		End:    types.Seconds(end),
		Reason: optionalString(rs.Reason),
	}
	if clip.End <= clip.Start {
		return types.ClipSpec{}, fmt.Errorf("invalid duration (%.3fs)", end-start)
	}
	return clip, nil
}

func seconds(raw json.RawMessage) (float64, error) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return 0, errors.New("missing value")
	}
	var v float64
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", s)
		}
		v = f
	default:
		if err := json.Unmarshal(t, &v); err != nil {
			return 0, fmt.Errorf("%s is not a number", truncate(string(t), 40))
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%v is not a finite number", v)
	}
	return v, nil
}

func optionalString(raw json.RawMessage) string {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || t[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(t, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || t[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(t, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || t[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(t, &items); err != nil {
		return nil, false
	}
	return items, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
