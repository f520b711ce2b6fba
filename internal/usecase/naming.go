package usecase

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/forPelevin/reelcut/internal/types"
)

const maxTitleRunes = 50

// ClipFileName returns "<NN>_<title>.mp4" for spec.
func ClipFileName(spec types.ClipSpec) string {
	title := sanitizeTitle(spec.Title)
	if title == "" {
		title = fmt.Sprintf("clip_%d", spec.Index)
	}
	return fmt.Sprintf("%02d_%s.mp4", spec.Index, title)
}

// sanitizeTitle keeps letters, digits, space, '-' and '_' of the NFC form of
// s, trimmed and capped at maxTitleRunes.
func sanitizeTitle(s string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	out := []rune(strings.TrimSpace(b.String()))
	if len(out) > maxTitleRunes {
		out = out[:maxTitleRunes]
	}
	return strings.TrimSpace(string(out))
}
