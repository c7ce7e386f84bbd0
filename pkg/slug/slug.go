package slug

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds slugs used inside object keys
const MaxLength = 48

// Make lowercases s, folds accented letters to ASCII and joins the remaining
// letter and digit runs with dashes.
// Example: "Résumé Photo (1)" -> "resume-photo-1"
func Make(s string, maxLen int) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}

	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

// FromFileName slugs the base name of an uploaded file without its
// extension. Names with nothing usable give fallback.
func FromFileName(name, fallback string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if s := Make(base, MaxLength); s != "" {
		return s
	}
	return fallback
}
