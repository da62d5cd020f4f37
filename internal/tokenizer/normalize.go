package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes to NFKD and strips combining marks, the x/text
// equivalent of the teacher's ASCII-only domain.NormalizeText generalized
// to multilingual text.
var foldDiacritics = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// CharMapEntry records one original-rune-index -> normalized-rune-index
// correspondence, emitted when a TokenizerBuilder is built with
// CreateCharMap(true).
type CharMapEntry struct {
	Original, Normalized int
}

// Normalize folds s rune by rune: whitespace compression always applies
// (runs of space/tab/newline collapse to a single space, leading/trailing
// space is trimmed); when lossy is true it additionally strips diacritics
// and lower-cases. When createCharMap is true the second return value
// records, for every rune s emits, which original rune index produced it.
func Normalize(s string, createCharMap, lossy bool) (string, []CharMapEntry) {
	var b strings.Builder
	var charMap []CharMapEntry
	outIdx := 0
	lastWasSpace := true
	origIdx := 0
	for _, r := range s {
		folded := string(r)
		if lossy {
			if f, _, err := transform.String(foldDiacritics, string(r)); err == nil {
				folded = f
			}
		}
		for _, fr := range folded {
			if lossy {
				fr = unicode.ToLower(fr)
			}
			if unicode.IsSpace(fr) {
				if lastWasSpace {
					continue
				}
				fr = ' '
				lastWasSpace = true
			} else {
				lastWasSpace = false
			}
			b.WriteRune(fr)
			if createCharMap {
				charMap = append(charMap, CharMapEntry{Original: origIdx, Normalized: outIdx})
			}
			outIdx++
		}
		origIdx++
	}
	full := b.String()
	out := strings.TrimRight(full, " ")
	if createCharMap && len(out) < len(full) {
		charMap = charMap[:len(charMap)-(len(full)-len(out))]
	}
	return out, charMap
}
