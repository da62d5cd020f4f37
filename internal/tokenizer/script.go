// Package tokenizer implements the multilingual tokenizer builder and
// runtime of §4.8: Unicode script detection, per-language stemming,
// stopword/separator/words-dict classification, and a phrase-vocabulary
// post-pass, assembled via a fluent TokenizerBuilder.
package tokenizer

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Script is the closed set of Unicode scripts this tokenizer routes on.
// It mirrors the small, closed enum spec.md §6 expects rather than the
// full Unicode script list.
type Script int

const (
	ScriptUnknown Script = iota
	ScriptLatin
	ScriptCyrillic
	ScriptGreek
	ScriptArabic
	ScriptHebrew
	ScriptHan
	ScriptHiragana
	ScriptKatakana
	ScriptHangul
	ScriptDevanagari
	ScriptThai
	ScriptGeorgian
	ScriptArmenian
	ScriptTamil
)

var scriptNames = map[Script]string{
	ScriptUnknown:    "Unknown",
	ScriptLatin:      "Latin",
	ScriptCyrillic:   "Cyrillic",
	ScriptGreek:      "Greek",
	ScriptArabic:     "Arabic",
	ScriptHebrew:     "Hebrew",
	ScriptHan:        "Han",
	ScriptHiragana:   "Hiragana",
	ScriptKatakana:   "Katakana",
	ScriptHangul:     "Hangul",
	ScriptDevanagari: "Devanagari",
	ScriptThai:       "Thai",
	ScriptGeorgian:   "Georgian",
	ScriptArmenian:   "Armenian",
	ScriptTamil:      "Tamil",
}

func (s Script) String() string {
	if n, ok := scriptNames[s]; ok {
		return n
	}
	return "Unknown"
}

var scriptTables = []struct {
	script Script
	table  *unicode.RangeTable
}{
	{ScriptLatin, unicode.Latin},
	{ScriptCyrillic, unicode.Cyrillic},
	{ScriptGreek, unicode.Greek},
	{ScriptArabic, unicode.Arabic},
	{ScriptHebrew, unicode.Hebrew},
	{ScriptHan, unicode.Han},
	{ScriptHiragana, unicode.Hiragana},
	{ScriptKatakana, unicode.Katakana},
	{ScriptHangul, unicode.Hangul},
	{ScriptDevanagari, unicode.Devanagari},
	{ScriptThai, unicode.Thai},
	{ScriptGeorgian, unicode.Georgian},
	{ScriptArmenian, unicode.Armenian},
	{ScriptTamil, unicode.Tamil},
}

// wordRunes is every script table this tokenizer recognizes, merged into
// one table so a single membership test tells segmentation "this rune
// starts or continues a word candidate" before the per-script routing in
// DetectScript runs.
var wordRunes = rangetable.Merge(tableList()...)

func tableList() []*unicode.RangeTable {
	out := make([]*unicode.RangeTable, len(scriptTables))
	for i, e := range scriptTables {
		out[i] = e.table
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.Is(wordRunes, r) || unicode.IsDigit(r)
}

// scriptOf returns the script of a single word rune, or ScriptUnknown for
// digits and anything outside the closed set above.
func scriptOf(r rune) Script {
	for _, e := range scriptTables {
		if unicode.Is(e.table, r) {
			return e.script
		}
	}
	return ScriptUnknown
}

// DetectScript returns the script of the first recognized word rune in s,
// or ScriptUnknown if s contains none.
func DetectScript(s string) Script {
	for _, r := range s {
		if sc := scriptOf(r); sc != ScriptUnknown {
			return sc
		}
	}
	return ScriptUnknown
}

// isContinuousScript reports whether a script has no whitespace between
// words, so the default (language-based) segmenter must split it rune by
// rune rather than by maximal run; see TokenizerBuilder.UnicodeSegmentation.
func isContinuousScript(s Script) bool {
	switch s {
	case ScriptHan, ScriptHiragana, ScriptKatakana, ScriptThai:
		return true
	default:
		return false
	}
}
