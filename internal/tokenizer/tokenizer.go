package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Tokenizer is the immutable, built runtime produced by
// TokenizerBuilder.Build. It is safe for concurrent use.
type Tokenizer struct {
	unicodeSegmentation bool
	stemmer             *stemmerConfig
	stopWords           map[string]struct{}
	separators          map[rune]struct{}
	wordsDict           map[string]struct{}
	createCharMap       bool
	lossyNormalization  bool
	allowList           map[Script][]Language
	phraseVoc           *PhraseVocabulary
}

// Tokenize produces an ordered list of (surface substring, Token) pairs
// covering text. hint, if non-empty and resolving via ParseLanguageHint,
// biases language detection for every word token (§4.8).
func (t *Tokenizer) Tokenize(hint string, text string) []Tagged {
	hintLang, _ := ParseLanguageHint(hint)

	segs := t.segmentRunes(text)
	tagged := make([]Tagged, 0, len(segs))
	for _, sg := range segs {
		if sg.isSeparator {
			kind := SeparatorSoft
			if sg.sepHard {
				kind = SeparatorHard
			}
			tagged = append(tagged, Tagged{
				Surface: sg.text,
				Token: Token{
					Kind: kind, Lemma: sg.text,
					CharStart: sg.charStart, CharEnd: sg.charEnd,
					ByteStart: sg.byteStart, ByteEnd: sg.byteEnd,
				},
			})
			continue
		}
		tagged = append(tagged, t.classify(sg, hintLang))
	}

	if t.phraseVoc != nil {
		tagged = t.applyPhrases(tagged, text)
	}
	return tagged
}

type segment struct {
	text                 string
	charStart, charEnd   int
	byteStart, byteEnd   int
	isSeparator, sepHard bool
}

// segmentRunes splits text into word-candidate runs and separator runes.
// A run breaks on a script change, on any configured separator or
// non-word rune, and - unless UnicodeSegmentation disabled the
// language-aware behavior - on every rune of a script with no inter-word
// whitespace (Han, Hiragana, Katakana, Thai), approximating a
// dictionary-free word segmenter for those scripts by treating each
// character as its own token.
func (t *Tokenizer) segmentRunes(text string) []segment {
	var segs []segment
	var run []rune
	var runByteStart, runCharStart int
	prevScript := ScriptUnknown
	charIdx := 0

	flush := func(endByte, endChar int) {
		if len(run) == 0 {
			return
		}
		segs = append(segs, segment{
			text:      string(run),
			charStart: runCharStart, charEnd: endChar,
			byteStart: runByteStart, byteEnd: endByte,
		})
		run = run[:0]
	}

	for byteIdx, r := range text {
		switch {
		case t.isSeparatorRune(r):
			flush(byteIdx, charIdx)
			segs = append(segs, segment{
				text:      string(r),
				charStart: charIdx, charEnd: charIdx + 1,
				byteStart: byteIdx, byteEnd: byteIdx + utf8.RuneLen(r),
				isSeparator: true,
				sepHard:     isHardSeparator(r),
			})
			runByteStart, runCharStart = byteIdx+utf8.RuneLen(r), charIdx+1
			prevScript = ScriptUnknown

		case isWordRune(r):
			sc := scriptOf(r)
			breakHere := len(run) > 0 && (sc != prevScript || (!t.unicodeSegmentation && isContinuousScript(sc)))
			if len(run) == 0 || breakHere {
				flush(byteIdx, charIdx)
				runByteStart, runCharStart = byteIdx, charIdx
			}
			run = append(run, r)
			prevScript = sc

		default:
			flush(byteIdx, charIdx)
			segs = append(segs, segment{
				text:      string(r),
				charStart: charIdx, charEnd: charIdx + 1,
				byteStart: byteIdx, byteEnd: byteIdx + utf8.RuneLen(r),
				isSeparator: true,
				sepHard:     isHardSeparator(r),
			})
			runByteStart, runCharStart = byteIdx+utf8.RuneLen(r), charIdx+1
			prevScript = ScriptUnknown
		}
		charIdx++
	}
	flush(len(text), charIdx)
	return segs
}

func (t *Tokenizer) isSeparatorRune(r rune) bool {
	if t.separators == nil {
		return false
	}
	_, ok := t.separators[r]
	return ok
}

// isHardSeparator classifies a separator rune as hard (sentence-ending
// punctuation, which always breaks a phrase-vocabulary run) or soft
// (whitespace and everything else, e.g. hyphen or apostrophe, which a
// phrase match may absorb).
func isHardSeparator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	default:
		return false
	}
}

func (t *Tokenizer) classify(sg segment, hint Language) Tagged {
	normalized, charMap := Normalize(sg.text, t.createCharMap, t.lossyNormalization)
	script := DetectScript(sg.text)
	lang, hasLang := t.resolveLanguage(script, hint)

	lemma := normalized
	if t.stemmer != nil {
		if stemmed, err := t.stemmer.stem(normalized, lang); err == nil {
			lemma = stemmed
		}
	}

	kind := Unknown
	if script != ScriptUnknown {
		kind = Word
	}
	if _, ok := t.wordsDict[normalized]; ok {
		kind = Word
	}
	// Segmentation already isolates configured separator runes into their
	// own segments, so only the stopword half of §4.8's reclassification
	// clause can still apply to a word-candidate run at this point.
	if _, ok := t.stopWords[normalized]; ok {
		kind = StopWord
	}

	tok := Token{
		Kind: kind, Lemma: lemma,
		CharStart: sg.charStart, CharEnd: sg.charEnd,
		ByteStart: sg.byteStart, ByteEnd: sg.byteEnd,
		Script: script, Language: lang, HasLanguage: hasLang,
	}
	if t.createCharMap {
		tok.CharMap = charMap
	}
	return Tagged{Surface: sg.text, Token: tok}
}

func (t *Tokenizer) resolveLanguage(script Script, hint Language) (Language, bool) {
	candidates := scriptLanguages[script]
	if t.allowList != nil {
		if al, ok := t.allowList[script]; ok {
			candidates = al
		}
	}
	if len(candidates) == 0 {
		return LanguageUnknown, false
	}
	if hint != LanguageUnknown {
		for _, c := range candidates {
			if c == hint {
				return hint, true
			}
		}
	}
	return candidates[0], true
}

// applyPhrases collapses a run of Word tokens matching a configured
// phrase into a single Word token. SeparatorSoft tokens between the
// words of a candidate phrase (ordinary whitespace) are absorbed into
// the match; a SeparatorHard or Unknown/StopWord token ends the window.
func (t *Tokenizer) applyPhrases(tagged []Tagged, text string) []Tagged {
	out := make([]Tagged, 0, len(tagged))
	i := 0
	for i < len(tagged) {
		if tagged[i].Token.Kind != Word {
			out = append(out, tagged[i])
			i++
			continue
		}
		words := make([]string, 0, t.phraseVoc.maxWords)
		wordEnd := make([]int, 0, t.phraseVoc.maxWords)
		n0, _ := Normalize(tagged[i].Surface, false, t.lossyNormalization)
		words = append(words, n0)
		wordEnd = append(wordEnd, i)

		j := i + 1
	window:
		for len(words) < t.phraseVoc.maxWords && j < len(tagged) {
			switch tagged[j].Token.Kind {
			case Word:
				n, _ := Normalize(tagged[j].Surface, false, t.lossyNormalization)
				words = append(words, n)
				wordEnd = append(wordEnd, j)
				j++
			case SeparatorSoft:
				j++
			default:
				break window
			}
		}

		if n := t.phraseVoc.match(words); n > 1 {
			end := wordEnd[n-1]
			out = append(out, mergeTagged(tagged[i:end+1], text, t.lossyNormalization))
			i = end + 1
			continue
		}
		out = append(out, tagged[i])
		i++
	}
	return out
}

// mergeTagged collapses ts (a run of Word and intervening SeparatorSoft
// tokens) into one Word token. Surface is read back out of text by byte
// span rather than rejoined from the pieces, so the merged surface keeps
// its original inter-word spacing exactly.
func mergeTagged(ts []Tagged, text string, lossy bool) Tagged {
	first, last := ts[0], ts[len(ts)-1]
	surface := text[first.Token.ByteStart:last.Token.ByteEnd]
	normed := make([]string, 0, len(ts))
	for _, tg := range ts {
		if tg.Token.Kind != Word {
			continue
		}
		n, _ := Normalize(tg.Surface, false, lossy)
		normed = append(normed, n)
	}
	return Tagged{
		Surface: surface,
		Token: Token{
			Kind:        Word,
			Lemma:       strings.Join(normed, " "),
			CharStart:   first.Token.CharStart,
			CharEnd:     last.Token.CharEnd,
			ByteStart:   first.Token.ByteStart,
			ByteEnd:     last.Token.ByteEnd,
			Script:      first.Token.Script,
			Language:    first.Token.Language,
			HasLanguage: first.Token.HasLanguage,
		},
	}
}
