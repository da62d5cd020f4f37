package tokenizer

import "strings"

// PhraseVocabulary is a closed set of multi-word phrases recognized as a
// post-pass over an already-tokenized stream (§4.8 phrase_vocabulary):
// a run of Word tokens whose normalized surface forms match a phrase
// collapses into a single Word token. Matching is normalization-consistent
// (spec.md §9 open question), not case-sensitive surface matching.
type PhraseVocabulary struct {
	byFirstWord map[string][][]string
	maxWords    int
}

// NewPhraseVocabulary builds a PhraseVocabulary from a set of phrase
// strings, each whitespace-split into words and normalized the same way
// the tokenizer normalizes surface forms. lossy must match the
// LossyNormalization setting of the TokenizerBuilder this vocabulary will
// be attached to, so phrase matching stays normalization-consistent.
func NewPhraseVocabulary(phrases []string, lossy bool) *PhraseVocabulary {
	pv := &PhraseVocabulary{byFirstWord: make(map[string][][]string)}
	for _, p := range phrases {
		normalized, _ := Normalize(p, false, lossy)
		words := strings.Fields(normalized)
		if len(words) == 0 {
			continue
		}
		pv.byFirstWord[words[0]] = append(pv.byFirstWord[words[0]], words)
		if len(words) > pv.maxWords {
			pv.maxWords = len(words)
		}
	}
	for k, candidates := range pv.byFirstWord {
		// Longest phrase first so a longer match wins over a shorter
		// prefix sharing the same first word.
		for i := 1; i < len(candidates); i++ {
			for j := i; j > 0 && len(candidates[j]) > len(candidates[j-1]); j-- {
				candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
			}
		}
		pv.byFirstWord[k] = candidates
	}
	return pv
}

// match returns the number of leading elements of normalizedWords that
// form a known phrase, or 0 if none does.
func (pv *PhraseVocabulary) match(normalizedWords []string) int {
	if pv == nil || len(normalizedWords) == 0 {
		return 0
	}
	for _, candidate := range pv.byFirstWord[normalizedWords[0]] {
		if len(candidate) > len(normalizedWords) {
			continue
		}
		if equalWords(candidate, normalizedWords[:len(candidate)]) {
			return len(candidate)
		}
	}
	return 0
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
