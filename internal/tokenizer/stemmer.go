package tokenizer

import (
	"errors"

	"github.com/kljensen/snowball"
)

// ErrUnsupportedStemmer is returned, unwrapped, by stem when the effective
// language has no implementation in github.com/kljensen/snowball - Arabic,
// Greek, and Tamil are in the closed Language set but absent from that
// library. The tokenizer does not pass it on: the token keeps its
// normalized input unchanged as its lemma.
var ErrUnsupportedStemmer = errors.New("tokenizer: unsupported stemmer language")

// snowballNames maps the subset of Language that github.com/kljensen/snowball
// implements to its language argument.
var snowballNames = map[Language]string{
	LanguageDanish:     "danish",
	LanguageDutch:      "dutch",
	LanguageEnglish:    "english",
	LanguageFinnish:    "finnish",
	LanguageFrench:     "french",
	LanguageGerman:     "german",
	LanguageHungarian:  "hungarian",
	LanguageItalian:    "italian",
	LanguageNorwegian:  "norwegian",
	LanguagePortuguese: "portuguese",
	LanguageRomanian:   "romanian",
	LanguageRussian:    "russian",
	LanguageSpanish:    "spanish",
	LanguageSwedish:    "swedish",
	LanguageTurkish:    "turkish",
}

// stemmerConfig pairs a chosen algorithm with the "smart" per-token
// language override flag from TokenizerBuilder.Stemmer.
type stemmerConfig struct {
	alg   Language
	smart bool
}

// stem stems word for this configuration. detected is the language
// resolved for the token by script/allow-list detection; it is used in
// place of alg when smart is set and detection succeeded.
func (c stemmerConfig) stem(word string, detected Language) (string, error) {
	lang := c.alg
	if c.smart && detected != LanguageUnknown {
		lang = detected
	}
	name, ok := snowballNames[lang]
	if !ok {
		return word, ErrUnsupportedStemmer
	}
	return snowball.Stem(word, name, false)
}
