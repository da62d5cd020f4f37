package tokenizer

// StopwordFilter is a read-only snapshot of a builder's configured
// stopword set, returned by TokenizerBuilder.CreateStopwordFilter.
type StopwordFilter map[string]struct{}

// Contains reports whether word, after the same normalization the
// tokenizer applies to every surface form, is a stopword.
func (f StopwordFilter) Contains(word string, lossy bool) bool {
	normalized, _ := Normalize(word, false, lossy)
	_, ok := f[normalized]
	return ok
}

// TokenizerBuilder fluently configures a Tokenizer (§4.8). Every setter
// returns the builder so calls chain.
type TokenizerBuilder struct {
	unicodeSegmentation bool
	stemmer             *stemmerConfig
	stopWordList        []string
	separators          map[rune]struct{}
	wordsDictList       []string
	createCharMap       bool
	lossyNormalization  bool
	allowList           map[Script][]Language
	phraseVoc           *PhraseVocabulary
}

// NewBuilder returns a TokenizerBuilder with lossy normalization on and
// every other option at its zero value, mirroring the teacher's own
// builders-default-to-the-safe-case convention.
func NewBuilder() *TokenizerBuilder {
	return &TokenizerBuilder{lossyNormalization: true}
}

// UnicodeSegmentation disables the tokenizer's language-aware handling of
// scripts with no inter-word whitespace (Han, Hiragana, Katakana, Thai)
// when v is true, falling back to plain maximal same-script runs.
func (b *TokenizerBuilder) UnicodeSegmentation(v bool) *TokenizerBuilder {
	b.unicodeSegmentation = v
	return b
}

// Stemmer selects a Snowball algorithm. When smart is true, per-token
// detected language is preferred over alg whenever detection succeeds.
func (b *TokenizerBuilder) Stemmer(alg Language, smart bool) *TokenizerBuilder {
	b.stemmer = &stemmerConfig{alg: alg, smart: smart}
	return b
}

// StopWords sets the stopword set. Entries are normalized at build time,
// once LossyNormalization's final value is known.
func (b *TokenizerBuilder) StopWords(words []string) *TokenizerBuilder {
	b.stopWordList = words
	return b
}

// Separators sets the separator rune set, each classified at tokenize time
// as hard (the sentence-ending marks . ! ? 。 ！ ？) or soft (every other
// separator rune) (§4.8's TokenKind split).
func (b *TokenizerBuilder) Separators(separators []string) *TokenizerBuilder {
	set := make(map[rune]struct{}, len(separators))
	for _, s := range separators {
		for _, r := range s {
			set[r] = struct{}{}
		}
	}
	b.separators = set
	return b
}

// WordsDict sets the words-dict set: forces classification to Word even
// over an unrecognized script, consulted first but still subject to
// reclassification into StopWord/Separator when a word also belongs to
// one of those sets (§4.8).
func (b *TokenizerBuilder) WordsDict(words []string) *TokenizerBuilder {
	b.wordsDictList = words
	return b
}

// CreateCharMap toggles whether Tokenize records original->normalized
// rune-index correspondences on every Word/StopWord token.
func (b *TokenizerBuilder) CreateCharMap(v bool) *TokenizerBuilder {
	b.createCharMap = v
	return b
}

// LossyNormalization toggles Normalize's diacritic-stripping and
// lower-casing pass; when false, lemmas retain the original casing and
// diacritics (only whitespace compression still applies).
func (b *TokenizerBuilder) LossyNormalization(v bool) *TokenizerBuilder {
	b.lossyNormalization = v
	return b
}

// AllowList constrains language detection to the given candidates per
// script, overriding the tokenizer's built-in default for any script it
// names.
func (b *TokenizerBuilder) AllowList(allowList map[Script][]Language) *TokenizerBuilder {
	b.allowList = allowList
	return b
}

// PhraseVocabulary sets the post-pass phrase table.
func (b *TokenizerBuilder) PhraseVocabulary(voc *PhraseVocabulary) *TokenizerBuilder {
	b.phraseVoc = voc
	return b
}

// CreateStopwordFilter returns the builder's configured stopwords as a
// standalone, reusable StopwordFilter, normalized per LossyNormalization.
func (b *TokenizerBuilder) CreateStopwordFilter() StopwordFilter {
	return toNormalizedSet(b.stopWordList, b.lossyNormalization)
}

// Build assembles the configured Tokenizer.
func (b *TokenizerBuilder) Build() *Tokenizer {
	return &Tokenizer{
		unicodeSegmentation: b.unicodeSegmentation,
		stemmer:             b.stemmer,
		stopWords:           toNormalizedSet(b.stopWordList, b.lossyNormalization),
		separators:          b.separators,
		wordsDict:           toNormalizedSet(b.wordsDictList, b.lossyNormalization),
		createCharMap:       b.createCharMap,
		lossyNormalization:  b.lossyNormalization,
		allowList:           b.allowList,
		phraseVoc:           b.phraseVoc,
	}
}

func toNormalizedSet(words []string, lossy bool) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		n, _ := Normalize(w, false, lossy)
		set[n] = struct{}{}
	}
	return set
}
