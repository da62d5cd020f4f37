package tokenizer

// TokenKind classifies one tokenizer output span (§3 Token).
type TokenKind int

const (
	Word TokenKind = iota
	StopWord
	SeparatorHard
	SeparatorSoft
	Unknown
)

var tokenKindNames = map[TokenKind]string{
	Word:          "Word",
	StopWord:      "StopWord",
	SeparatorHard: "SeparatorHard",
	SeparatorSoft: "SeparatorSoft",
	Unknown:       "Unknown",
}

func (k TokenKind) String() string {
	if n, ok := tokenKindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Token is one classified span of a tokenized text.
type Token struct {
	Kind        TokenKind
	Lemma       string
	CharStart   int
	CharEnd     int
	ByteStart   int
	ByteEnd     int
	CharMap     []CharMapEntry // nil unless the tokenizer was built with CreateCharMap(true)
	Script      Script
	Language    Language
	HasLanguage bool
}

// Tagged pairs a Token with the original surface substring it covers.
type Tagged struct {
	Surface string
	Token   Token
}
