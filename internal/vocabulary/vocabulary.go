// Package vocabulary implements a bijective word↔id index with stable,
// insertion-ordered ids, the foundation every other translation-engine
// package builds its id space on.
package vocabulary

import (
	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/persist"
)

// Magic is the native-binary container tag for a standalone Vocabulary file.
var Magic = persist.Magic{'L', 'D', 'V', 'O'}

// LanguageHint is a free-form language tag compared by its normalized form.
type LanguageHint string

// Normalized returns h lower-cased and trimmed, the form equality is compared on.
func (h LanguageHint) Normalized() LanguageHint {
	return LanguageHint(normalizeHint(string(h)))
}

func normalizeHint(s string) string {
	b := make([]rune, 0, len(s))
	trimming := true
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if trimming || len(b) == 0 {
				continue
			}
		} else {
			trimming = false
		}
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}
		b = append(b, r)
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return string(b)
}

// Vocabulary is an ordered, bijective word↔id index. Ids are contiguous in
// [0, len) and assigned in insertion order; they are never reused.
type Vocabulary struct {
	words  []string
	ids    map[string]int
	lang   LanguageHint
	hasLang bool
}

// New returns an empty vocabulary with no language hint.
func New() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int)}
}

// NewWithLanguage returns an empty vocabulary tagged with lang.
func NewWithLanguage(lang LanguageHint) *Vocabulary {
	return &Vocabulary{ids: make(map[string]int), lang: lang, hasLang: true}
}

// Language returns the vocabulary's language hint, if any.
func (v *Vocabulary) Language() (LanguageHint, bool) { return v.lang, v.hasLang }

// Add inserts w if absent and returns its id. Re-adding an existing word is
// idempotent and returns the existing id.
func (v *Vocabulary) Add(w string) int {
	if id, ok := v.ids[w]; ok {
		return id
	}
	id := len(v.words)
	v.words = append(v.words, w)
	v.ids[w] = id
	return id
}

// WordToID returns w's id, if present.
func (v *Vocabulary) WordToID(w string) (int, bool) {
	id, ok := v.ids[w]
	return id, ok
}

// IDToWord returns the word at id, if present.
func (v *Vocabulary) IDToWord(id int) (string, bool) {
	if id < 0 || id >= len(v.words) {
		return "", false
	}
	return v.words[id], true
}

// Contains reports whether w has been added.
func (v *Vocabulary) Contains(w string) bool {
	_, ok := v.ids[w]
	return ok
}

// Len returns the number of distinct words added.
func (v *Vocabulary) Len() int { return len(v.words) }

// Iter returns words in id order. The returned slice must not be mutated.
func (v *Vocabulary) Iter() []string { return v.words }

// Equal reports whether v and other have identical id→word lists and language hints.
func (v *Vocabulary) Equal(other *Vocabulary) bool {
	if other == nil {
		return false
	}
	if v.hasLang != other.hasLang || (v.hasLang && v.lang != other.lang) {
		return false
	}
	if len(v.words) != len(other.words) {
		return false
	}
	for i, w := range v.words {
		if other.words[i] != w {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v.
func (v *Vocabulary) Clone() *Vocabulary {
	out := &Vocabulary{
		words:   append([]string(nil), v.words...),
		ids:     make(map[string]int, len(v.ids)),
		lang:    v.lang,
		hasLang: v.hasLang,
	}
	for w, id := range v.ids {
		out.ids[w] = id
	}
	return out
}

// jsonVocabulary is the lossless JSON representation.
type jsonVocabulary struct {
	Words []string `json:"words"`
	Lang  string   `json:"lang,omitempty"`
	HasLang bool   `json:"has_lang"`
}

func (v *Vocabulary) toJSON() jsonVocabulary {
	return jsonVocabulary{Words: v.words, Lang: string(v.lang), HasLang: v.hasLang}
}

func fromJSON(j jsonVocabulary) *Vocabulary {
	out := &Vocabulary{
		words:   j.Words,
		ids:     make(map[string]int, len(j.Words)),
		lang:    LanguageHint(j.Lang),
		hasLang: j.HasLang,
	}
	for i, w := range j.Words {
		out.ids[w] = i
	}
	return out
}

// SaveJSON writes v to path as JSON.
func (v *Vocabulary) SaveJSON(path string) error {
	return persist.SaveJSON(path, v.toJSON())
}

// LoadJSON reads a Vocabulary previously written by SaveJSON.
func LoadJSON(path string) (*Vocabulary, error) {
	var j jsonVocabulary
	if err := persist.LoadJSON(path, &j); err != nil {
		return nil, err
	}
	return fromJSON(j), nil
}

// SaveBinary writes v to path in the native binary container format.
func (v *Vocabulary) SaveBinary(path string) error {
	f, err := persist.CreateFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wr := persist.NewWriter(f)
	wr.Header(Magic)
	wr.U32(uint32(len(v.words)))
	for _, w := range v.words {
		wr.Str(w)
	}
	if v.hasLang {
		wr.U32(1)
		wr.Str(string(v.lang))
	} else {
		wr.U32(0)
	}
	if err := wr.Flush(); err != nil {
		return err
	}
	return wr.Err()
}

// LoadBinary reads a Vocabulary previously written by SaveBinary.
func LoadBinary(path string) (*Vocabulary, error) {
	f, err := persist.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd := persist.NewReader(f)
	rd.Header(Magic)
	n := rd.U32()
	out := &Vocabulary{ids: make(map[string]int, n)}
	for i := uint32(0); i < n; i++ {
		w := rd.Str()
		out.words = append(out.words, w)
		out.ids[w] = int(i)
	}
	hasLang := rd.U32()
	if hasLang == 1 {
		out.hasLang = true
		out.lang = LanguageHint(rd.Str())
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes v to path, choosing binary or JSON by extension (see persist.PickFormat).
func (v *Vocabulary) Save(path string) error {
	if persist.PickFormat(path) {
		return v.SaveJSON(path)
	}
	return v.SaveBinary(path)
}

// Load reads a Vocabulary from path, sniffing JSON vs. binary by extension,
// falling back to magic-sniffing when the extension is inconclusive.
func Load(path string) (*Vocabulary, error) {
	if persist.PickFormat(path) {
		return LoadJSON(path)
	}
	m, err := persist.SniffMagic(path)
	if err != nil {
		return nil, err
	}
	if m != Magic {
		return nil, ldaerr.NewInvalidInputError("path", "unrecognized vocabulary container at %s", path)
	}
	return LoadBinary(path)
}
