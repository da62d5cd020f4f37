// Package dictionary implements the bilingual translation-candidate store:
// bidirectional word-pair edges with per-side provenance/meta tags and
// unstemmed surface forms, direction classification on insert, and the
// filter/projection operations the translation engine builds on.
package dictionary

import (
	"sort"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/persist"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

// Magic is the native-binary container tag for a standalone Dictionary file.
var Magic = persist.Magic{'L', 'D', 'D', 'I'}

// DirectionKind reports which side of an insert acquired a genuinely new
// endpoint. When both sides of an insert are new, AToB is returned —
// the conventional primary direction for brand new pairs.
type DirectionKind int

const (
	AToB DirectionKind = iota
	BToA
	Invariant
)

func (d DirectionKind) String() string {
	switch d {
	case AToB:
		return "AToB"
	case BToA:
		return "BToA"
	default:
		return "Invariant"
	}
}

// stringSet is a small insertion-order-agnostic set, exposed to callers as
// sorted slices so output is deterministic.
type stringSet map[string]struct{}

func newStringSet(vs ...string) stringSet {
	s := make(stringSet, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

func (s stringSet) union(other stringSet) {
	for v := range other {
		s[v] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Metadata is the per-side bookkeeping attached to a dictionary id: the
// provenance tags (dictionaries it was sourced from), free meta tags, and
// unstemmed surface forms each with their own per-form meta tags.
type Metadata struct {
	dictionaries stringSet
	meta         stringSet
	unstemmed    map[string]stringSet
}

func newMetadata() *Metadata {
	return &Metadata{
		dictionaries: make(stringSet),
		meta:         make(stringSet),
		unstemmed:    make(map[string]stringSet),
	}
}

func (m *Metadata) merge(dicts, meta []string, unstemmed map[string][]string) {
	m.dictionaries.union(newStringSet(dicts...))
	m.meta.union(newStringSet(meta...))
	for form, tags := range unstemmed {
		set, ok := m.unstemmed[form]
		if !ok {
			set = make(stringSet)
			m.unstemmed[form] = set
		}
		set.union(newStringSet(tags...))
	}
}

// SolvedMetadata is the resolved, read-only view of a Metadata record
// returned to callers.
type SolvedMetadata struct {
	Dictionaries []string
	Meta         []string
	Unstemmed    map[string][]string
}

func (m *Metadata) solve() *SolvedMetadata {
	unstemmed := make(map[string][]string, len(m.unstemmed))
	for form, tags := range m.unstemmed {
		unstemmed[form] = tags.sorted()
	}
	return &SolvedMetadata{
		Dictionaries: m.dictionaries.sorted(),
		Meta:         m.meta.sorted(),
		Unstemmed:    unstemmed,
	}
}

// Entry is one (word_a, word_b) candidate pair to add, along with the
// per-side provenance, meta tags, and unstemmed surface forms to merge in.
// All set-valued fields accept any number of values; a single value is the
// common case.
type Entry struct {
	WordA, WordB     string
	DictionaryA      []string
	DictionaryB      []string
	MetaA            []string
	MetaB            []string
	UnstemmedA       map[string][]string
	UnstemmedB       map[string][]string
}

// NewEntry returns a bare entry for wordA/wordB with no metadata.
func NewEntry(wordA, wordB string) Entry {
	return Entry{WordA: wordA, WordB: wordB}
}

// Dictionary holds two vocabularies and the bidirectional edges, and
// per-id metadata, between them.
type Dictionary struct {
	vocA, vocB   *vocabulary.Vocabulary
	langA, langB vocabulary.LanguageHint
	aToB         map[int]map[int]struct{}
	bToA         map[int]map[int]struct{}
	metaA        map[int]*Metadata
	metaB        map[int]*Metadata
	unstemmedVoc *vocabulary.Vocabulary
	// order preserves the exact sequence edges were first created in, for
	// deterministic Iter.
	order []edgeKey
}

type edgeKey struct{ a, b int }

// New returns an empty dictionary over languages langA/langB.
func New(langA, langB vocabulary.LanguageHint) *Dictionary {
	return &Dictionary{
		vocA:         vocabulary.NewWithLanguage(langA),
		vocB:         vocabulary.NewWithLanguage(langB),
		langA:        langA,
		langB:        langB,
		aToB:         make(map[int]map[int]struct{}),
		bToA:         make(map[int]map[int]struct{}),
		metaA:        make(map[int]*Metadata),
		metaB:        make(map[int]*Metadata),
		unstemmedVoc: vocabulary.New(),
	}
}

// VocA returns the A-side vocabulary.
func (d *Dictionary) VocA() *vocabulary.Vocabulary { return d.vocA }

// VocB returns the B-side vocabulary.
func (d *Dictionary) VocB() *vocabulary.Vocabulary { return d.vocB }

// Languages returns the dictionary's (lang_a, lang_b) direction.
func (d *Dictionary) Languages() (a, b vocabulary.LanguageHint) { return d.langA, d.langB }

// Add inserts entry, creating ids as needed, merging metadata additively,
// and returns the resulting ids and the DirectionKind of the insert.
func (d *Dictionary) Add(e Entry) (idA, idB int, dir DirectionKind) {
	aExisted := d.vocA.Contains(e.WordA)
	bExisted := d.vocB.Contains(e.WordB)

	idA = d.vocA.Add(e.WordA)
	idB = d.vocB.Add(e.WordB)

	switch {
	case !aExisted && !bExisted:
		dir = AToB
	case aExisted && !bExisted:
		dir = AToB
	case !aExisted && bExisted:
		dir = BToA
	default:
		dir = Invariant
	}

	_, edgeExisted := d.aToB[idA][idB]
	if d.aToB[idA] == nil {
		d.aToB[idA] = make(map[int]struct{})
	}
	d.aToB[idA][idB] = struct{}{}
	if d.bToA[idB] == nil {
		d.bToA[idB] = make(map[int]struct{})
	}
	d.bToA[idB][idA] = struct{}{}

	if _, ok := d.metaA[idA]; !ok {
		d.metaA[idA] = newMetadata()
	}
	d.metaA[idA].merge(e.DictionaryA, e.MetaA, e.UnstemmedA)
	for form := range e.UnstemmedA {
		d.unstemmedVoc.Add(form)
	}

	if _, ok := d.metaB[idB]; !ok {
		d.metaB[idB] = newMetadata()
	}
	d.metaB[idB].merge(e.DictionaryB, e.MetaB, e.UnstemmedB)
	for form := range e.UnstemmedB {
		d.unstemmedVoc.Add(form)
	}

	if !edgeExisted {
		d.order = append(d.order, edgeKey{idA, idB})
	}
	return idA, idB, dir
}

// AddWordPair is Add with inline arguments, for the common case of no metadata.
func (d *Dictionary) AddWordPair(wordA, wordB string) (idA, idB int, dir DirectionKind) {
	return d.Add(NewEntry(wordA, wordB))
}

// GetTranslationAToB returns the B-side words w maps to, or nil if w is unknown.
func (d *Dictionary) GetTranslationAToB(w string) []string {
	id, ok := d.vocA.WordToID(w)
	if !ok {
		return nil
	}
	return d.wordsOf(d.vocB, d.aToB[id])
}

// GetTranslationBToA returns the A-side words w maps to, or nil if w is unknown.
func (d *Dictionary) GetTranslationBToA(w string) []string {
	id, ok := d.vocB.WordToID(w)
	if !ok {
		return nil
	}
	return d.wordsOf(d.vocA, d.bToA[id])
}

func (d *Dictionary) wordsOf(voc *vocabulary.Vocabulary, ids map[int]struct{}) []string {
	if len(ids) == 0 {
		return nil
	}
	sorted := make([]int, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Ints(sorted)
	out := make([]string, 0, len(sorted))
	for _, id := range sorted {
		w, _ := voc.IDToWord(id)
		out = append(out, w)
	}
	return out
}

// VocAContains reports whether w is a known A-side word.
func (d *Dictionary) VocAContains(w string) bool { return d.vocA.Contains(w) }

// VocBContains reports whether w is a known B-side word.
func (d *Dictionary) VocBContains(w string) bool { return d.vocB.Contains(w) }

// Contains reports whether w is known on either side.
func (d *Dictionary) Contains(w string) bool { return d.vocA.Contains(w) || d.vocB.Contains(w) }

// GetMetaAOf returns the resolved metadata for A-side word w, or nil if unknown.
func (d *Dictionary) GetMetaAOf(w string) *SolvedMetadata {
	id, ok := d.vocA.WordToID(w)
	if !ok {
		return nil
	}
	m, ok := d.metaA[id]
	if !ok {
		return nil
	}
	return m.solve()
}

// GetMetaBOf returns the resolved metadata for B-side word w, or nil if unknown.
func (d *Dictionary) GetMetaBOf(w string) *SolvedMetadata {
	id, ok := d.vocB.WordToID(w)
	if !ok {
		return nil
	}
	m, ok := d.metaB[id]
	if !ok {
		return nil
	}
	return m.solve()
}

// Edge is one resolved (a,b) translation pair, as yielded by Iter.
type Edge struct {
	IDA, IDB     int
	WordA, WordB string
	MetaA, MetaB *SolvedMetadata
	Dir          DirectionKind
}

// Iter yields every edge exactly once, in the order it was first created.
func (d *Dictionary) Iter() []Edge {
	out := make([]Edge, 0, len(d.order))
	for _, k := range d.order {
		wa, _ := d.vocA.IDToWord(k.a)
		wb, _ := d.vocB.IDToWord(k.b)
		out = append(out, Edge{
			IDA: k.a, IDB: k.b,
			WordA: wa, WordB: wb,
			MetaA: d.metaA[k.a].solve(),
			MetaB: d.metaB[k.b].solve(),
		})
	}
	return out
}

// KnownDictionaries returns the union of every provenance tag seen on either side.
func (d *Dictionary) KnownDictionaries() []string {
	s := make(stringSet)
	for _, m := range d.metaA {
		s.union(m.dictionaries)
	}
	for _, m := range d.metaB {
		s.union(m.dictionaries)
	}
	return s.sorted()
}

// Tags returns the union of every meta tag seen on either side.
func (d *Dictionary) Tags() []string {
	s := make(stringSet)
	for _, m := range d.metaA {
		s.union(m.meta)
	}
	for _, m := range d.metaB {
		s.union(m.meta)
	}
	return s.sorted()
}

// SwitchedView is a Dictionary view with A and B roles swapped, sharing the
// underlying word tables rather than copying them.
type SwitchedView struct {
	inner *Dictionary
}

// SwitchAToB returns a view of d with the A and B roles swapped.
func (d *Dictionary) SwitchAToB() *SwitchedView { return &SwitchedView{inner: d} }

// VocA returns the view's A-side vocabulary (the inner dictionary's B-side).
func (v *SwitchedView) VocA() *vocabulary.Vocabulary { return v.inner.vocB }

// VocB returns the view's B-side vocabulary (the inner dictionary's A-side).
func (v *SwitchedView) VocB() *vocabulary.Vocabulary { return v.inner.vocA }

// GetTranslationAToB mirrors the inner dictionary's B→A direction.
func (v *SwitchedView) GetTranslationAToB(w string) []string { return v.inner.GetTranslationBToA(w) }

// GetTranslationBToA mirrors the inner dictionary's A→B direction.
func (v *SwitchedView) GetTranslationBToA(w string) []string { return v.inner.GetTranslationAToB(w) }

// Predicate evaluates a word's resolved metadata for Filter.
type Predicate func(word string, meta *SolvedMetadata) bool

// Filter returns a new Dictionary retaining only edges whose A-side word
// satisfies predA and B-side word satisfies predB. A nil predicate always
// matches.
func (d *Dictionary) Filter(predA, predB Predicate) *Dictionary {
	out := New(d.langA, d.langB)
	for _, e := range d.Iter() {
		if predA != nil && !predA(e.WordA, e.MetaA) {
			continue
		}
		if predB != nil && !predB(e.WordB, e.MetaB) {
			continue
		}
		out.Add(Entry{
			WordA: e.WordA, WordB: e.WordB,
			DictionaryA: e.MetaA.Dictionaries, MetaA: e.MetaA.Meta, UnstemmedA: e.MetaA.Unstemmed,
			DictionaryB: e.MetaB.Dictionaries, MetaB: e.MetaB.Meta, UnstemmedB: e.MetaB.Unstemmed,
		})
	}
	return out
}

// jsonDictionary is the lossless JSON representation.
type jsonDictionary struct {
	LangA  string     `json:"lang_a"`
	LangB  string     `json:"lang_b"`
	Edges  []jsonEdge `json:"edges"`
}

type jsonEdge struct {
	WordA        string              `json:"word_a"`
	WordB        string              `json:"word_b"`
	DictionaryA  []string            `json:"dictionary_a,omitempty"`
	DictionaryB  []string            `json:"dictionary_b,omitempty"`
	MetaA        []string            `json:"meta_a,omitempty"`
	MetaB        []string            `json:"meta_b,omitempty"`
	UnstemmedA   map[string][]string `json:"unstemmed_a,omitempty"`
	UnstemmedB   map[string][]string `json:"unstemmed_b,omitempty"`
}

func (d *Dictionary) toJSON() jsonDictionary {
	out := jsonDictionary{LangA: string(d.langA), LangB: string(d.langB)}
	for _, e := range d.Iter() {
		out.Edges = append(out.Edges, jsonEdge{
			WordA: e.WordA, WordB: e.WordB,
			DictionaryA: e.MetaA.Dictionaries, DictionaryB: e.MetaB.Dictionaries,
			MetaA: e.MetaA.Meta, MetaB: e.MetaB.Meta,
			UnstemmedA: e.MetaA.Unstemmed, UnstemmedB: e.MetaB.Unstemmed,
		})
	}
	return out
}

func fromJSON(j jsonDictionary) *Dictionary {
	d := New(vocabulary.LanguageHint(j.LangA), vocabulary.LanguageHint(j.LangB))
	for _, e := range j.Edges {
		d.Add(Entry{
			WordA: e.WordA, WordB: e.WordB,
			DictionaryA: e.DictionaryA, DictionaryB: e.DictionaryB,
			MetaA: e.MetaA, MetaB: e.MetaB,
			UnstemmedA: e.UnstemmedA, UnstemmedB: e.UnstemmedB,
		})
	}
	return d
}

// SaveJSON writes d to path as JSON.
func (d *Dictionary) SaveJSON(path string) error {
	return persist.SaveJSON(path, d.toJSON())
}

// LoadJSON reads a Dictionary previously written by SaveJSON.
func LoadJSON(path string) (*Dictionary, error) {
	var j jsonDictionary
	if err := persist.LoadJSON(path, &j); err != nil {
		return nil, err
	}
	return fromJSON(j), nil
}

// SaveBinary writes d to path in the native binary container format.
func (d *Dictionary) SaveBinary(path string) error {
	f, err := persist.CreateFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wr := persist.NewWriter(f)
	wr.Header(Magic)
	wr.Str(string(d.langA))
	wr.Str(string(d.langB))
	edges := d.Iter()
	wr.U32(uint32(len(edges)))
	for _, e := range edges {
		wr.Str(e.WordA)
		wr.Str(e.WordB)
		writeStrings(wr, e.MetaA.Dictionaries)
		writeStrings(wr, e.MetaA.Meta)
		writeUnstemmed(wr, e.MetaA.Unstemmed)
		writeStrings(wr, e.MetaB.Dictionaries)
		writeStrings(wr, e.MetaB.Meta)
		writeUnstemmed(wr, e.MetaB.Unstemmed)
	}
	if err := wr.Flush(); err != nil {
		return err
	}
	return wr.Err()
}

func writeStrings(wr *persist.Writer, ss []string) {
	wr.U32(uint32(len(ss)))
	for _, s := range ss {
		wr.Str(s)
	}
}

func readStrings(rd *persist.Reader) []string {
	n := rd.U32()
	out := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		out = append(out, rd.Str())
	}
	return out
}

func writeUnstemmed(wr *persist.Writer, m map[string][]string) {
	wr.U32(uint32(len(m)))
	forms := make([]string, 0, len(m))
	for f := range m {
		forms = append(forms, f)
	}
	sort.Strings(forms)
	for _, f := range forms {
		wr.Str(f)
		writeStrings(wr, m[f])
	}
}

func readUnstemmed(rd *persist.Reader) map[string][]string {
	n := rd.U32()
	out := make(map[string][]string, n)
	for i := uint32(0); i < n; i++ {
		form := rd.Str()
		out[form] = readStrings(rd)
	}
	return out
}

// LoadBinary reads a Dictionary previously written by SaveBinary.
func LoadBinary(path string) (*Dictionary, error) {
	f, err := persist.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd := persist.NewReader(f)
	rd.Header(Magic)
	langA := rd.Str()
	langB := rd.Str()
	d := New(vocabulary.LanguageHint(langA), vocabulary.LanguageHint(langB))
	n := rd.U32()
	for i := uint32(0); i < n; i++ {
		wordA := rd.Str()
		wordB := rd.Str()
		dictA := readStrings(rd)
		metaA := readStrings(rd)
		unstA := readUnstemmed(rd)
		dictB := readStrings(rd)
		metaB := readStrings(rd)
		unstB := readUnstemmed(rd)
		d.Add(Entry{
			WordA: wordA, WordB: wordB,
			DictionaryA: dictA, MetaA: metaA, UnstemmedA: unstA,
			DictionaryB: dictB, MetaB: metaB, UnstemmedB: unstB,
		})
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// Save writes d to path, choosing binary or JSON by extension.
func (d *Dictionary) Save(path string) error {
	if persist.PickFormat(path) {
		return d.SaveJSON(path)
	}
	return d.SaveBinary(path)
}

// Load reads a Dictionary from path, dispatching on extension/magic.
func Load(path string) (*Dictionary, error) {
	if persist.PickFormat(path) {
		return LoadJSON(path)
	}
	m, err := persist.SniffMagic(path)
	if err != nil {
		return nil, err
	}
	if m != Magic {
		return nil, ldaerr.NewInvalidInputError("path", "unrecognized dictionary container at %s", path)
	}
	return LoadBinary(path)
}
