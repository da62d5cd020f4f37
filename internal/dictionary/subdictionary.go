package dictionary

import "github.com/heartmarshall/ldatranslate/internal/vocabulary"

// CreateTopicModelSpecific restricts dict to edges whose A-side word is a
// member of voc, per §4.4: the result's VocA is exactly voc (same ids,
// words from dict.VocA absent from voc are dropped); VocB keeps only ids
// referenced by a surviving edge, re-compacted to [0, size) while
// preserving the relative order edges were first seen in. Metadata carries
// across unchanged.
func CreateTopicModelSpecific(dict *Dictionary, voc *vocabulary.Vocabulary) *Dictionary {
	langA, _ := voc.Language()
	out := &Dictionary{
		vocA:         voc.Clone(),
		vocB:         vocabulary.NewWithLanguage(dict.langB),
		langA:        langA,
		langB:        dict.langB,
		aToB:         make(map[int]map[int]struct{}),
		bToA:         make(map[int]map[int]struct{}),
		metaA:        make(map[int]*Metadata),
		metaB:        make(map[int]*Metadata),
		unstemmedVoc: vocabulary.New(),
	}
	for _, e := range dict.Iter() {
		if !voc.Contains(e.WordA) {
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
