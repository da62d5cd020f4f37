package topicmodel

import (
	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/persist"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

type jsonTopicModel struct {
	Words                 []string    `json:"words"`
	Lang                  string      `json:"lang,omitempty"`
	HasLang               bool        `json:"has_lang"`
	Topics                [][]float64 `json:"topics"`
	UsedVocabFrequency    []int       `json:"used_vocab_frequency"`
	DocTopicDistributions [][]float64 `json:"doc_topic_distributions,omitempty"`
	DocumentLengths       []int       `json:"document_lengths,omitempty"`
}

func (m *TopicModel) toJSON() jsonTopicModel {
	lang, hasLang := m.voc.Language()
	return jsonTopicModel{
		Words:                 m.voc.Iter(),
		Lang:                  string(lang),
		HasLang:               hasLang,
		Topics:                m.topics,
		UsedVocabFrequency:    m.usedVocabFrequency,
		DocTopicDistributions: m.docTopicDistributions,
		DocumentLengths:       m.documentLengths,
	}
}

func fromJSON(j jsonTopicModel) *TopicModel {
	var voc *vocabulary.Vocabulary
	if j.HasLang {
		voc = vocabulary.NewWithLanguage(vocabulary.LanguageHint(j.Lang))
	} else {
		voc = vocabulary.New()
	}
	for _, w := range j.Words {
		voc.Add(w)
	}
	return &TopicModel{
		topics:                j.Topics,
		voc:                   voc,
		usedVocabFrequency:    j.UsedVocabFrequency,
		docTopicDistributions: j.DocTopicDistributions,
		documentLengths:       j.DocumentLengths,
	}
}

// SaveJSON writes m to path as JSON.
func (m *TopicModel) SaveJSON(path string) error {
	return persist.SaveJSON(path, m.toJSON())
}

// LoadJSON reads a TopicModel previously written by SaveJSON.
func LoadJSON(path string) (*TopicModel, error) {
	var j jsonTopicModel
	if err := persist.LoadJSON(path, &j); err != nil {
		return nil, err
	}
	return fromJSON(j), nil
}

// SaveBinary writes m to path in the native binary container format.
func (m *TopicModel) SaveBinary(path string) error {
	f, err := persist.CreateFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wr := persist.NewWriter(f)
	wr.Header(Magic)

	words := m.voc.Iter()
	wr.U32(uint32(len(words)))
	for _, w := range words {
		wr.Str(w)
	}
	lang, hasLang := m.voc.Language()
	if hasLang {
		wr.U32(1)
		wr.Str(string(lang))
	} else {
		wr.U32(0)
	}

	wr.U32(uint32(len(m.topics)))
	for _, row := range m.topics {
		wr.U32(uint32(len(row)))
		for _, p := range row {
			wr.F64(p)
		}
	}

	wr.U32(uint32(len(m.usedVocabFrequency)))
	for _, f := range m.usedVocabFrequency {
		wr.U32(uint32(f))
	}

	if m.docTopicDistributions != nil {
		wr.U32(uint32(len(m.docTopicDistributions)))
		for _, row := range m.docTopicDistributions {
			wr.U32(uint32(len(row)))
			for _, p := range row {
				wr.F64(p)
			}
		}
	} else {
		wr.U32(0)
	}

	if m.documentLengths != nil {
		wr.U32(uint32(len(m.documentLengths)))
		for _, l := range m.documentLengths {
			wr.U32(uint32(l))
		}
	} else {
		wr.U32(0)
	}

	if err := wr.Flush(); err != nil {
		return err
	}
	return wr.Err()
}

// LoadBinary reads a TopicModel previously written by SaveBinary.
func LoadBinary(path string) (*TopicModel, error) {
	f, err := persist.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd := persist.NewReader(f)
	rd.Header(Magic)

	nWords := rd.U32()
	var voc *vocabulary.Vocabulary
	words := make([]string, 0, nWords)
	for i := uint32(0); i < nWords; i++ {
		words = append(words, rd.Str())
	}
	hasLang := rd.U32()
	if hasLang == 1 {
		voc = vocabulary.NewWithLanguage(vocabulary.LanguageHint(rd.Str()))
	} else {
		voc = vocabulary.New()
	}
	for _, w := range words {
		voc.Add(w)
	}

	k := rd.U32()
	topics := make([][]float64, k)
	for t := uint32(0); t < k; t++ {
		n := rd.U32()
		row := make([]float64, n)
		for i := uint32(0); i < n; i++ {
			row[i] = rd.F64()
		}
		topics[t] = row
	}

	nFreq := rd.U32()
	freq := make([]int, nFreq)
	for i := uint32(0); i < nFreq; i++ {
		freq[i] = int(rd.U32())
	}

	var docTopicDist [][]float64
	nDocs := rd.U32()
	if nDocs > 0 {
		docTopicDist = make([][]float64, nDocs)
		for d := uint32(0); d < nDocs; d++ {
			n := rd.U32()
			row := make([]float64, n)
			for i := uint32(0); i < n; i++ {
				row[i] = rd.F64()
			}
			docTopicDist[d] = row
		}
	}

	var docLens []int
	nLens := rd.U32()
	if nLens > 0 {
		docLens = make([]int, nLens)
		for i := uint32(0); i < nLens; i++ {
			docLens[i] = int(rd.U32())
		}
	}

	if err := rd.Err(); err != nil {
		return nil, err
	}

	return &TopicModel{
		topics:                topics,
		voc:                   voc,
		usedVocabFrequency:    freq,
		docTopicDistributions: docTopicDist,
		documentLengths:       docLens,
	}, nil
}

// Save writes m to path, choosing binary or JSON by extension.
func (m *TopicModel) Save(path string) error {
	if persist.PickFormat(path) {
		return m.SaveJSON(path)
	}
	return m.SaveBinary(path)
}

// Load reads a TopicModel from path, dispatching on extension/magic.
func Load(path string) (*TopicModel, error) {
	if persist.PickFormat(path) {
		return LoadJSON(path)
	}
	magic, err := persist.SniffMagic(path)
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, ldaerr.NewInvalidInputError("path", "unrecognized topic model container at %s", path)
	}
	return LoadBinary(path)
}
