package topicmodel

import (
	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

// Builder assembles a TopicModel word by word. Build fills any cell never
// set via AddWord with 0 and pads every topic row to the vocabulary's size.
type Builder struct {
	voc        *vocabulary.Vocabulary
	topicRows  map[int]map[int]float64
	freq       map[int]int
	docTopicDistributions [][]float64
	documentLengths       []int
	maxTopic   int
	sawTopic   bool
}

// NewBuilder returns an empty builder. lang tags the vocabulary it builds,
// if non-empty.
func NewBuilder(lang vocabulary.LanguageHint) *Builder {
	var voc *vocabulary.Vocabulary
	if lang != "" {
		voc = vocabulary.NewWithLanguage(lang)
	} else {
		voc = vocabulary.New()
	}
	return &Builder{
		voc:       voc,
		topicRows: make(map[int]map[int]float64),
		freq:      make(map[int]int),
	}
}

// SetFrequency sets w's used-vocabulary frequency, inserting w if absent.
func (b *Builder) SetFrequency(w string, f int) *Builder {
	id := b.voc.Add(w)
	b.freq[id] = f
	return b
}

// AddWord inserts w into the vocabulary if absent, sets topics[t][id]=p,
// and, if f is provided, accumulates it into w's frequency.
func (b *Builder) AddWord(t int, w string, p float64, f ...int) *Builder {
	id := b.voc.Add(w)
	row, ok := b.topicRows[t]
	if !ok {
		row = make(map[int]float64)
		b.topicRows[t] = row
	}
	row[id] = p
	if !b.sawTopic || t > b.maxTopic {
		b.maxTopic = t
		b.sawTopic = true
	}
	for _, add := range f {
		b.freq[id] += add
	}
	return b
}

// SetDocTopicDistributions sets the optional per-document topic
// distributions. Pass nil to clear.
func (b *Builder) SetDocTopicDistributions(d [][]float64) *Builder {
	b.docTopicDistributions = d
	return b
}

// SetDocumentLengths sets the optional per-document token counts. Pass nil to clear.
func (b *Builder) SetDocumentLengths(lens []int) *Builder {
	b.documentLengths = lens
	return b
}

// Build validates and assembles the TopicModel. Every topic row is padded
// to the vocabulary's size; unset cells default to 0.
func (b *Builder) Build() (*TopicModel, error) {
	k := 0
	if b.sawTopic {
		k = b.maxTopic + 1
	}
	voclen := b.voc.Len()

	topics := make([][]float64, k)
	for t := 0; t < k; t++ {
		row := make([]float64, voclen)
		for id, p := range b.topicRows[t] {
			row[id] = p
		}
		topics[t] = row
	}

	freq := make([]int, voclen)
	for id, f := range b.freq {
		freq[id] = f
	}

	if b.docTopicDistributions != nil {
		for i, row := range b.docTopicDistributions {
			if len(row) != k {
				return nil, ldaerr.NewInvalidInputError("doc_topic_distributions", "doc %d: got %d topics, want %d", i, len(row), k)
			}
		}
	}

	return &TopicModel{
		topics:                topics,
		voc:                   b.voc,
		usedVocabFrequency:    freq,
		docTopicDistributions: b.docTopicDistributions,
		documentLengths:       b.documentLengths,
	}, nil
}

// Builder returns a new Builder pre-seeded with m's vocabulary and topic
// contents, so callers can derive a modified model.
func (m *TopicModel) Builder(lang vocabulary.LanguageHint) *Builder {
	b := NewBuilder(lang)
	b.voc = m.voc.Clone()
	for t, row := range m.topics {
		for id, p := range row {
			if p != 0 {
				b.AddWord(t, mustWord(m.voc, id), p)
			}
		}
	}
	for id, f := range m.usedVocabFrequency {
		if f != 0 {
			b.freq[id] = f
		}
	}
	b.docTopicDistributions = m.docTopicDistributions
	b.documentLengths = m.documentLengths
	return b
}

func mustWord(voc *vocabulary.Vocabulary, id int) string {
	w, _ := voc.IDToWord(id)
	return w
}
