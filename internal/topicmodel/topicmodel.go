// Package topicmodel implements the k×|V| topic-word probability matrix:
// normalization, top-N queries, Gensim-style variational document
// inference, and the builder used to assemble a model word by word.
package topicmodel

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mathext"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/persist"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

// Magic is the native-binary container tag for a standalone TopicModel file.
var Magic = persist.Magic{'L', 'D', 'T', 'M'}

// TopicModel is a k×|V| non-negative probability matrix over voc, with
// per-word frequencies and optional per-document topic distributions.
type TopicModel struct {
	topics                 [][]float64
	voc                    *vocabulary.Vocabulary
	usedVocabFrequency     []int
	docTopicDistributions  [][]float64
	documentLengths        []int
}

// K returns the number of topics.
func (m *TopicModel) K() int { return len(m.topics) }

// Vocabulary returns the model's vocabulary.
func (m *TopicModel) Vocabulary() *vocabulary.Vocabulary { return m.voc }

// UsedVocabFrequency returns the per-word id frequency counts.
func (m *TopicModel) UsedVocabFrequency() []int { return m.usedVocabFrequency }

// DocTopicDistributions returns the optional per-document topic
// distributions, or nil if the model carries none.
func (m *TopicModel) DocTopicDistributions() [][]float64 { return m.docTopicDistributions }

// DocumentLengths returns the optional per-document token counts.
func (m *TopicModel) DocumentLengths() []int { return m.documentLengths }

// GetTopic returns topic t's full probability row.
func (m *TopicModel) GetTopic(t int) ([]float64, bool) {
	if t < 0 || t >= len(m.topics) {
		return nil, false
	}
	return m.topics[t], true
}

// WordProb is a (word, probability) pair.
type WordProb struct {
	Word string
	Prob float64
}

// GetWordsOfTopicSorted returns every word of topic t, sorted descending by
// probability with ties broken lexicographically ascending.
func (m *TopicModel) GetWordsOfTopicSorted(t int) ([]WordProb, bool) {
	row, ok := m.GetTopic(t)
	if !ok {
		return nil, false
	}
	out := make([]WordProb, 0, len(row))
	for id, p := range row {
		w, _ := m.voc.IDToWord(id)
		out = append(out, WordProb{Word: w, Prob: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prob != out[j].Prob {
			return out[i].Prob > out[j].Prob
		}
		return out[i].Word < out[j].Word
	})
	return out, true
}

// IDWordProb is an (id, word, probability) triple.
type IDWordProb struct {
	ID   int
	Word string
	Prob float64
}

// GetTopicAsWords returns topic t as (id, word, prob) triples in vocabulary id order.
func (m *TopicModel) GetTopicAsWords(t int) ([]IDWordProb, bool) {
	row, ok := m.GetTopic(t)
	if !ok {
		return nil, false
	}
	out := make([]IDWordProb, 0, len(row))
	for id, p := range row {
		w, _ := m.voc.IDToWord(id)
		out = append(out, IDWordProb{ID: id, Word: w, Prob: p})
	}
	return out, true
}

// ShowTop renders the top-n words of every topic as a human-readable string.
func (m *TopicModel) ShowTop(n int) string {
	var b strings.Builder
	for t := 0; t < m.K(); t++ {
		words, _ := m.GetWordsOfTopicSorted(t)
		if n < len(words) {
			words = words[:n]
		}
		fmt.Fprintf(&b, "topic %d:", t)
		for _, wp := range words {
			fmt.Fprintf(&b, " %s=%.4f", wp.Word, wp.Prob)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Normalize returns a new model with every topic row scaled to sum to 1.
// Rows that sum to zero are left as all-zero.
func (m *TopicModel) Normalize() *TopicModel {
	out := &TopicModel{
		voc:                   m.voc,
		usedVocabFrequency:    m.usedVocabFrequency,
		docTopicDistributions: m.docTopicDistributions,
		documentLengths:       m.documentLengths,
	}
	out.topics = make([][]float64, len(m.topics))
	for t, row := range m.topics {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		newRow := make([]float64, len(row))
		if sum > 0 {
			for i, p := range row {
				newRow[i] = p / sum
			}
		}
		out.topics[t] = newRow
	}
	return out
}

// TranslateByProvidedWordLists bypasses the voting engine: for each topic,
// wordLists[t] gives the per-target-word mass override, in the order of
// targetVoc's ids. The returned model shares docTopicDistributions/document
// lengths with m, unchanged.
func TranslateByProvidedWordLists(m *TopicModel, targetVoc *vocabulary.Vocabulary, wordLists [][]float64) (*TopicModel, error) {
	if len(wordLists) != m.K() {
		return nil, ldaerr.NewInvalidInputError("wordLists", "got %d topics, want %d", len(wordLists), m.K())
	}
	out := &TopicModel{
		voc:                   targetVoc,
		docTopicDistributions: m.docTopicDistributions,
		documentLengths:       m.documentLengths,
		usedVocabFrequency:    make([]int, targetVoc.Len()),
	}
	out.topics = make([][]float64, m.K())
	for t, row := range wordLists {
		if len(row) != targetVoc.Len() {
			return nil, ldaerr.NewInvalidInputError("wordLists", "topic %d: got %d words, want %d", t, len(row), targetVoc.Len())
		}
		out.topics[t] = append([]float64(nil), row...)
	}
	return out, nil
}

// TopicProb is a (topic, probability) pair returned by GetDocProbability.
type TopicProb struct {
	Topic int
	Prob  float64
}

// PhiValue is a (topic, phi) pair, the per-word-per-topic variational mass.
type PhiValue struct {
	Topic int
	Phi   float64
}

// WordCount is one (word id, count) entry of a bag-of-words document.
type WordCount struct {
	ID    int
	Count int
}

// DocProbabilityOptions configures GetDocProbability.
type DocProbabilityOptions struct {
	// Alpha is the document-topic Dirichlet prior, one value per topic.
	Alpha []float64
	// GammaThreshold stops the variational update once the total absolute
	// change in gamma across an iteration falls below this value.
	GammaThreshold float64
	// MinimumProbability drops topics below this mass from the returned
	// topic distribution. Zero keeps everything.
	MinimumProbability float64
	// MinimumPhiValue drops per-word-per-topic phi entries below this value
	// from PerWordTopics output. Zero keeps everything.
	MinimumPhiValue float64
	// PerWordTopics additionally computes, for every word, its topic
	// ranking and phi values.
	PerWordTopics bool
	// MaxIterations bounds the variational update; Gensim defaults to 50.
	MaxIterations int
}

const defaultMaxIterations = 50

// GetDocProbability performs variational inference against the stored
// model for a single bag-of-words document, with semantics matching the
// Gensim LdaModel.get_document_topics contract: fixed-point updates of the
// per-word topic assignment (phi) and the document's topic posterior
// (gamma) until gamma stabilizes within GammaThreshold or MaxIterations is
// reached.
func (m *TopicModel) GetDocProbability(doc []WordCount, opts DocProbabilityOptions) ([]TopicProb, map[int][]int, map[int][]PhiValue, error) {
	k := m.K()
	if k == 0 {
		return nil, nil, nil, ldaerr.Invariantf("get_doc_probability: model has no topics")
	}
	alpha := opts.Alpha
	if alpha == nil {
		alpha = make([]float64, k)
		for i := range alpha {
			alpha[i] = 1.0 / float64(k)
		}
	}
	if len(alpha) != k {
		return nil, nil, nil, ldaerr.NewInvalidInputError("alpha", "got %d topics, want %d", len(alpha), k)
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	gamma := make([]float64, k)
	copy(gamma, alpha)
	meanWordCount := 0.0
	for _, wc := range doc {
		meanWordCount += float64(wc.Count)
	}
	if len(doc) > 0 {
		meanWordCount /= float64(len(doc))
	}
	for i := range gamma {
		gamma[i] += meanWordCount
	}

	phi := make([][]float64, len(doc))
	for i := range phi {
		phi[i] = make([]float64, k)
	}

	elogtheta := make([]float64, k)
	expElogtheta := make([]float64, k)
	updateElogtheta := func() {
		gammaSum := 0.0
		for _, g := range gamma {
			gammaSum += g
		}
		digammaSum := mathext.Digamma(gammaSum)
		for t, g := range gamma {
			elogtheta[t] = mathext.Digamma(g) - digammaSum
			expElogtheta[t] = math.Exp(elogtheta[t])
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		updateElogtheta()
		lastGamma := append([]float64(nil), gamma...)

		newGamma := append([]float64(nil), alpha...)
		for n, wc := range doc {
			phinorm := 0.0
			row := phi[n]
			for t := 0; t < k; t++ {
				topicRow, ok := m.GetTopic(t)
				if !ok {
					continue
				}
				v := expElogtheta[t] * topicRow[wc.ID]
				row[t] = v
				phinorm += v
			}
			if phinorm <= 0 {
				phinorm = 1
			}
			for t := 0; t < k; t++ {
				row[t] = row[t] / phinorm * float64(wc.Count)
				newGamma[t] += row[t]
			}
		}
		gamma = newGamma

		delta := 0.0
		for t := range gamma {
			delta += math.Abs(gamma[t] - lastGamma[t])
		}
		if delta < opts.GammaThreshold {
			break
		}
	}

	gammaSum := 0.0
	for _, g := range gamma {
		gammaSum += g
	}
	topicProbs := make([]TopicProb, 0, k)
	for t, g := range gamma {
		p := g / gammaSum
		if p >= opts.MinimumProbability {
			topicProbs = append(topicProbs, TopicProb{Topic: t, Prob: p})
		}
	}
	sort.Slice(topicProbs, func(i, j int) bool { return topicProbs[i].Topic < topicProbs[j].Topic })

	if !opts.PerWordTopics {
		return topicProbs, nil, nil, nil
	}

	wordTopics := make(map[int][]int, len(doc))
	wordPhis := make(map[int][]PhiValue, len(doc))
	for n, wc := range doc {
		type tp struct {
			topic int
			phi   float64
		}
		ranked := make([]tp, 0, k)
		for t := 0; t < k; t++ {
			if phi[n][t] >= opts.MinimumPhiValue {
				ranked = append(ranked, tp{t, phi[n][t]})
			}
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].phi != ranked[j].phi {
				return ranked[i].phi > ranked[j].phi
			}
			return ranked[i].topic < ranked[j].topic
		})
		topics := make([]int, 0, len(ranked))
		phis := make([]PhiValue, 0, len(ranked))
		for _, r := range ranked {
			topics = append(topics, r.topic)
			phis = append(phis, PhiValue{Topic: r.topic, Phi: r.phi})
		}
		wordTopics[wc.ID] = topics
		wordPhis[wc.ID] = phis
	}

	return topicProbs, wordTopics, wordPhis, nil
}
