// Package translate implements the per-topic candidate aggregation
// pipeline (§4.7): derive a topic-specific sub-dictionary, assemble voter
// contexts for every target-vocabulary candidate in every topic, invoke
// the configured voting, apply threshold and original-word retention,
// then zero-guard and re-normalize the resulting matrix.
package translate

import (
	"math"
	"sort"
	"sync"

	"github.com/heartmarshall/ldatranslate/internal/dictionary"
	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/topicmodel"
	"github.com/heartmarshall/ldatranslate/internal/variableprovider"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
	"github.com/heartmarshall/ldatranslate/internal/voting"
)

// KeepOriginalWord controls whether, and when, an untranslated source word
// keeps its own probability mass under a target-vocabulary slot keyed by
// its own surface form.
type KeepOriginalWord int

const (
	// Never drops source words with no surviving target slot.
	Never KeepOriginalWord = iota
	// Always retains every source word's mass under its own surface form.
	Always
	// IfNoTranslation retains a source word's mass only when the derived
	// dictionary has no translation edge for it.
	IfNoTranslation
)

const defaultEpsilon = 1e-12

// Config configures one Translate invocation.
type Config struct {
	// Epsilon is the divide-by-zero guard fed into every voting
	// evaluation and, when positive, the value that replaces zero cells
	// before re-normalization. Zero selects defaultEpsilon for the voting
	// guard and lets resolveZeros derive the replacement from each row.
	Epsilon float64
	// Threshold zeroes a candidate's score when it falls strictly below
	// this value. Zero disables thresholding.
	Threshold        float64
	KeepOriginalWord KeepOriginalWord
	// TopCandidateLimit, if > 0, retains only the top-n voters by
	// SCORE_CANDIDATE (descending, ties broken by ascending id) before
	// invoking the voting for each candidate.
	TopCandidateLimit int
	// Workers bounds how many topics are scored concurrently (spec.md
	// §13's "parallelize the outer topic loop across worker threads").
	// Values <= 0 run the topic loop sequentially (Workers treated as 1).
	Workers int
}

func (c Config) epsilon() float64 {
	if c.Epsilon > 0 {
		return c.Epsilon
	}
	return defaultEpsilon
}

func (c Config) workers(k int) int {
	n := c.Workers
	if n <= 0 {
		n = 1
	}
	if n > k {
		n = k
	}
	return n
}

// Translate projects model into the target-language vocabulary implied by
// dict, aggregating per-topic candidate scores through v. provider and
// registry may be nil. The input model is never mutated; a distinct
// TopicModel is returned.
func Translate(model *topicmodel.TopicModel, dict *dictionary.Dictionary, v voting.Voting, cfg Config, provider *variableprovider.Provider, registry *voting.Registry) (*topicmodel.TopicModel, error) {
	if model.Vocabulary().Len() == 0 {
		return nil, ldaerr.NewInvalidInputError("model", "vocabulary is empty")
	}
	if v == nil {
		return nil, ldaerr.NewInvalidInputError("voting", "voting must not be nil")
	}

	subDict := dictionary.CreateTopicModelSpecific(dict, model.Vocabulary())

	candidateVoters := make(map[string][]string)
	for _, e := range subDict.Iter() {
		candidateVoters[e.WordB] = append(candidateVoters[e.WordB], e.WordA)
	}
	if len(candidateVoters) == 0 {
		return nil, ldaerr.NewInvalidInputError("dictionary", "derived dictionary has no edges intersecting the model vocabulary")
	}

	_, langB := dict.Languages()
	targetVoc := subDict.VocB().Clone()

	sourceHasTranslation := make(map[string]bool, model.Vocabulary().Len())
	for _, w := range model.Vocabulary().Iter() {
		sourceHasTranslation[w] = len(subDict.GetTranslationAToB(w)) > 0
	}

	if cfg.KeepOriginalWord != Never {
		for _, w := range model.Vocabulary().Iter() {
			if cfg.KeepOriginalWord == Always || !sourceHasTranslation[w] {
				targetVoc.Add(w)
			}
		}
	}

	k := model.K()
	epsilon := cfg.epsilon()

	// scores[t][targetID] accumulates the final per-cell mass before it is
	// committed to the builder - translation-candidate score plus any
	// retained-original-word addition.
	scores := make([]map[int]float64, k)
	for t := range scores {
		scores[t] = make(map[int]float64)
	}

	if err := scoreTopics(k, cfg.workers(k), func(t int) error {
		return scoreTopic(model, targetVoc, candidateVoters, sourceHasTranslation, provider, registry, v, cfg, epsilon, t, scores[t])
	}); err != nil {
		return nil, err
	}

	freq := make(map[string]int, targetVoc.Len())
	for c, sources := range candidateVoters {
		total := 0
		for _, w := range sources {
			wid, _ := model.Vocabulary().WordToID(w)
			total += model.UsedVocabFrequency()[wid]
		}
		freq[c] = total
	}
	if cfg.KeepOriginalWord != Never {
		for _, w := range model.Vocabulary().Iter() {
			if cfg.KeepOriginalWord == IfNoTranslation && sourceHasTranslation[w] {
				continue
			}
			wid, _ := model.Vocabulary().WordToID(w)
			freq[w] += model.UsedVocabFrequency()[wid]
		}
	}

	builder := topicmodel.NewBuilder(langB)
	for _, w := range targetVoc.Iter() {
		builder.SetFrequency(w, freq[w])
	}
	for t := 0; t < k; t++ {
		resolveZeros(scores[t], cfg.Epsilon)
		renormalize(scores[t])
		for _, c := range targetVoc.Iter() {
			cid, _ := targetVoc.WordToID(c)
			builder.AddWord(t, c, scores[t][cid])
		}
	}
	builder.SetDocTopicDistributions(model.DocTopicDistributions())
	builder.SetDocumentLengths(model.DocumentLengths())

	return builder.Build()
}

// scoreTopics fans topic indices [0, k) out across workers goroutines,
// each calling score(t) for a disjoint share of topics, and returns the
// first error any call reports. score(t) must only touch the t-th slot of
// shared state (scores[t] is a distinct map per topic, so concurrent calls
// never contend on the same entry). workers <= 1 runs the loop inline with
// no goroutines spawned.
func scoreTopics(k, workers int, score func(t int) error) error {
	if workers <= 1 {
		for t := 0; t < k; t++ {
			if err := score(t); err != nil {
				return err
			}
		}
		return nil
	}

	topics := make(chan int, k)
	for t := 0; t < k; t++ {
		topics <- t
	}
	close(topics)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range topics {
				mu.Lock()
				abort := firstErr != nil
				mu.Unlock()
				if abort {
					continue
				}
				if err := score(t); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// scoreTopic computes topic t's candidate scores and original-word
// retention mass into out (scores[t] from Translate), the per-topic body
// that used to run inline in Translate's outer loop before it was split
// out for scoreTopics to call concurrently.
func scoreTopic(model *topicmodel.TopicModel, targetVoc *vocabulary.Vocabulary, candidateVoters map[string][]string, sourceHasTranslation map[string]bool, provider *variableprovider.Provider, registry *voting.Registry, v voting.Voting, cfg Config, epsilon float64, t int, out map[int]float64) error {
	row, ok := model.GetTopic(t)
	if !ok {
		return ldaerr.Invariantf("topic %d missing from a model reporting k=%d", t, model.K())
	}
	maxP, minP, sumP := rowStats(row)
	avgP := 0.0
	if len(row) > 0 {
		avgP = sumP / float64(len(row))
	}

	global := voting.NewGlobalContext(voting.GlobalContextInputs{
		Epsilon:             epsilon,
		VocabularySizeA:     model.Vocabulary().Len(),
		VocabularySizeB:     targetVoc.Len(),
		TopicID:             t,
		TopicMaxProbability: maxP,
		TopicMinProbability: minP,
		TopicAvgProbability: avgP,
		TopicSumProbability: sumP,
	})
	provider.ApplyGlobal(global, t)

	for _, c := range targetVoc.Iter() {
		sourceWords := candidateVoters[c]
		if len(sourceWords) == 0 {
			continue // a keep-original-only slot: scored in the retention pass below
		}
		score, err := evalCandidate(model, global, provider, registry, v, t, c, sourceWords, cfg, epsilon)
		if err != nil {
			return err
		}
		if cfg.Threshold > 0 && score < cfg.Threshold {
			score = 0
		}
		cid, _ := targetVoc.WordToID(c)
		out[cid] = score
	}

	if cfg.KeepOriginalWord != Never {
		for _, w := range model.Vocabulary().Iter() {
			if cfg.KeepOriginalWord == IfNoTranslation && sourceHasTranslation[w] {
				continue
			}
			wid, _ := model.Vocabulary().WordToID(w)
			cid, _ := targetVoc.WordToID(w)
			out[cid] += row[wid]
		}
	}
	return nil
}

func evalCandidate(model *topicmodel.TopicModel, global *voting.Context, provider *variableprovider.Provider, registry *voting.Registry, v voting.Voting, topic int, candidate string, sourceWords []string, cfg Config, epsilon float64) (float64, error) {
	type voterInfo struct {
		word  string
		id    int
		score float64
	}
	row, _ := model.GetTopic(topic)
	infos := make([]voterInfo, 0, len(sourceWords))
	for _, w := range sourceWords {
		wid, ok := model.Vocabulary().WordToID(w)
		if !ok {
			continue
		}
		infos = append(infos, voterInfo{word: w, id: wid, score: row[wid]})
	}
	sort.SliceStable(infos, func(a, b int) bool {
		if infos[a].score != infos[b].score {
			return infos[a].score > infos[b].score
		}
		return infos[a].id < infos[b].id
	})
	if cfg.TopCandidateLimit > 0 && len(infos) > cfg.TopCandidateLimit {
		infos = infos[:cfg.TopCandidateLimit]
	}

	cid := -1
	candidateID, ok := model.Vocabulary().WordToID(candidate)
	if ok {
		cid = candidateID
	}

	seeds := make([]voting.VoterSeed, len(infos))
	for i, inf := range infos {
		seeds[i] = voting.VoterSeed{
			VoterID:        inf.id,
			CandidateID:    cid,
			HasTranslation: true,
			IsOriginWord:   inf.word == candidate,
			ScoreCandidate: inf.score,
		}
	}
	contexts := voting.BuildVoterContexts(seeds)
	for i, inf := range infos {
		provider.ApplyVoter(contexts[i], variableprovider.SideA, topic, inf.word)
	}

	score, _, err := v.Eval(global, contexts, registry, epsilon)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return 0, ldaerr.NewInvalidInputError("voting", "produced a non-finite or negative score for %q in topic %d", candidate, topic)
	}
	return score, nil
}

func rowStats(row []float64) (maxP, minP, sum float64) {
	if len(row) == 0 {
		return 0, 0, 0
	}
	minP = row[0]
	maxP = row[0]
	for _, p := range row {
		sum += p
		if p > maxP {
			maxP = p
		}
		if p < minP {
			minP = p
		}
	}
	return maxP, minP, sum
}

// resolveZeros replaces every zero-valued cell with a positive epsilon:
// the configured epsilon if non-default, otherwise the minimum positive
// mass present in the row minus a machine-precision delta, clamped to a
// small positive floor. Only rewrites cells already present in row; it
// relies on scoreTopic having already given every targetVoc word an entry
// (dictionary-linked words via the candidate loop, keep-original words via
// the retention pass), so no zero-valued word is silently left out.
func resolveZeros(row map[int]float64, epsilon float64) {
	replacement := epsilon
	if replacement <= 0 {
		replacement = defaultEpsilon
		minPositive := math.Inf(1)
		for _, v := range row {
			if v > 0 && v < minPositive {
				minPositive = v
			}
		}
		if !math.IsInf(minPositive, 1) {
			candidate := minPositive - 1e-15
			if candidate > 0 {
				replacement = candidate
			}
		}
	}
	for id, v := range row {
		if v == 0 {
			row[id] = replacement
		}
	}
}

func renormalize(row map[int]float64) {
	ids := make([]int, 0, len(row))
	for id := range row {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	sum := 0.0
	for _, id := range ids {
		sum += row[id]
	}
	if sum == 0 {
		return
	}
	for id, v := range row {
		row[id] = v / sum
	}
}
