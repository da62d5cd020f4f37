package voting

import "sort"

// GlobalContextInputs are the values the translation engine knows before
// any voting runs for a given topic; NewGlobalContext seeds a Context with
// these plus any provider overrides already merged in by the caller.
type GlobalContextInputs struct {
	Epsilon             float64
	VocabularySizeA     int
	VocabularySizeB     int
	TopicID             int
	TopicMaxProbability float64
	TopicMinProbability float64
	TopicAvgProbability float64
	TopicSumProbability float64
	CountOfVoters       int
}

// NewGlobalContext builds the global context pre-populated exactly as
// §4.6 specifies, before any provider overlay is applied.
func NewGlobalContext(in GlobalContextInputs) *Context {
	c := NewContext()
	c.Set("EPSILON", Number(in.Epsilon))
	c.Set("VOCABULARY_SIZE_A", Number(float64(in.VocabularySizeA)))
	c.Set("VOCABULARY_SIZE_B", Number(float64(in.VocabularySizeB)))
	c.Set("TOPIC_ID", Number(float64(in.TopicID)))
	c.Set("TOPIC_MAX_PROBABILITY", Number(in.TopicMaxProbability))
	c.Set("TOPIC_MIN_PROBABILITY", Number(in.TopicMinProbability))
	c.Set("TOPIC_AVG_PROBABILITY", Number(in.TopicAvgProbability))
	c.Set("TOPIC_SUM_PROBABILITY", Number(in.TopicSumProbability))
	c.Set("COUNT_OF_VOTERS", Number(float64(in.CountOfVoters)))
	c.Set("NUMBER_OF_VOTERS", Number(float64(in.CountOfVoters)))
	return c
}

// VoterSeed is one voter's raw facts, known to the engine before ranks are
// computed across the full voter list.
type VoterSeed struct {
	VoterID        int
	CandidateID    int
	HasTranslation bool
	IsOriginWord   bool
	ScoreCandidate float64
	Importance     float64 // 0 means "unset": BuildVoterContexts substitutes 1.0
}

// BuildVoterContexts seeds one Context per voter exactly as §4.6 specifies:
// RANK is the 1-based rank by descending SCORE_CANDIDATE (ties broken by
// ascending VOTER_ID), RECIPROCAL_RANK = 1/RANK, and REAL_RECIPROCAL_RANK
// is the reciprocal of the voter's rank computed among only the voters
// with HAS_TRANSLATION set.
func BuildVoterContexts(seeds []VoterSeed) []*Context {
	n := len(seeds)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := seeds[order[a]].ScoreCandidate, seeds[order[b]].ScoreCandidate
		if sa != sb {
			return sa > sb
		}
		return seeds[order[a]].VoterID < seeds[order[b]].VoterID
	})
	rank := make([]int, n)
	for r, idx := range order {
		rank[idx] = r + 1
	}

	var translating []int
	for i, s := range seeds {
		if s.HasTranslation {
			translating = append(translating, i)
		}
	}
	sort.SliceStable(translating, func(a, b int) bool {
		ia, ib := translating[a], translating[b]
		sa, sb := seeds[ia].ScoreCandidate, seeds[ib].ScoreCandidate
		if sa != sb {
			return sa > sb
		}
		return seeds[ia].VoterID < seeds[ib].VoterID
	})
	realRank := make(map[int]int, len(translating))
	for r, idx := range translating {
		realRank[idx] = r + 1
	}

	out := make([]*Context, n)
	for i, s := range seeds {
		c := NewContext()
		c.Set("VOTER_ID", Number(float64(s.VoterID)))
		c.Set("CANDIDATE_ID", Number(float64(s.CandidateID)))
		c.Set("HAS_TRANSLATION", Bool_(s.HasTranslation))
		c.Set("IS_ORIGIN_WORD", Bool_(s.IsOriginWord))
		c.Set("SCORE_CANDIDATE", Number(s.ScoreCandidate))
		c.Set("RANK", Number(float64(rank[i])))
		c.Set("RECIPROCAL_RANK", Number(1/float64(rank[i])))
		if rr, ok := realRank[i]; ok {
			c.Set("REAL_RECIPROCAL_RANK", Number(1/float64(rr)))
		} else {
			c.Set("REAL_RECIPROCAL_RANK", Number(0))
		}
		importance := s.Importance
		if importance == 0 {
			importance = 1.0
		}
		c.Set("IMPORTANCE", Number(importance))
		c.Set("SCORE", Number(s.ScoreCandidate))
		out[i] = c
	}
	return out
}
