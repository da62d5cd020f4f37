package voting

import (
	"errors"
	"testing"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleGlobal() *Context {
	return NewGlobalContext(GlobalContextInputs{
		Epsilon: 1e-12, VocabularySizeA: 10, VocabularySizeB: 10,
		TopicID: 0, CountOfVoters: 3,
	})
}

func simpleVoters() []*Context {
	return BuildVoterContexts([]VoterSeed{
		{VoterID: 0, CandidateID: 5, HasTranslation: true, ScoreCandidate: 0.5},
		{VoterID: 1, CandidateID: 5, HasTranslation: true, ScoreCandidate: 0.3},
		{VoterID: 2, CandidateID: 5, HasTranslation: false, IsOriginWord: true, ScoreCandidate: 0.2},
	})
}

func TestParse_Arithmetic(t *testing.T) {
	v, err := Parse("1 + 2 * 3")
	require.NoError(t, err)
	score, used, err := v.Eval(simpleGlobal(), nil, nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 7.0, score)
	assert.Empty(t, used)
}

func TestParse_Ternary(t *testing.T) {
	v, err := Parse("EPSILON > 0 ? 1 : 0")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), nil, nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("1 +")
	require.Error(t, err)
	var pe *ldaerr.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestParse_UnboundIdentifier(t *testing.T) {
	v, err := Parse("UNKNOWN_THING")
	require.NoError(t, err)
	_, _, err = v.Eval(simpleGlobal(), nil, nil, 1e-12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ldaerr.ErrEval))
}

func TestDivideByZero_ReturnsEpsilon(t *testing.T) {
	v, err := Parse("1 / 0")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), nil, nil, 0.0042)
	require.NoError(t, err)
	assert.Equal(t, 0.0042, score)
}

func TestCombSum(t *testing.T) {
	v, err := Parse(catalogSource["CombSum"])
	require.NoError(t, err)
	score, used, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Equal(t, []int{0, 1, 2}, used)
}

func TestCombMax(t *testing.T) {
	v, err := Parse(catalogSource["CombMax"])
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
}

func TestOriginalScore_OnlyOriginWordVoters(t *testing.T) {
	v, err := Parse(catalogSource["OriginalScore"])
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, score, 1e-9)
}

func TestCombSumTop_SumsTopTwoByScore(t *testing.T) {
	v, err := Parse(catalogSource["CombSumTop"])
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, score, 1e-9) // top two scores: 0.5 + 0.3
}

// CombSumTop ranks by SCORE_CANDIDATE alone, unlike the HAS_TRANSLATION
// gate an earlier pass of the catalog used: a high-scoring origin-word
// voter is still counted among the top two.
func TestCombSumTop_IncludesOriginWordIfItRanksHighEnough(t *testing.T) {
	voters := BuildVoterContexts([]VoterSeed{
		{VoterID: 0, CandidateID: 5, HasTranslation: true, ScoreCandidate: 0.5},
		{VoterID: 1, CandidateID: 5, IsOriginWord: true, ScoreCandidate: 0.3},
		{VoterID: 2, CandidateID: 5, HasTranslation: true, ScoreCandidate: 0.1},
	})
	v, err := Parse(catalogSource["CombSumTop"])
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), voters, nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, score, 1e-9)
}

func TestVoters_ReadsNumberOfVoters(t *testing.T) {
	v, err := Parse(catalogSource["Voters"])
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 3.0, score)
}

func TestPCombSum_EmptyVoters_ReturnsEpsilon(t *testing.T) {
	v, err := Parse(catalogSource["PCombSum"])
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), nil, nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 1e-12, score)
}

func TestPCombSum_MeanPlusMaxReciprocalRank(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	require.NoError(t, err)
	v, err := reg.Get("PCombSum")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), reg, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0+1.0, score, 1e-9) // mean(0.5,0.3,0.2) + RR of rank-1 voter
}

func TestWGCombSum_LogGeometricMean(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	require.NoError(t, err)
	v, err := reg.Get("WGCombSum")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), reg, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 0.31622, score, 1e-3)
}

func TestTopSumBuiltin(t *testing.T) {
	v, err := Parse("topsum(SCORE_CANDIDATE, 2)")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, score, 1e-9)
}

func TestTopSumBuiltin_NClampedToVoterCount(t *testing.T) {
	v, err := Parse("topsum(SCORE_CANDIDATE, 10)")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9) // clamped to all 3 voters, same as CombSum
}

func TestAvgBuiltin(t *testing.T) {
	v, err := Parse("avg(SCORE_CANDIDATE)")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, score, 1e-9)
}

func TestNumberOfVoters_RefreshedToActualVoterCount(t *testing.T) {
	v, err := Parse("NUMBER_OF_VOTERS")
	require.NoError(t, err)
	global := simpleGlobal()
	score, _, err := v.Eval(global, simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 3.0, score)

	limited := v.Limit(2)
	score, _, err = limited.Eval(global, simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)
}

func TestCombSumRR_ComposedViaRegistry(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	require.NoError(t, err)
	v, err := reg.Get("CombSumRR")
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), reg, 1e-12)
	require.NoError(t, err)

	combSum, _, _ := (func() (float64, []int, error) {
		cs, _ := reg.Get("CombSum")
		return cs.Eval(simpleGlobal(), simpleVoters(), reg, 1e-12)
	})()
	rr, _, _ := (func() (float64, []int, error) {
		r, _ := reg.Get("RR")
		return r.Eval(simpleGlobal(), simpleVoters(), reg, 1e-12)
	})()
	assert.InDelta(t, combSum*rr, score, 1e-9)
}

func TestLimit_TruncatesToTopN(t *testing.T) {
	v, err := Parse(catalogSource["CombSum"])
	require.NoError(t, err)
	limited := v.Limit(2)
	score, used, err := limited.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, score, 1e-9) // top two by SCORE_CANDIDATE: 0.5 + 0.3
	assert.Equal(t, []int{0, 1}, used)
}

func TestRegistry_CycleDetected(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("A", "B + 1"))
	require.NoError(t, reg.Register("B", "A + 1"))
	v, err := reg.Get("A")
	require.NoError(t, err)
	_, _, err = v.Eval(simpleGlobal(), simpleVoters(), reg, 1e-12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references itself")
}

func TestBuiltinRegistry_RegistersEveryCatalogEntry(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	require.NoError(t, err)
	for _, name := range catalogOrder {
		assert.True(t, reg.Has(name), "missing %s", name)
	}
}

func TestSumBuiltin_ExpCombMnz(t *testing.T) {
	v, err := Parse(catalogSource["ExpCombMnz"])
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
}

func TestVoterIndexing(t *testing.T) {
	v, err := Parse("voters[0].SCORE_CANDIDATE")
	require.NoError(t, err)
	score, used, err := v.Eval(simpleGlobal(), simpleVoters(), nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
	assert.Equal(t, []int{0}, used)
}

func TestStringEquality(t *testing.T) {
	v, err := Parse(`"a" == "a"`)
	require.NoError(t, err)
	score, _, err := v.Eval(simpleGlobal(), nil, nil, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}
