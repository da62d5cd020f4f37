package translate

import (
	"testing"

	"github.com/heartmarshall/ldatranslate/internal/dictionary"
	"github.com/heartmarshall/ldatranslate/internal/topicmodel"
	"github.com/heartmarshall/ldatranslate/internal/voting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildModel(t *testing.T, words []string, topics [][]float64) *topicmodel.TopicModel {
	t.Helper()
	b := topicmodel.NewBuilder("en")
	for topic, row := range topics {
		for i, w := range words {
			b.AddWord(topic, w, row[i])
		}
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func buildDict(t *testing.T, pairs [][2]string) *dictionary.Dictionary {
	t.Helper()
	d := dictionary.New("en", "fr")
	for _, p := range pairs {
		d.AddWordPair(p[0], p[1])
	}
	return d
}

func comb(name string) voting.Voting {
	v, err := voting.Parse(map[string]string{"CombSum": "sum(SCORE_CANDIDATE)", "CombMax": "max(SCORE_CANDIDATE)"}[name])
	if err != nil {
		panic(err)
	}
	return v
}

func TestTranslate_TrivialIdentity(t *testing.T) {
	model := buildModel(t, []string{"cat"}, [][]float64{{1.0}})
	dict := buildDict(t, [][2]string{{"cat", "chat"}})

	out, err := Translate(model, dict, comb("CombSum"), Config{KeepOriginalWord: Never}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, out.K())
	assert.Equal(t, []string{"chat"}, out.Vocabulary().Iter())
	row, ok := out.GetTopic(0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, row[0], 1e-9)
}

func TestTranslate_TwoToOneMerge(t *testing.T) {
	model := buildModel(t, []string{"cat", "kitten"}, [][]float64{{0.3, 0.7}})
	dict := buildDict(t, [][2]string{{"cat", "chat"}, {"kitten", "chat"}})

	out, err := Translate(model, dict, comb("CombSum"), Config{KeepOriginalWord: Never}, nil, nil)
	require.NoError(t, err)

	chatID, ok := out.Vocabulary().WordToID("chat")
	require.True(t, ok)
	row, _ := out.GetTopic(0)
	assert.InDelta(t, 1.0, row[chatID], 1e-9)
}

func TestTranslate_OneToTwoSplit(t *testing.T) {
	model := buildModel(t, []string{"big"}, [][]float64{{1.0}})
	dict := buildDict(t, [][2]string{{"big", "grand"}, {"big", "gros"}})

	out, err := Translate(model, dict, comb("CombSum"), Config{KeepOriginalWord: Never}, nil, nil)
	require.NoError(t, err)

	row, _ := out.GetTopic(0)
	grandID, _ := out.Vocabulary().WordToID("grand")
	grosID, _ := out.Vocabulary().WordToID("gros")
	assert.InDelta(t, 0.5, row[grandID], 1e-9)
	assert.InDelta(t, 0.5, row[grosID], 1e-9)
}

func TestTranslate_CombMaxVsCombSum(t *testing.T) {
	model := buildModel(t, []string{"a", "b", "c"}, [][]float64{{0.4, 0.6, 1.0}})
	dict := buildDict(t, [][2]string{{"a", "x"}, {"b", "x"}, {"c", "y"}})

	sumOut, err := Translate(model, dict, comb("CombSum"), Config{KeepOriginalWord: Never}, nil, nil)
	require.NoError(t, err)
	maxOut, err := Translate(model, dict, comb("CombMax"), Config{KeepOriginalWord: Never}, nil, nil)
	require.NoError(t, err)

	sumRow, _ := sumOut.GetTopic(0)
	maxRow, _ := maxOut.GetTopic(0)
	xSum, _ := sumOut.Vocabulary().WordToID("x")
	xMax, _ := maxOut.Vocabulary().WordToID("x")

	assert.InDelta(t, 0.5, sumRow[xSum], 1e-9)
	assert.InDelta(t, 0.375, maxRow[xMax], 1e-9)
}

func TestTranslate_KeepIfNoTranslation(t *testing.T) {
	model := buildModel(t, []string{"cat", "xyz"}, [][]float64{{0.3, 0.7}})
	dict := buildDict(t, [][2]string{{"cat", "chat"}})

	out, err := Translate(model, dict, comb("CombSum"), Config{KeepOriginalWord: IfNoTranslation}, nil, nil)
	require.NoError(t, err)

	row, _ := out.GetTopic(0)
	chatID, ok := out.Vocabulary().WordToID("chat")
	require.True(t, ok)
	xyzID, ok := out.Vocabulary().WordToID("xyz")
	require.True(t, ok)
	assert.InDelta(t, 0.3, row[chatID], 1e-9)
	assert.InDelta(t, 0.7, row[xyzID], 1e-9)
}

func TestTranslate_RowsSumToOne_NoNegativeOrNaN(t *testing.T) {
	model := buildModel(t, []string{"a", "b"}, [][]float64{{0.1, 0.9}, {0.5, 0.5}})
	dict := buildDict(t, [][2]string{{"a", "x"}, {"b", "y"}})

	out, err := Translate(model, dict, comb("CombSum"), Config{}, nil, nil)
	require.NoError(t, err)
	for t2 := 0; t2 < out.K(); t2++ {
		row, _ := out.GetTopic(t2)
		sum := 0.0
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestTranslate_EmptyVocabulary_Errors(t *testing.T) {
	model := buildModel(t, []string{}, [][]float64{{}})
	dict := buildDict(t, [][2]string{{"a", "x"}})
	_, err := Translate(model, dict, comb("CombSum"), Config{}, nil, nil)
	assert.Error(t, err)
}

func TestTranslate_ConcurrentWorkersMatchSequential(t *testing.T) {
	words := []string{"a", "b"}
	topics := [][]float64{{0.1, 0.9}, {0.5, 0.5}, {0.8, 0.2}, {0.25, 0.75}}
	dict := buildDict(t, [][2]string{{"a", "x"}, {"b", "y"}})

	seqModel := buildModel(t, words, topics)
	seqOut, err := Translate(seqModel, dict, comb("CombSum"), Config{KeepOriginalWord: Never}, nil, nil)
	require.NoError(t, err)

	parModel := buildModel(t, words, topics)
	parOut, err := Translate(parModel, dict, comb("CombSum"), Config{KeepOriginalWord: Never, Workers: 4}, nil, nil)
	require.NoError(t, err)

	require.Equal(t, seqOut.K(), parOut.K())
	for topic := 0; topic < seqOut.K(); topic++ {
		seqRow, _ := seqOut.GetTopic(topic)
		parRow, _ := parOut.GetTopic(topic)
		require.Equal(t, len(seqRow), len(parRow))
		for i := range seqRow {
			assert.InDelta(t, seqRow[i], parRow[i], 1e-12)
		}
	}
}

func TestScoreTopics_PropagatesFirstError(t *testing.T) {
	sentinel := assert.AnError
	err := scoreTopics(5, 3, func(t int) error {
		if t == 2 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestScoreTopics_SequentialWhenWorkersIsOne(t *testing.T) {
	var seen []int
	err := scoreTopics(4, 1, func(t int) error {
		seen = append(seen, t)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}
