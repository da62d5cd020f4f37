package dictionary

import (
	"testing"

	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTopicModelSpecific_RestrictsToVoc(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat")
	d.AddWordPair("dog", "chien")
	d.AddWordPair("cat", "minou")

	modelVoc := vocabulary.NewWithLanguage("en")
	modelVoc.Add("cat")
	modelVoc.Add("bird") // not in dict at all

	sub := CreateTopicModelSpecific(d, modelVoc)

	require.True(t, sub.VocA().Equal(modelVoc), "VocA must equal the input vocabulary exactly, ids included")

	catID, _ := modelVoc.WordToID("cat")
	assert.Equal(t, catID, mustID(t, sub.VocA(), "cat"))

	assert.ElementsMatch(t, []string{"chat", "minou"}, sub.GetTranslationAToB("cat"))
	assert.Nil(t, sub.GetTranslationAToB("dog"), "dog was dropped: not a member of voc")
	assert.Equal(t, 2, sub.VocB().Len())
}

func TestCreateTopicModelSpecific_VocBCompactedPreservingOrder(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("a", "x")
	d.AddWordPair("b", "y")
	d.AddWordPair("c", "z")

	modelVoc := vocabulary.NewWithLanguage("en")
	modelVoc.Add("c")
	modelVoc.Add("a")

	sub := CreateTopicModelSpecific(d, modelVoc)
	assert.Equal(t, 2, sub.VocB().Len())
	xID, _ := sub.VocB().WordToID("x")
	zID, _ := sub.VocB().WordToID("z")
	assert.Equal(t, 0, xID, "a->x is the first surviving edge in the dictionary's own insertion order")
	assert.Equal(t, 1, zID)
}

func mustID(t *testing.T, voc *vocabulary.Vocabulary, w string) int {
	t.Helper()
	id, ok := voc.WordToID(w)
	require.True(t, ok)
	return id
}
