package alignedarticle

import (
	"testing"

	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlignedArticle_ReportsDoublets(t *testing.T) {
	en1 := NewArticle("en", "hello", nil, false)
	en2 := NewArticle("EN ", "hi", nil, false)
	fr := NewArticle("fr", "bonjour", []int{1, 2}, false)

	art, doublets := NewAlignedArticle(7, []Article{en1, fr, en2})
	require.Len(t, doublets, 1)
	assert.Equal(t, "hi", doublets[0].Content)
	assert.Len(t, art.Articles, 2)

	got, ok := art.Get("En")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Content)
}

func TestAlignedArticle_GetString_NormalizesHint(t *testing.T) {
	art, _ := NewAlignedArticle(1, []Article{NewArticle("fr", "bonjour", nil, false)})
	got, ok := art.GetString("  FR")
	require.True(t, ok)
	assert.Equal(t, "bonjour", got.Content)
}

func TestAlignedArticle_JSONRoundTrip(t *testing.T) {
	original, _ := NewAlignedArticle(42, []Article{
		NewArticle("en", "hello world", []int{3}, false),
		NewArticle("fr", "bonjour le monde", nil, true),
	})

	data, err := original.ToJSON()
	require.NoError(t, err)

	back, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, original.ArticleID, back.ArticleID)
	require.Len(t, back.Articles, 2)
	en, ok := back.Get("en")
	require.True(t, ok)
	assert.Equal(t, "hello world", en.Content)
	assert.Equal(t, []int{3}, en.Categories)
	fr, ok := back.Get("fr")
	require.True(t, ok)
	assert.True(t, fr.IsList)
}

func TestAlignedArticle_LanguageHints(t *testing.T) {
	art, _ := NewAlignedArticle(1, []Article{
		NewArticle("en", "a", nil, false),
		NewArticle("fr", "b", nil, false),
	})
	hints := art.LanguageHints()
	assert.Len(t, hints, 2)
	assert.Contains(t, hints, vocabulary.LanguageHint("en"))
	assert.Contains(t, hints, vocabulary.LanguageHint("fr"))
}
