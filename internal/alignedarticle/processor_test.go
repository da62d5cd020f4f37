package alignedarticle

import (
	"testing"

	"github.com/heartmarshall/ldatranslate/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignedArticleProcessor_Process_AppliesPerLanguageTokenizer(t *testing.T) {
	proc := NewAlignedArticleProcessor(map[string]*tokenizer.TokenizerBuilder{
		"en": tokenizer.NewBuilder(),
		"fr": tokenizer.NewBuilder(),
	})

	art, _ := NewAlignedArticle(1, []Article{
		NewArticle("en", "hello world", nil, false),
		NewArticle("fr", "bonjour monde", nil, false),
		NewArticle("de", "hallo welt", nil, false), // no configured tokenizer
	})

	out := proc.Process(art)
	require.Len(t, out.Articles, 2)

	en, ok := out.Get("en")
	require.True(t, ok)
	assert.Greater(t, len(en.Tokens), 0)

	_, ok = out.Get("de")
	assert.False(t, ok, "languages with no configured tokenizer are skipped, not errored")
}

func TestAlignedArticleProcessor_ProcessString_UnknownLanguageErrors(t *testing.T) {
	proc := NewAlignedArticleProcessor(map[string]*tokenizer.TokenizerBuilder{
		"en": tokenizer.NewBuilder(),
	})
	_, err := proc.ProcessString("de", "hallo")
	assert.Error(t, err)
}

func TestAlignedArticleProcessor_ProcessString_TokenizesConfiguredLanguage(t *testing.T) {
	proc := NewAlignedArticleProcessor(map[string]*tokenizer.TokenizerBuilder{
		"en": tokenizer.NewBuilder(),
	})
	tagged, err := proc.ProcessString("EN", "Hello, world!")
	require.NoError(t, err)

	var words []string
	for _, tg := range tagged {
		if tg.Token.Kind == tokenizer.Word {
			words = append(words, tg.Surface)
		}
	}
	assert.Equal(t, []string{"Hello", "world"}, words)
}

func TestTokenizedAlignedArticle_JSONRoundTrip(t *testing.T) {
	proc := NewAlignedArticleProcessor(map[string]*tokenizer.TokenizerBuilder{
		"en": tokenizer.NewBuilder(),
	})
	art, _ := NewAlignedArticle(9, []Article{NewArticle("en", "café chat", nil, false)})
	tokenized := proc.Process(art)

	data, err := tokenized.ToJSON()
	require.NoError(t, err)

	back, err := TokenizedFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, tokenized.ArticleID, back.ArticleID)

	before, _ := tokenized.Get("en")
	after, _ := back.Get("en")
	require.Equal(t, len(before.Tokens), len(after.Tokens))
	for i := range before.Tokens {
		assert.Equal(t, before.Tokens[i].Surface, after.Tokens[i].Surface)
		assert.Equal(t, before.Tokens[i].Token.Kind, after.Tokens[i].Token.Kind)
		assert.Equal(t, before.Tokens[i].Token.Lemma, after.Tokens[i].Token.Lemma)
	}
}
