package alignedarticle

import (
	"encoding/json"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/tokenizer"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

// TokenizedArticle is one language's Article after tokenization.
type TokenizedArticle struct {
	Lang   vocabulary.LanguageHint
	Tokens []tokenizer.Tagged
}

// TokenizedAlignedArticle is the AlignedArticleProcessor.Process result: an
// AlignedArticle with every configured language's Article replaced by its
// tokenized form.
type TokenizedAlignedArticle struct {
	ArticleID uint64
	Articles  map[vocabulary.LanguageHint]TokenizedArticle
}

// Get looks up the tokenized article for hint under normalized comparison.
func (a TokenizedAlignedArticle) Get(hint vocabulary.LanguageHint) (TokenizedArticle, bool) {
	art, ok := a.Articles[hint.Normalized()]
	return art, ok
}

// TokenCount counts the Word and StopWord tokens (every span the tokenizer
// considers a linguistic token, not a separator or Unknown span) of the
// article's hint-keyed language, used by TokenCountFilter.
func (a TokenizedAlignedArticle) TokenCount(hint vocabulary.LanguageHint) int {
	art, ok := a.Get(hint)
	if !ok {
		return 0
	}
	n := 0
	for _, tg := range art.Tokens {
		if tg.Token.Kind == tokenizer.Word || tg.Token.Kind == tokenizer.StopWord {
			n++
		}
	}
	return n
}

type jsonTaggedToken struct {
	Kind        int                      `json:"kind"`
	Lemma       string                   `json:"lemma"`
	CharStart   int                      `json:"char_start"`
	CharEnd     int                      `json:"char_end"`
	ByteStart   int                      `json:"byte_start"`
	ByteEnd     int                      `json:"byte_end"`
	CharMap     []tokenizer.CharMapEntry `json:"char_map,omitempty"`
	Script      int                      `json:"script"`
	Language    int                      `json:"language"`
	HasLanguage bool                     `json:"has_language"`
}

type jsonTagged struct {
	Surface string          `json:"surface"`
	Token   jsonTaggedToken `json:"token"`
}

func taggedToJSON(tg tokenizer.Tagged) jsonTagged {
	t := tg.Token
	return jsonTagged{
		Surface: tg.Surface,
		Token: jsonTaggedToken{
			Kind: int(t.Kind), Lemma: t.Lemma,
			CharStart: t.CharStart, CharEnd: t.CharEnd,
			ByteStart: t.ByteStart, ByteEnd: t.ByteEnd,
			CharMap: t.CharMap,
			Script: int(t.Script), Language: int(t.Language), HasLanguage: t.HasLanguage,
		},
	}
}

func taggedFromJSON(j jsonTagged) tokenizer.Tagged {
	return tokenizer.Tagged{
		Surface: j.Surface,
		Token: tokenizer.Token{
			Kind: tokenizer.TokenKind(j.Token.Kind), Lemma: j.Token.Lemma,
			CharStart: j.Token.CharStart, CharEnd: j.Token.CharEnd,
			ByteStart: j.Token.ByteStart, ByteEnd: j.Token.ByteEnd,
			CharMap: j.Token.CharMap,
			Script: tokenizer.Script(j.Token.Script), Language: tokenizer.Language(j.Token.Language),
			HasLanguage: j.Token.HasLanguage,
		},
	}
}

type jsonTokenizedArticle struct {
	Tokens []jsonTagged `json:"tok"`
}

type jsonTokenizedAlignedArticle struct {
	ArticleID uint64                          `json:"id"`
	Articles  map[string]jsonTokenizedArticle `json:"art"`
}

// ToJSON marshals a to its lossless JSON representation.
func (a TokenizedAlignedArticle) ToJSON() ([]byte, error) {
	j := jsonTokenizedAlignedArticle{ArticleID: a.ArticleID, Articles: make(map[string]jsonTokenizedArticle, len(a.Articles))}
	for lang, art := range a.Articles {
		tagged := make([]jsonTagged, len(art.Tokens))
		for i, tg := range art.Tokens {
			tagged[i] = taggedToJSON(tg)
		}
		j.Articles[string(lang)] = jsonTokenizedArticle{Tokens: tagged}
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, ldaerr.Wrapf(err, "marshal tokenized aligned article %d", a.ArticleID)
	}
	return data, nil
}

// TokenizedFromJSON unmarshals the representation produced by ToJSON.
func TokenizedFromJSON(data []byte) (TokenizedAlignedArticle, error) {
	var j jsonTokenizedAlignedArticle
	if err := json.Unmarshal(data, &j); err != nil {
		return TokenizedAlignedArticle{}, ldaerr.Wrapf(err, "unmarshal tokenized aligned article")
	}
	out := TokenizedAlignedArticle{ArticleID: j.ArticleID, Articles: make(map[vocabulary.LanguageHint]TokenizedArticle, len(j.Articles))}
	for lang, art := range j.Articles {
		tagged := make([]tokenizer.Tagged, len(art.Tokens))
		for i, tg := range art.Tokens {
			tagged[i] = taggedFromJSON(tg)
		}
		out.Articles[vocabulary.LanguageHint(lang).Normalized()] = TokenizedArticle{
			Lang:   vocabulary.LanguageHint(lang).Normalized(),
			Tokens: tagged,
		}
	}
	return out, nil
}
