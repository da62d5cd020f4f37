// Package alignedarticle implements the multilingual aligned-article
// pipeline (§4.9): per-language Article/AlignedArticle containers, a
// tokenizer-per-language AlignedArticleProcessor, streaming lazy readers
// over a bulk source file, and a bulk tokenize-filter-compress-concatenate
// pipeline with a resumable sidecar and a bounded worker pool.
package alignedarticle

import (
	"encoding/json"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

// Article is one language's version of an aligned multilingual document.
type Article struct {
	Lang       vocabulary.LanguageHint
	Content    string
	Categories []int // nil when absent
	IsList     bool
}

// NewArticle constructs an Article. categories may be nil.
func NewArticle(lang vocabulary.LanguageHint, content string, categories []int, isList bool) Article {
	return Article{Lang: lang, Content: content, Categories: categories, IsList: isList}
}

// AlignedArticle pairs an integer id with a language-keyed map of this
// article's per-language versions.
type AlignedArticle struct {
	ArticleID uint64
	Articles  map[vocabulary.LanguageHint]Article
}

// NewAlignedArticle indexes articles by their own Lang field, reporting the
// duplicates (a second article for an already-seen language) separately
// instead of silently overwriting, mirroring the originalAlignedArticle::from
// doublet-reporting behavior.
func NewAlignedArticle(articleID uint64, articles []Article) (AlignedArticle, []Article) {
	byLang := make(map[vocabulary.LanguageHint]Article, len(articles))
	var doublets []Article
	for _, a := range articles {
		key := a.Lang.Normalized()
		if _, exists := byLang[key]; exists {
			doublets = append(doublets, a)
			continue
		}
		byLang[key] = a
	}
	return AlignedArticle{ArticleID: articleID, Articles: byLang}, doublets
}

// Get looks up the article for hint, comparing by normalized form so raw
// string and vocabulary.LanguageHint lookups agree.
func (a AlignedArticle) Get(hint vocabulary.LanguageHint) (Article, bool) {
	art, ok := a.Articles[hint.Normalized()]
	return art, ok
}

// GetString is Get with a raw string hint.
func (a AlignedArticle) GetString(hint string) (Article, bool) {
	return a.Get(vocabulary.LanguageHint(hint))
}

// LanguageHints returns the article's configured languages, in map
// iteration order (not guaranteed stable across calls).
func (a AlignedArticle) LanguageHints() []vocabulary.LanguageHint {
	out := make([]vocabulary.LanguageHint, 0, len(a.Articles))
	for h := range a.Articles {
		out = append(out, h)
	}
	return out
}

type jsonArticle struct {
	Lang       string `json:"ln"`
	Content    string `json:"con"`
	Categories []int  `json:"cat,omitempty"`
	IsList     bool   `json:"ilst,omitempty"`
}

func (a Article) toJSON() jsonArticle {
	return jsonArticle{Lang: string(a.Lang), Content: a.Content, Categories: a.Categories, IsList: a.IsList}
}

func articleFromJSON(j jsonArticle) Article {
	return Article{Lang: vocabulary.LanguageHint(j.Lang), Content: j.Content, Categories: j.Categories, IsList: j.IsList}
}

type jsonAlignedArticle struct {
	ArticleID uint64                 `json:"id"`
	Articles  map[string]jsonArticle `json:"art"`
}

// ToJSON marshals a to its lossless JSON representation.
func (a AlignedArticle) ToJSON() ([]byte, error) {
	j := jsonAlignedArticle{ArticleID: a.ArticleID, Articles: make(map[string]jsonArticle, len(a.Articles))}
	for lang, art := range a.Articles {
		j.Articles[string(lang)] = art.toJSON()
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, ldaerr.Wrapf(err, "marshal aligned article %d", a.ArticleID)
	}
	return data, nil
}

// FromJSON unmarshals the representation produced by ToJSON.
func FromJSON(data []byte) (AlignedArticle, error) {
	var j jsonAlignedArticle
	if err := json.Unmarshal(data, &j); err != nil {
		return AlignedArticle{}, ldaerr.Wrapf(err, "unmarshal aligned article")
	}
	out := AlignedArticle{ArticleID: j.ArticleID, Articles: make(map[vocabulary.LanguageHint]Article, len(j.Articles))}
	for lang, art := range j.Articles {
		out.Articles[vocabulary.LanguageHint(lang).Normalized()] = articleFromJSON(art)
	}
	return out, nil
}
