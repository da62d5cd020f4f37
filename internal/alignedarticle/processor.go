package alignedarticle

import (
	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/tokenizer"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

// AlignedArticleProcessor holds one built Tokenizer per configured
// language and applies each to the matching side of an AlignedArticle.
type AlignedArticleProcessor struct {
	tokenizers map[vocabulary.LanguageHint]*tokenizer.Tokenizer
}

// NewAlignedArticleProcessor builds one Tokenizer per entry of builders,
// keyed by normalized language hint.
func NewAlignedArticleProcessor(builders map[string]*tokenizer.TokenizerBuilder) *AlignedArticleProcessor {
	built := make(map[vocabulary.LanguageHint]*tokenizer.Tokenizer, len(builders))
	for lang, b := range builders {
		built[vocabulary.LanguageHint(lang).Normalized()] = b.Build()
	}
	return &AlignedArticleProcessor{tokenizers: built}
}

// Process tokenizes every language of art that has a configured Tokenizer.
// Languages present in art but absent from the processor's configuration
// are skipped, not an error: an aligned article may carry languages beyond
// the ones a particular pipeline run cares about.
func (p *AlignedArticleProcessor) Process(art AlignedArticle) TokenizedAlignedArticle {
	out := TokenizedAlignedArticle{ArticleID: art.ArticleID, Articles: make(map[vocabulary.LanguageHint]TokenizedArticle, len(art.Articles))}
	for lang, a := range art.Articles {
		tok, ok := p.tokenizers[lang]
		if !ok {
			continue
		}
		out.Articles[lang] = TokenizedArticle{
			Lang:   lang,
			Tokens: tok.Tokenize(string(lang), a.Content),
		}
	}
	return out
}

// ProcessString tokenizes a single string under the Tokenizer configured
// for lang, resolved under normalized-hint comparison.
func (p *AlignedArticleProcessor) ProcessString(lang string, s string) ([]tokenizer.Tagged, error) {
	hint := vocabulary.LanguageHint(lang).Normalized()
	tok, ok := p.tokenizers[hint]
	if !ok {
		return nil, ldaerr.NewNotFoundError("tokenizer", lang)
	}
	return tok.Tokenize(lang, s), nil
}
