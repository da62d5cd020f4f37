package alignedarticle

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/persist"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
	"github.com/ulikunitz/xz/lzma"
)

// ArticleReader is a restartable lazy sequence over a bulk aligned-article
// source file: the underlying file is opened by ReadAlignedArticles and
// released by Close, and one AlignedArticle is decoded per Next call. The
// source is a stream of back-to-back JSON values with no delimiter required
// between them, the same shape the original Rust pipeline reads via
// serde_json::Deserializer::from_str(...).into_iter().
type ArticleReader struct {
	f   *os.File
	dec *json.Decoder
}

// ReadAlignedArticles opens path for streaming iteration.
func ReadAlignedArticles(path string) (*ArticleReader, error) {
	f, err := persist.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &ArticleReader{f: f, dec: json.NewDecoder(f)}, nil
}

// Next decodes the next AlignedArticle. The second return value is false,
// with a nil error, once the source is exhausted.
func (r *ArticleReader) Next() (AlignedArticle, bool, error) {
	var j jsonAlignedArticle
	if err := r.dec.Decode(&j); err != nil {
		if err == io.EOF {
			return AlignedArticle{}, false, nil
		}
		return AlignedArticle{}, false, ldaerr.Wrapf(err, "decode aligned article")
	}
	out := AlignedArticle{ArticleID: j.ArticleID, Articles: make(map[vocabulary.LanguageHint]Article, len(j.Articles))}
	for lang, art := range j.Articles {
		out.Articles[vocabulary.LanguageHint(lang).Normalized()] = articleFromJSON(art)
	}
	return out, true, nil
}

// Close releases the underlying file handle.
func (r *ArticleReader) Close() error { return r.f.Close() }

// ParsedArticleReader streams already-tokenized bulk output written by
// ReadAndParseAlignedArticlesInto: a concatenation of length-prefixed JSON
// records (§6), transparently unwrapped from LZMA when path ends in ".xz",
// mirroring persist.PickFormat's extension-based dispatch elsewhere in this
// module.
type ParsedArticleReader struct {
	closer io.Closer
	rd     *persist.Reader
}

// ReadAlignedParsedArticles opens path, a bulk pipeline's tokenized output,
// for streaming iteration.
func ReadAlignedParsedArticles(path string) (*ParsedArticleReader, error) {
	f, err := persist.OpenFile(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = f
	var closer io.Closer = f
	if strings.EqualFold(filepath.Ext(path), ".xz") {
		lr, err := lzma.NewReader(f)
		if err != nil {
			f.Close()
			return nil, ldaerr.Wrapf(err, "open lzma stream %s", path)
		}
		r = lr
	}
	return &ParsedArticleReader{closer: closer, rd: persist.NewReader(r)}, nil
}

// Next decodes the next TokenizedAlignedArticle record.
func (r *ParsedArticleReader) Next() (TokenizedAlignedArticle, bool, error) {
	data := r.rd.Str()
	if err := r.rd.Err(); err != nil {
		if errors.Is(err, io.EOF) {
			return TokenizedAlignedArticle{}, false, nil
		}
		return TokenizedAlignedArticle{}, false, ldaerr.Wrapf(err, "read tokenized record")
	}
	art, err := TokenizedFromJSON([]byte(data))
	if err != nil {
		return TokenizedAlignedArticle{}, false, err
	}
	return art, true, nil
}

// Close releases the underlying file handle.
func (r *ParsedArticleReader) Close() error { return r.closer.Close() }

// ProcessedArticleReader lazily applies an AlignedArticleProcessor to each
// article read from an ArticleReader, tokenizing on demand rather than all
// at once.
type ProcessedArticleReader struct {
	src  *ArticleReader
	proc *AlignedArticleProcessor
}

// ReadAndParseAlignedArticles opens path and lazily tokenizes each article
// through processor as it is read.
func ReadAndParseAlignedArticles(path string, processor *AlignedArticleProcessor) (*ProcessedArticleReader, error) {
	src, err := ReadAlignedArticles(path)
	if err != nil {
		return nil, err
	}
	return &ProcessedArticleReader{src: src, proc: processor}, nil
}

// Next reads and tokenizes the next article.
func (r *ProcessedArticleReader) Next() (TokenizedAlignedArticle, bool, error) {
	art, ok, err := r.src.Next()
	if err != nil || !ok {
		return TokenizedAlignedArticle{}, ok, err
	}
	return r.proc.Process(art), true, nil
}

// Close releases the underlying file handle.
func (r *ProcessedArticleReader) Close() error { return r.src.Close() }
