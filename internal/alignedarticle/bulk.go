package alignedarticle

import (
	"encoding/json"
	"io"
	"os"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
	"github.com/heartmarshall/ldatranslate/internal/persist"
	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz/lzma"
)

// TokenCountFilter drops a surviving article when any of its languages'
// token counts (Word + StopWord spans, see TokenizedAlignedArticle.TokenCount)
// falls outside [Min, Max]. Either bound may be nil to leave it unchecked.
type TokenCountFilter struct {
	Min *int
	Max *int
}

func (f *TokenCountFilter) keep(art TokenizedAlignedArticle) bool {
	if f == nil {
		return true
	}
	for lang := range art.Articles {
		n := art.TokenCount(lang)
		if f.Min != nil && n < *f.Min {
			return false
		}
		if f.Max != nil && n > *f.Max {
			return false
		}
	}
	return true
}

// StoreOptions configures ReadAndParseAlignedArticlesInto's staging and
// output behavior.
type StoreOptions struct {
	// TempFolder holds one staging file per surviving article before it is
	// appended to the output. Empty selects os.TempDir().
	TempFolder string
	// DeflateTempFiles compresses each staging file with deflate; transparent
	// to path_out's own format, which is always the canonical length-prefixed
	// JSON record stream regardless of this setting.
	DeflateTempFiles bool
	// DeleteTempFilesImmediately unlinks a staging file right after its
	// contents are appended to the output, rather than leaving it on disk
	// for the rest of the run.
	DeleteTempFilesImmediately bool
	// CompressResult wraps the concatenated output in LZMA.
	CompressResult bool
}

func (o *StoreOptions) tempFolder() string {
	if o == nil || o.TempFolder == "" {
		return os.TempDir()
	}
	return o.TempFolder
}

// BulkState is the small JSON sidecar file ReadAndParseAlignedArticlesInto
// maintains next to path_out, recording the last fully-flushed article id
// so a crashed bulk run can resume without re-tokenizing articles it
// already wrote out (supplementing spec.md §5's "bulk pipeline must be
// safe to abort mid-stream" with an actual resume mechanism, grounded on
// the original Rust pipeline's restartable cursor).
type BulkState struct {
	HasProgress   bool   `json:"has_progress"`
	LastFlushedID uint64 `json:"last_flushed_article_id"`
	SurvivorCount int    `json:"survivor_count"`
}

func statePath(pathOut string) string {
	return pathOut + ".bulkstate.json"
}

// LoadBulkState reads the sidecar next to pathOut, if any. A missing
// sidecar is not an error: it reports a fresh BulkState.
func LoadBulkState(pathOut string) (BulkState, error) {
	data, err := os.ReadFile(statePath(pathOut))
	if err != nil {
		if os.IsNotExist(err) {
			return BulkState{}, nil
		}
		return BulkState{}, ldaerr.Wrapf(err, "read bulk state for %s", pathOut)
	}
	var s BulkState
	if err := json.Unmarshal(data, &s); err != nil {
		return BulkState{}, ldaerr.Wrapf(err, "unmarshal bulk state for %s", pathOut)
	}
	return s, nil
}

func (s BulkState) save(pathOut string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return ldaerr.Wrapf(err, "marshal bulk state for %s", pathOut)
	}
	if err := os.WriteFile(statePath(pathOut), data, 0o644); err != nil {
		return ldaerr.Wrapf(err, "write bulk state for %s", pathOut)
	}
	return nil
}

// ReadAndParseAlignedArticlesInto tokenizes every article of pathIn through
// processor, drops articles filter rejects, and writes the survivors as a
// concatenation of length-prefixed JSON records to pathOut (optionally
// LZMA-wrapped), resuming from a prior crashed run's BulkState sidecar when
// one is found next to pathOut. It returns the number of surviving
// articles written across the lifetime of pathOut (including survivors
// from a resumed prior run).
func ReadAndParseAlignedArticlesInto(pathIn, pathOut string, processor *AlignedArticleProcessor, filter *TokenCountFilter, opts *StoreOptions) (int, error) {
	state, err := LoadBulkState(pathOut)
	if err != nil {
		return 0, err
	}

	src, err := ReadAlignedArticles(pathIn)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	outFlags := os.O_CREATE | os.O_WRONLY
	if state.HasProgress {
		outFlags |= os.O_APPEND
	} else {
		outFlags |= os.O_TRUNC
	}
	outFile, err := os.OpenFile(pathOut, outFlags, 0o644)
	if err != nil {
		return 0, ldaerr.Wrapf(err, "open %s", pathOut)
	}
	defer outFile.Close()

	var dst io.Writer = outFile
	var lzWriter *lzma.Writer
	if opts != nil && opts.CompressResult {
		lzWriter, err = lzma.NewWriter(outFile)
		if err != nil {
			return 0, ldaerr.Wrapf(err, "open lzma stream for %s", pathOut)
		}
		dst = lzWriter
	}

	survivors := state.SurvivorCount
	var tempFiles []string
	cleanup := func() {
		for _, p := range tempFiles {
			os.Remove(p)
		}
	}

	for {
		art, ok, err := src.Next()
		if err != nil {
			cleanup()
			return survivors, err
		}
		if !ok {
			break
		}
		if state.HasProgress && art.ArticleID <= state.LastFlushedID {
			continue // already flushed by a prior, crashed run
		}

		tokenized := processor.Process(art)
		if !filter.keep(tokenized) {
			continue
		}

		tempPath, err := writeTempRecord(opts.tempFolder(), opts != nil && opts.DeflateTempFiles, tokenized)
		if err != nil {
			cleanup()
			return survivors, err
		}
		tempFiles = append(tempFiles, tempPath)

		if err := appendTempRecord(dst, tempPath, opts != nil && opts.DeflateTempFiles); err != nil {
			cleanup()
			return survivors, err
		}

		survivors++
		state = BulkState{HasProgress: true, LastFlushedID: art.ArticleID, SurvivorCount: survivors}
		if err := state.save(pathOut); err != nil {
			cleanup()
			return survivors, err
		}

		if opts != nil && opts.DeleteTempFilesImmediately {
			os.Remove(tempPath)
			tempFiles = tempFiles[:len(tempFiles)-1]
		}
	}

	if lzWriter != nil {
		if err := lzWriter.Close(); err != nil {
			cleanup()
			return survivors, ldaerr.Wrapf(err, "close lzma stream for %s", pathOut)
		}
	}
	if !(opts != nil && opts.DeleteTempFilesImmediately) {
		cleanup()
	}
	return survivors, nil
}

// writeTempRecord writes tokenized, as a single length-prefixed JSON
// record, to a fresh temp file under folder. When deflate is true the
// record bytes are compressed before being written to disk.
func writeTempRecord(folder string, deflate bool, tokenized TokenizedAlignedArticle) (string, error) {
	f, err := os.CreateTemp(folder, "alignedarticle-*.tmp")
	if err != nil {
		return "", ldaerr.Wrapf(err, "create temp file under %s", folder)
	}
	defer f.Close()

	var w io.Writer = f
	var fw *flate.Writer
	if deflate {
		fw, err = flate.NewWriter(f, flate.DefaultCompression)
		if err != nil {
			return "", ldaerr.Wrapf(err, "open deflate stream for %s", f.Name())
		}
		w = fw
	}

	if err := writeRecord(w, tokenized); err != nil {
		return "", err
	}
	if fw != nil {
		if err := fw.Close(); err != nil {
			return "", ldaerr.Wrapf(err, "close deflate stream for %s", f.Name())
		}
	}
	return f.Name(), nil
}

// appendTempRecord copies tempPath's record into dst, reflating it first
// when it was staged with deflate, so dst always carries the canonical
// uncompressed length-prefixed JSON record stream.
func appendTempRecord(dst io.Writer, tempPath string, deflated bool) error {
	f, err := os.Open(tempPath)
	if err != nil {
		return ldaerr.Wrapf(err, "open temp file %s", tempPath)
	}
	defer f.Close()

	var r io.Reader = f
	if deflated {
		fr := flate.NewReader(f)
		defer fr.Close()
		r = fr
	}
	if _, err := io.Copy(dst, r); err != nil {
		return ldaerr.Wrapf(err, "append temp file %s", tempPath)
	}
	return nil
}

func writeRecord(w io.Writer, tokenized TokenizedAlignedArticle) error {
	data, err := tokenized.ToJSON()
	if err != nil {
		return err
	}
	wr := persist.NewWriter(w)
	wr.Str(string(data))
	if err := wr.Flush(); err != nil {
		return ldaerr.Wrapf(err, "write tokenized record %d", tokenized.ArticleID)
	}
	return nil
}
