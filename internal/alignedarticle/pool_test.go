package alignedarticle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorPool_Process_PreservesArticleOrder(t *testing.T) {
	dir := t.TempDir()
	var articles []AlignedArticle
	for id := uint64(1); id <= 20; id++ {
		art, _ := NewAlignedArticle(id, []Article{NewArticle("en", "some words here", nil, false)})
		articles = append(articles, art)
	}
	path := filepath.Join(dir, "source.bulkjson")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := json.NewEncoder(f)
	for _, a := range articles {
		data, err := a.ToJSON()
		require.NoError(t, err)
		var raw json.RawMessage = data
		require.NoError(t, enc.Encode(raw))
	}
	require.NoError(t, f.Close())

	reader, err := ReadAlignedArticles(path)
	require.NoError(t, err)
	defer reader.Close()

	pool := &ProcessorPool{Workers: 4}
	proc := newTestProcessor()

	var ids []uint64
	n, err := pool.Process(reader, proc, func(tok TokenizedAlignedArticle) error {
		ids = append(ids, tok.ArticleID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	for i, id := range ids {
		assert.Equal(t, uint64(i+1), id, "results must be delivered in ascending article order regardless of worker completion order")
	}
}

func TestProcessorPool_Process_DefaultsToOneWorker(t *testing.T) {
	pool := &ProcessorPool{}
	assert.Equal(t, 1, pool.workers())
}
