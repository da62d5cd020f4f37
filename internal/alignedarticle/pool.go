package alignedarticle

import "sync"

// ProcessorPool bounds concurrent tokenization of a streamed article
// source (spec.md §5 allows, but does not mandate, this): Workers
// goroutines tokenize articles concurrently, while results are delivered
// to the caller in the order articles were read rather than completion order,
// matching the teacher's dependency-light sync.WaitGroup + buffered
// channel concurrency style (see internal/translate's own worker pool).
type ProcessorPool struct {
	// Workers is the number of concurrent tokenization goroutines. Values
	// <= 0 are treated as 1.
	Workers int
}

func (p *ProcessorPool) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return 1
}

// Process reads every article from src, tokenizes it through proc across
// p.workers() goroutines, and invokes fn once per result in article-read
// order, not completion order. It returns the number of articles fn was
// called for. A read error stops reading; the articles read before it are
// still passed to fn, and the read error is returned. After fn returns an
// error, fn is not called again, but the remaining articles of src are
// still read and tokenized before Process returns that error.
func (p *ProcessorPool) Process(src *ArticleReader, proc *AlignedArticleProcessor, fn func(TokenizedAlignedArticle) error) (int, error) {
	type job struct {
		idx int
		art AlignedArticle
	}
	type result struct {
		idx int
		tok TokenizedAlignedArticle
	}

	n := p.workers()
	jobs := make(chan job, n)
	results := make(chan result, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- result{idx: j.idx, tok: proc.Process(j.art)}
			}
		}()
	}

	var readErr error
	go func() {
		defer close(jobs)
		idx := 0
		for {
			art, ok, err := src.Next()
			if err != nil {
				readErr = err
				return
			}
			if !ok {
				return
			}
			jobs <- job{idx: idx, art: art}
			idx++
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]result)
	next := 0
	count := 0
	var firstErr error
	for res := range results {
		pending[res.idx] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if firstErr != nil {
				continue
			}
			count++
			if err := fn(r.tok); err != nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return count, firstErr
	}
	return count, readErr
}
