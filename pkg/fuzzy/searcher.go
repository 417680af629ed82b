package fuzzy

import (
	"time"

	"github.com/charmbracelet/log"
)

// Searcher answers repeated queries against a fixed candidate set. Keys are
// normalized once and stored in a token trie when the Searcher is built.
// A Searcher is immutable and safe for concurrent queries.
type Searcher[T any] struct {
	candidates []T
	opts       Options[T]
	index      *index
}

// NewSearcher indexes candidates with opts. The slice is referenced, not
// copied, and must not be modified while the Searcher is in use.
func NewSearcher[T any](candidates []T, opts Options[T]) *Searcher[T] {
	start := time.Now()
	ix := buildIndex(extractCandidates(candidates, opts))
	log.Debugf("Indexed %d items, %d keys (%d distinct) into %d nodes in %v",
		len(candidates), len(ix.candidates), ix.keys, len(ix.nodes), time.Since(start))

	return &Searcher[T]{
		candidates: candidates,
		opts:       opts,
		index:      ix,
	}
}

// Search returns the candidates matching term, ordered according to the
// Searcher's options. The result equals Search(term, candidates, opts).
func (s *Searcher[T]) Search(term string) ([]T, error) {
	r, err := s.search(term)
	if err != nil {
		return nil, err
	}
	return items(r, s.candidates), nil
}

// SearchData is like Search but returns match details for every result.
func (s *Searcher[T]) SearchData(term string) ([]MatchData[T], error) {
	r, err := s.search(term)
	if err != nil {
		return nil, err
	}
	out := make([]MatchData[T], len(r))
	for i := range r {
		out[i] = matchData(r[i], s.candidates, s.index.candidates)
	}
	return out, nil
}

func (s *Searcher[T]) search(term string) ([]ranked, error) {
	if len(s.candidates) == 0 {
		return nil, ErrNoCandidates
	}
	text := s.opts.text()
	t := normalize(term, text)
	m := newMatcher(t, text)

	var matches []keyMatch
	s.index.query(m, s.opts.Threshold, func(km keyMatch) {
		matches = append(matches, km)
	})
	return rank(t, s.index.candidates, matches, len(s.candidates), s.opts.Threshold, s.opts.SortBy), nil
}

// Len returns the number of candidate items.
func (s *Searcher[T]) Len() int {
	return len(s.candidates)
}

// Options returns the options the Searcher was built with.
func (s *Searcher[T]) Options() Options[T] {
	return s.opts
}

// Stats returns statistics about the index.
func (s *Searcher[T]) Stats() map[string]int {
	return map[string]int{
		"candidates": len(s.candidates),
		"keys":       len(s.index.candidates),
		"uniqueKeys": s.index.keys,
		"nodes":      len(s.index.nodes),
		"maxDepth":   s.index.maxDepth,
	}
}
