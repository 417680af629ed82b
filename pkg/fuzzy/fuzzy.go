package fuzzy

import "errors"

// ErrNoCandidates is returned by the search functions when there is nothing to search.
var ErrNoCandidates = errors.New("fuzzy: no candidates to search")

// MatchData describes how an item matched.
type MatchData[T any] struct {
	Item T
	// Original is the key that matched best, as returned by the key selector.
	Original string
	// Key is the normalized form of Original.
	Key   string
	Score float64
	// MatchIndex and MatchLength locate the match in Original, in bytes.
	MatchIndex  int
	MatchLength int
}

// Fuzzy returns the score of the best matching key of candidate.
// A candidate without keys scores 0.
func Fuzzy[T any](term string, candidate T, opts Options[T]) float64 {
	return FuzzyData(term, candidate, opts).Score
}

// FuzzyData is like Fuzzy but also reports where the best key matched.
func FuzzyData[T any](term string, candidate T, opts Options[T]) MatchData[T] {
	cands := extractCandidates([]T{candidate}, opts)
	if len(cands) == 0 {
		return MatchData[T]{Item: candidate}
	}
	t := normalize(term, opts.text())
	matches := scoreAll(newMatcher(t, opts.text()), cands)
	// A negative threshold keeps the single item whatever it scored.
	r := rank(t, cands, matches, 1, -1, opts.SortBy)
	return matchData(r[0], []T{candidate}, cands)
}

// Search returns the candidates matching term, ordered according to opts.SortBy.
func Search[T any](term string, candidates []T, opts Options[T]) ([]T, error) {
	r, _, err := search(term, candidates, opts)
	if err != nil {
		return nil, err
	}
	return items(r, candidates), nil
}

// SearchData is like Search but returns match details for every result.
func SearchData[T any](term string, candidates []T, opts Options[T]) ([]MatchData[T], error) {
	r, cands, err := search(term, candidates, opts)
	if err != nil {
		return nil, err
	}
	out := make([]MatchData[T], len(r))
	for i := range r {
		out[i] = matchData(r[i], candidates, cands)
	}
	return out, nil
}

func search[T any](term string, candidates []T, opts Options[T]) ([]ranked, []candidate, error) {
	if len(candidates) == 0 {
		return nil, nil, ErrNoCandidates
	}
	cands := extractCandidates(candidates, opts)
	t := normalize(term, opts.text())
	matches := scoreAll(newMatcher(t, opts.text()), cands)
	return rank(t, cands, matches, len(candidates), opts.Threshold, opts.SortBy), cands, nil
}

func scoreAll(m *matcher, cands []candidate) []keyMatch {
	matches := make([]keyMatch, len(cands))
	for i, c := range cands {
		matches[i] = m.scoreKey(i, c.norm)
	}
	return matches
}

func items[T any](r []ranked, candidates []T) []T {
	out := make([]T, len(r))
	for i := range r {
		out[i] = candidates[r[i].source]
	}
	return out
}

func matchData[T any](r ranked, candidates []T, cands []candidate) MatchData[T] {
	key := cands[r.cand].norm
	return MatchData[T]{
		Item:        candidates[r.source],
		Original:    key.original,
		Key:         key.joined(),
		Score:       r.score,
		MatchIndex:  r.index,
		MatchLength: r.length,
	}
}
