package suggest

import (
	"time"

	"github.com/bastiangx/fuzzyserve/internal/utils"
	"github.com/bastiangx/fuzzyserve/pkg/dictionary"
	"github.com/bastiangx/fuzzyserve/pkg/fuzzy"
	"github.com/charmbracelet/log"
)

// Suggestion is one ranked corpus entry.
type Suggestion struct {
	Keys  []string
	Rank  uint16
	Score float64
	// Original, Index and Length locate the match inside the best key.
	// They are only set when match data was requested.
	Original string
	Index    int
	Length   int
}

// Completer answers queries against one corpus. It is safe for concurrent use.
type Completer struct {
	searcher *fuzzy.Searcher[[]string]
	cache    *ResultCache
	corpus   *dictionary.Corpus
}

// NewCompleter indexes corpus with opts. cacheSize bounds the result cache;
// zero disables it.
func NewCompleter(corpus *dictionary.Corpus, opts fuzzy.Options[[]string], cacheSize int) *Completer {
	start := time.Now()
	c := &Completer{
		searcher: fuzzy.NewSearcher(corpus.Entries, opts),
		cache:    NewResultCache(cacheSize),
		corpus:   corpus,
	}
	log.Debugf("Completer ready: %d entries, threshold %v, sort %s, took %v",
		len(corpus.Entries), opts.Threshold, opts.SortBy, time.Since(start))
	return c
}

// Complete returns up to limit ranked matches for query. Results are cached
// per query, limit and withData.
func (c *Completer) Complete(query string, limit int, withData bool) ([]Suggestion, error) {
	key := cacheKey{query: query, limit: limit, withData: withData}
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	start := time.Now()
	matches, err := c.searcher.SearchData(query)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	ranks := utils.CreateRankList(len(matches))
	suggestions := make([]Suggestion, len(matches))
	for i, m := range matches {
		s := Suggestion{Keys: m.Item, Rank: ranks[i], Score: m.Score}
		if withData {
			s.Original = m.Original
			s.Index = m.MatchIndex
			s.Length = m.MatchLength
		}
		suggestions[i] = s
	}
	log.Debugf("Query %q: %d matches in %v", query, len(suggestions), time.Since(start))

	c.cache.Put(key, suggestions)
	return suggestions, nil
}

// Threshold returns the minimum score of a suggestion.
func (c *Completer) Threshold() float64 {
	return c.searcher.Options().Threshold
}

// Stats merges corpus, index and cache statistics.
func (c *Completer) Stats() map[string]int {
	stats := c.searcher.Stats()
	for k, v := range c.cache.Stats() {
		stats[k] = v
	}
	stats["skipped"] = c.corpus.Skipped
	stats["duplicates"] = c.corpus.Duplicates
	return stats
}
