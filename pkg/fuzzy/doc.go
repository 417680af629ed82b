/*
Package fuzzy scores and ranks candidate strings against a search term using
edit distance over Unicode aware tokens.

Text on both sides goes through the same normalization: optional case folding,
NFKC (or NFKD with UseSeparatedUnicode) and segmentation into grapheme
clusters (or codepoints). Punctuation can be dropped and whitespace runs
collapsed. Every token remembers where it started in the original text, so
match positions are always reported as byte offsets into the raw key.

# Scoring

Distance is Levenshtein, or Damerau-Levenshtein (optimal string alignment)
with UseDamerau. With UseSellers the term is aligned against the best window
of the key instead of the whole key, so "hello" scores perfectly against
"well, hello there".

An exact normalized match scores ExactMatchScore. Anything else scores
1 - distance/length in [0, 1), where length is the larger of the term and the
matched window. Exact matches therefore always outrank approximate ones.

# Usage

One-shot functions normalize everything per call:

	opts := fuzzy.DefaultOptions()
	score := fuzzy.Fuzzy("help", "hello", opts)
	items, err := fuzzy.Search("item", []string{"items", "itemize", "item"}, opts)

A Searcher normalizes the candidates once and keeps them in a token trie, so
repeated queries share the work for keys with common prefixes:

	s := fuzzy.NewSearcher(words, fuzzy.DefaultOptions())
	items, err := s.Search("aaa")
	data, err := s.SearchData("aaa")

Items that are not strings provide their keys through a KeySelector:

	opts := fuzzy.DefaultOptionsWith(fuzzy.KeySelectorFunc[User](func(u User) []string {
		return []string{u.Name, u.Email}
	}))

Searching an empty candidate set returns ErrNoCandidates.
*/
package fuzzy
