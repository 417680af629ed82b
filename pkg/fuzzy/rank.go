package fuzzy

import (
	"cmp"
	"slices"
)

// ranked is the winning key of one item.
type ranked struct {
	source     int
	cand       int
	keyIndex   int
	score      float64
	index      int
	length     int
	lengthDiff int
}

// rank picks the best key per item, drops items below threshold and orders
// the rest. matches may arrive in any order. Best-match ties go to the earlier
// match in the key, then the key the selector listed first, then the key
// closest in length to the term, then input order.
func rank(term normalized, cands []candidate, matches []keyMatch, items int, threshold float64, sortBy SortKind) []ranked {
	best := make([]int, items)
	for i := range best {
		best[i] = -1
	}
	for i, km := range matches {
		c := cands[km.cand]
		cur := best[c.source]
		if cur < 0 || km.score > matches[cur].score ||
			(km.score == matches[cur].score && c.keyIndex < cands[matches[cur].cand].keyIndex) {
			best[c.source] = i
		}
	}

	var out []ranked
	for source, i := range best {
		if i < 0 || matches[i].score < threshold {
			continue
		}
		km := matches[i]
		key := cands[km.cand].norm
		index, length := key.span(km.start, km.length)
		out = append(out, ranked{
			source:     source,
			cand:       km.cand,
			keyIndex:   cands[km.cand].keyIndex,
			score:      km.score,
			index:      index,
			length:     length,
			lengthDiff: abs(len(key.tokens) - len(term.tokens)),
		})
	}

	if sortBy == BestMatch {
		slices.SortStableFunc(out, func(a, b ranked) int {
			if c := cmp.Compare(b.score, a.score); c != 0 {
				return c
			}
			if c := cmp.Compare(a.index, b.index); c != 0 {
				return c
			}
			if c := cmp.Compare(a.keyIndex, b.keyIndex); c != 0 {
				return c
			}
			if c := cmp.Compare(a.lengthDiff, b.lengthDiff); c != 0 {
				return c
			}
			return cmp.Compare(a.source, b.source)
		})
	}
	return out
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
