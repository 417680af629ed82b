package fuzzy

// ExactMatchScore is the score of a term found verbatim (after normalization)
// in a key. Approximate matches score in [0, 1).
const ExactMatchScore = 10.0

// column is one column of the edit distance matrix: dist[i] is the cost of
// aligning the first i term tokens with a window of the key ending at this
// column, and start[i] is where that window begins.
type column struct {
	dist  []int
	start []int
}

func newColumn(size int) column {
	return column{dist: make([]int, size), start: make([]int, size)}
}

// alignment is a candidate match: the key window [start, end) at distance.
type alignment struct {
	distance int
	start    int
	end      int
}

// before reports whether a is preferred over b: lower distance, then the
// leftmost window, then the one ending first.
func (a alignment) before(b alignment) bool {
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	if a.start != b.start {
		return a.start < b.start
	}
	return a.end < b.end
}

// matcher holds a normalized term and computes distance columns against key
// tokens one at a time. The trie walk and the single key path share it, which
// keeps their results identical.
type matcher struct {
	term    []string
	damerau bool
	sellers bool
}

func newMatcher(term normalized, opts textOptions) *matcher {
	return &matcher{term: term.tokens, damerau: opts.damerau, sellers: opts.sellers}
}

func (m *matcher) size() int {
	return len(m.term) + 1
}

// first fills column 0, where no key token has been consumed.
func (m *matcher) first(c column) {
	for i := range c.dist {
		c.dist[i] = i
		c.start[i] = 0
	}
}

// step fills cur, the column for key position j (1-based) whose token is tok.
// prevTok and prev2 are only read when j > 1.
func (m *matcher) step(j int, tok, prevTok string, prev2, prev, cur column) {
	if m.sellers {
		cur.dist[0], cur.start[0] = 0, j
	} else {
		cur.dist[0], cur.start[0] = j, 0
	}

	for i := 1; i <= len(m.term); i++ {
		cost := 1
		if m.term[i-1] == tok {
			cost = 0
		}
		d, s := prev.dist[i-1]+cost, prev.start[i-1]
		d, s = pick(d, s, cur.dist[i-1]+1, cur.start[i-1])
		d, s = pick(d, s, prev.dist[i]+1, prev.start[i])
		if m.damerau && i > 1 && j > 1 && m.term[i-1] == prevTok && m.term[i-2] == tok {
			d, s = pick(d, s, prev2.dist[i-2]+1, prev2.start[i-2])
		}
		cur.dist[i], cur.start[i] = d, s
	}
}

func pick(d, s, d2, s2 int) (int, int) {
	if d2 < d || (d2 == d && s2 < s) {
		return d2, s2
	}
	return d, s
}

// at returns the alignment of the full term ending at column j.
func (m *matcher) at(c column, j int) alignment {
	last := len(m.term)
	return alignment{distance: c.dist[last], start: c.start[last], end: j}
}

// extend folds column j into the best alignment seen so far. Whole-string
// matching only cares about the final column, so it always takes the newest.
func (m *matcher) extend(best alignment, c column, j int) alignment {
	next := m.at(c, j)
	if !m.sellers || next.before(best) {
		return next
	}
	return best
}

// lowerBound is a distance no extension of the current prefix can go below.
// Transpositions reach back two columns, hence the second term.
func (m *matcher) lowerBound(prev, cur column) int {
	lb := minOf(cur.dist)
	if m.damerau {
		lb = min(lb, minOf(prev.dist)+1)
	}
	return lb
}

// bestPossible is the highest score a whole-string match can reach with at
// least lb edits against a key of length in [lo, hi].
func (m *matcher) bestPossible(lb, lo, hi int) float64 {
	termLen := len(m.term)
	best := 0.0
	for _, n := range [...]int{lo, hi, clamp(termLen, lo, hi), clamp(termLen+lb, lo, hi)} {
		d := max(lb, n-termLen, termLen-n)
		best = max(best, similarity(d, termLen, n))
	}
	return best
}

// similarity maps an edit distance over the compared lengths to a score.
func similarity(distance, termLen, windowLen int) float64 {
	if distance == 0 {
		return ExactMatchScore
	}
	score := 1 - float64(distance)/float64(max(termLen, windowLen))
	if score < 0 {
		return 0
	}
	return score
}

// keyMatch is the score of one candidate key and the matched token window.
type keyMatch struct {
	cand   int
	score  float64
	start  int
	length int
}

func (m *matcher) result(cand int, a alignment) keyMatch {
	return keyMatch{
		cand:   cand,
		score:  similarity(a.distance, len(m.term), a.end-a.start),
		start:  a.start,
		length: a.end - a.start,
	}
}

// scoreKey matches the term against a single key without an index.
func (m *matcher) scoreKey(cand int, key normalized) keyMatch {
	if len(m.term) == 0 {
		return keyMatch{cand: cand, score: ExactMatchScore}
	}
	if len(key.tokens) == 0 {
		return keyMatch{cand: cand}
	}

	cols := [3]column{newColumn(m.size()), newColumn(m.size()), newColumn(m.size())}
	m.first(cols[0])
	best := m.at(cols[0], 0)
	for j := 1; j <= len(key.tokens); j++ {
		prevTok := ""
		if j > 1 {
			prevTok = key.tokens[j-2]
		}
		cur, prev, prev2 := cols[j%3], cols[(j+2)%3], cols[(j+1)%3]
		m.step(j, key.tokens[j-1], prevTok, prev2, prev, cur)
		best = m.extend(best, cur, j)
	}
	return m.result(cand, best)
}

func minOf(xs []int) int {
	lo := xs[0]
	for _, x := range xs[1:] {
		lo = min(lo, x)
	}
	return lo
}

func clamp(x, lo, hi int) int {
	return min(max(x, lo), hi)
}
