package fuzzy

import (
	"encoding/binary"
	"math"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// candidate is one key of one item, normalized once.
type candidate struct {
	source   int
	keyIndex int
	norm     normalized
}

// extractCandidates normalizes every key of every item, in input order.
func extractCandidates[T any](items []T, opts Options[T]) []candidate {
	text := opts.text()
	var cands []candidate
	for source, item := range items {
		for keyIndex, key := range opts.keysOf(item) {
			cands = append(cands, candidate{
				source:   source,
				keyIndex: keyIndex,
				norm:     normalize(key, text),
			})
		}
	}
	return cands
}

// trieNode is one token of a shared key prefix. Nodes live in index.nodes
// and refer to each other by position.
type trieNode struct {
	token    string
	parent   int32
	depth    int
	children []int32
	// terminal holds the candidates whose key ends here.
	terminal []int
	// minLen and maxLen bound the length of every key ending in this subtree.
	minLen int
	maxLen int
}

type edge struct {
	parent int32
	token  string
}

// keyGroup collects the candidates sharing one normalized token sequence.
type keyGroup struct {
	tokens []string
	ids    []int
}

// index is a token trie over all candidate keys. It is never modified after
// buildIndex returns.
type index struct {
	nodes      []trieNode
	candidates []candidate
	keys       int
	maxDepth   int
}

func buildIndex(cands []candidate) *index {
	ix := &index{
		nodes:      []trieNode{{parent: -1}},
		candidates: cands,
	}

	groups := patricia.NewTrie()
	for id, c := range cands {
		if len(c.norm.tokens) == 0 {
			ix.nodes[0].terminal = append(ix.nodes[0].terminal, id)
			continue
		}
		key := encodeTokens(c.norm.tokens)
		if g, ok := groups.Get(key).(*keyGroup); ok {
			g.ids = append(g.ids, id)
			continue
		}
		groups.Insert(key, &keyGroup{tokens: c.norm.tokens, ids: []int{id}})
	}

	edges := make(map[edge]int32)
	err := groups.Visit(func(_ patricia.Prefix, item patricia.Item) error {
		ix.insert(item.(*keyGroup), edges)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting key groups: %v", err)
	}
	ix.fold()
	return ix
}

// encodeTokens length-prefixes each token so distinct token sequences never
// share an encoding.
func encodeTokens(tokens []string) patricia.Prefix {
	var buf []byte
	for _, t := range tokens {
		buf = binary.AppendUvarint(buf, uint64(len(t)))
		buf = append(buf, t...)
	}
	return buf
}

func (ix *index) insert(g *keyGroup, edges map[edge]int32) {
	cur := int32(0)
	for _, tok := range g.tokens {
		e := edge{parent: cur, token: tok}
		next, ok := edges[e]
		if !ok {
			next = int32(len(ix.nodes))
			ix.nodes = append(ix.nodes, trieNode{
				token:  tok,
				parent: cur,
				depth:  ix.nodes[cur].depth + 1,
			})
			ix.nodes[cur].children = append(ix.nodes[cur].children, next)
			edges[e] = next
		}
		cur = next
	}
	ix.nodes[cur].terminal = append(ix.nodes[cur].terminal, g.ids...)
	ix.keys++
	ix.maxDepth = max(ix.maxDepth, len(g.tokens))
}

// fold computes minLen and maxLen bottom-up. Children are always appended
// after their parent, so a reverse scan sees every child first.
func (ix *index) fold() {
	for i := range ix.nodes {
		n := &ix.nodes[i]
		n.minLen, n.maxLen = math.MaxInt, -1
		if len(n.terminal) > 0 {
			n.minLen, n.maxLen = n.depth, n.depth
		}
	}
	for i := len(ix.nodes) - 1; i > 0; i-- {
		n := ix.nodes[i]
		p := &ix.nodes[n.parent]
		p.minLen = min(p.minLen, n.minLen)
		p.maxLen = max(p.maxLen, n.maxLen)
	}
}

// query scores the term against every candidate and hands each result to
// emit. In whole-string mode subtrees that cannot reach threshold are skipped
// and their candidates are not emitted.
func (ix *index) query(m *matcher, threshold float64, emit func(keyMatch)) {
	if len(m.term) == 0 {
		for id := range ix.candidates {
			emit(keyMatch{cand: id, score: ExactMatchScore})
		}
		return
	}
	for _, id := range ix.nodes[0].terminal {
		emit(keyMatch{cand: id})
	}
	if len(ix.nodes) == 1 {
		return
	}

	w := &walker{
		ix:        ix,
		m:         m,
		cols:      make([]column, ix.maxDepth+1),
		best:      make([]alignment, ix.maxDepth+1),
		threshold: threshold,
		prune:     !m.sellers,
		emit:      emit,
	}
	for i := range w.cols {
		w.cols[i] = newColumn(m.size())
	}
	m.first(w.cols[0])
	w.best[0] = m.at(w.cols[0], 0)
	for _, child := range ix.nodes[0].children {
		w.visit(child)
	}
}

// walker holds the per-query state of a depth-first trie walk: one distance
// column and one best alignment per depth of the current path.
type walker struct {
	ix        *index
	m         *matcher
	cols      []column
	best      []alignment
	threshold float64
	prune     bool
	emit      func(keyMatch)
}

func (w *walker) visit(id int32) {
	node := &w.ix.nodes[id]
	j := node.depth

	prevTok := ""
	var prev2 column
	if j > 1 {
		prevTok = w.ix.nodes[node.parent].token
		prev2 = w.cols[j-2]
	}
	prev, cur := w.cols[j-1], w.cols[j]
	w.m.step(j, node.token, prevTok, prev2, prev, cur)
	w.best[j] = w.m.extend(w.best[j-1], cur, j)

	if w.prune && w.m.bestPossible(w.m.lowerBound(prev, cur), node.minLen, node.maxLen) < w.threshold {
		return
	}
	for _, cand := range node.terminal {
		w.emit(w.m.result(cand, w.best[j]))
	}
	for _, child := range node.children {
		w.visit(child)
	}
}
