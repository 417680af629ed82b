package fuzzy

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// symbolRunes are the non-punctuation ASCII symbols treated as noise
// alongside Unicode punctuation.
const symbolRunes = "`~$^+=<>|"

// normalized is a text broken into comparable tokens. offsets[i] is the byte
// offset in original where tokens[i] starts; the last offset is len(original).
// ends[i] is where the source cluster of tokens[i] ends, so tokens expanded
// from one cluster share both bounds.
type normalized struct {
	original string
	tokens   []string
	offsets  []int
	ends     []int
}

// joined returns the tokens concatenated, i.e. the normalized form of the text.
func (n normalized) joined() string {
	return strings.Join(n.tokens, "")
}

// span maps the token range [start, start+length) to a byte range in original.
// A range ending inside an expanded cluster widens to the whole cluster.
func (n normalized) span(start, length int) (index, size int) {
	if len(n.offsets) != len(n.tokens)+1 || len(n.ends) != len(n.tokens) {
		panic("fuzzy: offset map out of sync with tokens")
	}
	index = n.offsets[start]
	if length == 0 {
		return index, 0
	}
	return index, n.ends[start+length-1] - index
}

func normalize(text string, opts textOptions) normalized {
	n := normalized{original: text}

	var folder cases.Caser
	if opts.ignoreCase {
		folder = cases.Fold()
	}
	form := norm.NFKC
	if opts.separated {
		form = norm.NFKD
	}

	// Leading whitespace is never emitted.
	lastSpace := true
	push := func(token string, offset, end int) {
		n.tokens = append(n.tokens, token)
		n.offsets = append(n.offsets, offset)
		n.ends = append(n.ends, end)
	}
	emit := func(token string, offset, end int) {
		switch {
		case opts.normalizeWhitespace && isSpace(token):
			if !lastSpace {
				push(" ", offset, end)
				lastSpace = true
			}
		case opts.ignoreSymbols && isSymbol(token):
			// dropped; the offset counter still moves past it
		default:
			push(token, offset, end)
			lastSpace = false
		}
	}

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		offset, end := gr.Positions()
		cluster := gr.Str()
		if opts.ignoreCase {
			cluster = folder.String(cluster)
		}
		cluster = form.String(cluster)

		if opts.separated {
			for _, r := range cluster {
				emit(string(r), offset, end)
			}
			continue
		}
		// Compatibility forms can expand into several clusters ("ﬁ" -> "fi").
		state := -1
		for rest := cluster; len(rest) > 0; {
			var token string
			token, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			emit(token, offset, end)
		}
	}

	// Only plain spaces are trailing noise; other whitespace survives when
	// it is not being normalized.
	for k := len(n.tokens); k > 0 && n.tokens[k-1] == " "; k-- {
		n.tokens = n.tokens[:k-1]
		n.offsets = n.offsets[:k-1]
		n.ends = n.ends[:k-1]
	}
	n.offsets = append(n.offsets, len(text))
	return n
}

func isSpace(token string) bool {
	for _, r := range token {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return token != ""
}

func isSymbol(token string) bool {
	for _, r := range token {
		if !unicode.IsPunct(r) && !strings.ContainsRune(symbolRunes, r) {
			return false
		}
	}
	return token != ""
}
