package fuzzy

import (
	"math"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestFuzzyScores(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name      string
		term, key string
		want      float64
	}{
		{"exact", "hello", "hello", ExactMatchScore},
		{"substring", "hello", "hello there", ExactMatchScore},
		{"substring in the middle", "goodbye", "well, goodbye then", ExactMatchScore},
		{"one deletion", "help", "hello", 0.75},
		{"no common tokens", "hello", "pigs and stuff", 0},
		{"no common tokens reversed", "goodbye", "cars plus trucks", 0},
		{"empty term", "", "anything", ExactMatchScore},
		{"empty key", "hello", "", 0},
		{"both empty", "", "", ExactMatchScore},
		{"symbols only key", "hello", "...", 0},
		{"transposition", "abcd", "acbd", 0.75},
		{"angstrom", "\u212B", "A\u030A", ExactMatchScore},
		{"emoji substitution", "high", "h\U0001F4A9gh", 0.75},
		{"grapheme clusters", "high", "h\uAE4D\U0001F468\u200D\U0001F469\u200D\U0001F467\u200D\U0001F466h", 0.5},
		{"zalgo", "hi zalgo hello hello",
			"hi Z\u0351\u036BA\u0334L\u0360G\u0334O\u0335 hello hello", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fuzzy(tt.term, tt.key, opts); !near(got, tt.want) {
				t.Errorf("Fuzzy(%q, %q) = %v, want %v", tt.term, tt.key, got, tt.want)
			}
		})
	}
}

func TestFuzzyCloseAndPoor(t *testing.T) {
	opts := DefaultOptions()
	closeMatches := [][2]string{{"goodie", "goodbye"}, {"help", "hello"}, {"hlelo", "hello"}}
	for _, p := range closeMatches {
		if got := Fuzzy(p[0], p[1], opts); got < 0.5 || got >= 1 {
			t.Errorf("Fuzzy(%q, %q) = %v, want a close match in [0.5, 1)", p[0], p[1], got)
		}
	}

	poor := [][2]string{{"hello", "goodbye"}, {"goodbye", "hello"}}
	for _, p := range poor {
		if got := Fuzzy(p[0], p[1], opts); got >= 0.5 {
			t.Errorf("Fuzzy(%q, %q) = %v, want < 0.5", p[0], p[1], got)
		}
	}
}

func TestFuzzySeparatedUnicode(t *testing.T) {
	opts := DefaultOptions()
	opts.UseSeparatedUnicode = true

	tests := []struct {
		term, key string
		want      float64
	}{
		{"\u212B", "A\u030A", ExactMatchScore},
		{"high", "h\uAE4D\U0001F468\u200D\U0001F469\u200D\U0001F467\u200D\U0001F466h", 0.25},
		{"\u3145\u3139", "\uC0AC\uB791", 0.5},
	}
	for _, tt := range tests {
		if got := Fuzzy(tt.term, tt.key, opts); !near(got, tt.want) {
			t.Errorf("Fuzzy(%q, %q) = %v, want %v", tt.term, tt.key, got, tt.want)
		}
	}
}

func TestFuzzyOptions(t *testing.T) {
	tests := []struct {
		name      string
		term, key string
		modify    func(*Options[string])
		want      float64
	}{
		{"ignore case", "hello", "HELLO", func(o *Options[string]) {}, ExactMatchScore},
		{"case sensitive", "hello", "HELLO", func(o *Options[string]) { o.IgnoreCase = false }, 0},
		{"ignore symbols", "hello", "h..e..l..l..o", func(o *Options[string]) {}, ExactMatchScore},
		{"keep symbols", "hello", "h.e.l.l.o", func(o *Options[string]) { o.IgnoreSymbols = false }, 0.4},
		{"normalize whitespace", "a b c d", "a  b  c  d", func(o *Options[string]) {}, ExactMatchScore},
		{"keep whitespace", "a b c d", "a  b  c  d", func(o *Options[string]) { o.NormalizeWhitespace = false }, 4.0 / 7},
		{"damerau", "abcd", "acbd", func(o *Options[string]) {}, 0.75},
		{"plain levenshtein", "abcd", "acbd", func(o *Options[string]) { o.UseDamerau = false }, 0.5},
		{"whole string exact", "hello", "hello", func(o *Options[string]) { o.UseSellers = false }, ExactMatchScore},
		{"whole string shorter key", "hello", "he", func(o *Options[string]) { o.UseSellers = false }, 0.4},
		{"whole string longer key", "he", "hello", func(o *Options[string]) { o.UseSellers = false }, 0.4},
		{"whole string no substring credit", "hello", "hello there", func(o *Options[string]) { o.UseSellers = false }, 5.0 / 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if got := Fuzzy(tt.term, tt.key, opts); !near(got, tt.want) {
				t.Errorf("Fuzzy(%q, %q) = %v, want %v", tt.term, tt.key, got, tt.want)
			}
		})
	}
}

func TestFuzzyData(t *testing.T) {
	tests := []struct {
		term, key string
		want      MatchData[string]
	}{
		{"hello", "  h..e..l..l  ..o", MatchData[string]{
			Item: "  h..e..l..l  ..o", Original: "  h..e..l..l  ..o", Key: "hell o",
			Score: 0.8, MatchIndex: 2, MatchLength: 10,
		}},
		{"abcd", "acbd", MatchData[string]{
			Item: "acbd", Original: "acbd", Key: "acbd",
			Score: 0.75, MatchIndex: 0, MatchLength: 4,
		}},
		{"item", "excitement", MatchData[string]{
			Item: "excitement", Original: "excitement", Key: "excitement",
			Score: ExactMatchScore, MatchIndex: 3, MatchLength: 4,
		}},
		{"hello", "Hello World", MatchData[string]{
			Item: "Hello World", Original: "Hello World", Key: "hello world",
			Score: ExactMatchScore, MatchIndex: 0, MatchLength: 5,
		}},
		{"world", "", MatchData[string]{}},
	}

	for _, tt := range tests {
		got := FuzzyData(tt.term, tt.key, DefaultOptions())
		if got.Item != tt.want.Item || got.Original != tt.want.Original || got.Key != tt.want.Key ||
			!near(got.Score, tt.want.Score) || got.MatchIndex != tt.want.MatchIndex ||
			got.MatchLength != tt.want.MatchLength {
			t.Errorf("FuzzyData(%q, %q) = %+v, want %+v", tt.term, tt.key, got, tt.want)
		}
	}
}

func TestFuzzyDataExpandedClusters(t *testing.T) {
	separated := DefaultOptions()
	separated.UseSeparatedUnicode = true

	tests := []struct {
		name          string
		term, key     string
		opts          Options[string]
		index, length int
		matched       string
	}{
		{"decomposed accent", "a", "\u00E1b", separated, 0, 2, "\u00E1"},
		{"hangul jamo", "\u3145", "\uC0AC\uB791", separated, 0, 3, "\uC0AC"},
		{"ligature", "f", "\uFB01x", DefaultOptions(), 0, 3, "\uFB01"},
		{"ligature tail", "ix", "\uFB01x", DefaultOptions(), 0, 4, "\uFB01x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyData(tt.term, tt.key, tt.opts)
			if got.Score != ExactMatchScore || got.MatchIndex != tt.index || got.MatchLength != tt.length {
				t.Fatalf("FuzzyData(%q, %q) = %+v, want an exact match at (%d, %d)",
					tt.term, tt.key, got, tt.index, tt.length)
			}
			if matched := tt.key[got.MatchIndex : got.MatchIndex+got.MatchLength]; matched != tt.matched {
				t.Errorf("matched text = %q, want %q", matched, tt.matched)
			}
		})
	}
}

func TestFuzzyMultiKey(t *testing.T) {
	opts := DefaultMultiOptions()

	got := FuzzyData("grin", []string{"smile", "grinning"}, opts)
	if got.Original != "grinning" || got.Score != ExactMatchScore {
		t.Errorf("best key = %q (%v), want %q (%v)", got.Original, got.Score, "grinning", ExactMatchScore)
	}

	// Equal scores go to the first key.
	got = FuzzyData("grin", []string{"grinning", "grin"}, opts)
	if got.Original != "grinning" {
		t.Errorf("tie went to %q, want %q", got.Original, "grinning")
	}

	if score := Fuzzy("grin", []string{}, opts); score != 0 {
		t.Errorf("Fuzzy with no keys = %v, want 0", score)
	}
}

type tagged struct {
	name string
}

func (t tagged) String() string { return t.name }

func TestFuzzyKeySelectors(t *testing.T) {
	stringer := DefaultOptionsWith[tagged](nil)
	if got := Fuzzy("hello", tagged{"hello"}, stringer); got != ExactMatchScore {
		t.Errorf("fmt.Stringer fallback scored %v, want %v", got, ExactMatchScore)
	}

	byName := DefaultOptionsWith[tagged](KeySelectorFunc[tagged](func(t tagged) []string {
		return []string{t.name + " smith"}
	}))
	if got := FuzzyData("smith", tagged{"john"}, byName); got.Score != ExactMatchScore || got.MatchIndex != 5 {
		t.Errorf("custom selector = %+v, want an exact match at 5", got)
	}

	type named string
	typed := DefaultOptionsWith[named](StringKey[named]{})
	if got := Fuzzy("abc", named("abc"), typed); got != ExactMatchScore {
		t.Errorf("StringKey on a named type scored %v", got)
	}

	none := DefaultOptionsWith[int](nil)
	if got := Fuzzy("1", 1, none); got != 0 {
		t.Errorf("item without keys scored %v, want 0", got)
	}
}

func TestSortKindString(t *testing.T) {
	if BestMatch.String() != "best_match" || InsertOrder.String() != "insert_order" {
		t.Errorf("unexpected names %q, %q", BestMatch, InsertOrder)
	}
	if got := SortKind(7).String(); got != "SortKind(7)" {
		t.Errorf("SortKind(7).String() = %q", got)
	}
}
