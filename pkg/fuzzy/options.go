package fuzzy

import "fmt"

// SortKind controls the order of search results.
type SortKind int

const (
	// BestMatch orders by score, then match position, then key length.
	BestMatch SortKind = iota
	// InsertOrder keeps the candidates' input order and uses the threshold as a filter only.
	InsertOrder
)

func (k SortKind) String() string {
	switch k {
	case BestMatch:
		return "best_match"
	case InsertOrder:
		return "insert_order"
	default:
		return fmt.Sprintf("SortKind(%d)", int(k))
	}
}

// DefaultThreshold is the minimum score kept by the default options.
const DefaultThreshold = 0.6

// KeySelector extracts the searchable keys of an item, in priority order.
type KeySelector[T any] interface {
	Keys(item T) []string
}

// KeySelectorFunc adapts a plain function to KeySelector.
type KeySelectorFunc[T any] func(item T) []string

// Keys calls f(item).
func (f KeySelectorFunc[T]) Keys(item T) []string {
	return f(item)
}

// StringKey uses a string item as its only key.
type StringKey[S ~string] struct{}

// Keys returns the item itself.
func (StringKey[S]) Keys(item S) []string {
	return []string{string(item)}
}

// StringKeys uses every element of a string slice as a key.
type StringKeys[S ~string] struct{}

// Keys returns the elements in order.
func (StringKeys[S]) Keys(items []S) []string {
	keys := make([]string, len(items))
	for i, s := range items {
		keys[i] = string(s)
	}
	return keys
}

// Options configures matching. The zero value is case sensitive, keeps
// symbols and whitespace and compares whole strings with plain Levenshtein;
// use DefaultOptions and friends for the usual setup.
type Options[T any] struct {
	IgnoreCase          bool
	IgnoreSymbols       bool
	NormalizeWhitespace bool
	UseDamerau          bool
	UseSellers          bool
	UseSeparatedUnicode bool
	SortBy              SortKind
	Threshold           float64

	// Keys extracts keys from an item. When nil, string, []string and
	// fmt.Stringer items are handled directly and anything else has no keys.
	Keys KeySelector[T]
}

// DefaultOptions returns the default options for string candidates.
func DefaultOptions() Options[string] {
	return DefaultOptionsWith[string](StringKey[string]{})
}

// DefaultMultiOptions returns the default options for candidates carrying several keys.
func DefaultMultiOptions() Options[[]string] {
	return DefaultOptionsWith[[]string](StringKeys[string]{})
}

// DefaultOptionsWith returns the default options with a custom key selector.
func DefaultOptionsWith[T any](keys KeySelector[T]) Options[T] {
	return Options[T]{
		IgnoreCase:          true,
		IgnoreSymbols:       true,
		NormalizeWhitespace: true,
		UseDamerau:          true,
		UseSellers:          true,
		UseSeparatedUnicode: false,
		SortBy:              BestMatch,
		Threshold:           DefaultThreshold,
		Keys:                keys,
	}
}

func (o Options[T]) keysOf(item T) []string {
	if o.Keys != nil {
		return o.Keys.Keys(item)
	}
	switch v := any(item).(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case fmt.Stringer:
		return []string{v.String()}
	}
	return nil
}

// textOptions is the part of Options that does not depend on the item type.
type textOptions struct {
	ignoreCase          bool
	ignoreSymbols       bool
	normalizeWhitespace bool
	damerau             bool
	sellers             bool
	separated           bool
}

func (o Options[T]) text() textOptions {
	return textOptions{
		ignoreCase:          o.IgnoreCase,
		ignoreSymbols:       o.IgnoreSymbols,
		normalizeWhitespace: o.NormalizeWhitespace,
		damerau:             o.UseDamerau,
		sellers:             o.UseSellers,
		separated:           o.UseSeparatedUnicode,
	}
}
