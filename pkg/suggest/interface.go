// Package suggest serves ranked fuzzy matches over a loaded corpus. It ties
// the fuzzy index to result limits and a result cache for the server and CLI.
package suggest

// ICompleter defines the interface for corpus search engines
type ICompleter interface {
	// Complete returns up to limit ranked matches for query.
	// withData fills in the match span of each suggestion.
	Complete(query string, limit int, withData bool) ([]Suggestion, error)

	// Threshold returns the minimum score a suggestion needs.
	Threshold() float64

	// Stats returns statistics about the loaded corpus and cache
	Stats() map[string]int
}
