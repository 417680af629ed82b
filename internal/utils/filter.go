package utils

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidQuery is wrapped by every error ValidateQuery returns.
var ErrInvalidQuery = errors.New("invalid query")

// ValidateQuery checks that a query can be searched: valid UTF-8, no control
// characters other than whitespace, and at most maxLen bytes when maxLen > 0.
// An empty query is valid and matches everything.
func ValidateQuery(q string, maxLen int) error {
	if maxLen > 0 && len(q) > maxLen {
		return fmt.Errorf("%w: exceeds maximum length of %d bytes", ErrInvalidQuery, maxLen)
	}
	if !utf8.ValidString(q) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidQuery)
	}
	for _, r := range q {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return fmt.Errorf("%w: control character %U", ErrInvalidQuery, r)
		}
	}
	return nil
}
