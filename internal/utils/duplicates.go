package utils

import (
	"strings"
)

// EntryFilter drops corpus entries whose keys were already seen.
// It is not safe for concurrent use.
type EntryFilter struct {
	seen map[string]struct{}
}

// NewEntryFilter creates an empty filter
func NewEntryFilter() *EntryFilter {
	return &EntryFilter{seen: make(map[string]struct{})}
}

// ShouldInclude reports whether an entry with these keys is new and records it.
// Keys are compared exactly and in order.
func (f *EntryFilter) ShouldInclude(keys []string) bool {
	id := strings.Join(keys, "\x00")
	if _, ok := f.seen[id]; ok {
		return false
	}
	f.seen[id] = struct{}{}
	return true
}

// Len returns the number of distinct entries seen
func (f *EntryFilter) Len() int {
	return len(f.seen)
}
