package utils

import "math"

// CreateRankList returns the 1-based ranks of count already sorted results.
// Ranks past math.MaxUint16 saturate instead of wrapping to 0.
func CreateRankList(count int) []uint16 {
	ranks := make([]uint16, max(count, 0))
	for i := range ranks {
		ranks[i] = uint16(min(i+1, math.MaxUint16))
	}
	return ranks
}
