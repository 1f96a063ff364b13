package settlement

import (
	"cmp"
	"math"
	"slices"
)

type rankEntry[T any] struct {
	index int
	value T
}

// Rank assigns competition ranks (1, 1, 3, 4 ...) to raw integer scores,
// highest first. The result is in input order.
func Rank(values []int) []int {
	return rankBy(values, func(a, b int) int { return cmp.Compare(b, a) }, func(a, b int) bool { return a == b })
}

// RankWithTolerance ranks real-valued scores, treating neighbours closer
// than tol as tied.
func RankWithTolerance(values []float64, tol float64) []int {
	return rankBy(values,
		func(a, b float64) int { return cmp.Compare(b, a) },
		func(a, b float64) bool { return math.Abs(a-b) < tol },
	)
}

func rankBy[T any](values []T, desc func(a, b T) int, tied func(a, b T) bool) []int {
	ranks := make([]int, len(values))
	if len(values) == 0 {
		return ranks
	}

	entries := make([]rankEntry[T], len(values))
	for i, v := range values {
		entries[i] = rankEntry[T]{index: i, value: v}
	}
	slices.SortStableFunc(entries, func(a, b rankEntry[T]) int {
		return desc(a.value, b.value)
	})

	rank := 1
	ranks[entries[0].index] = rank
	for i := 1; i < len(entries); i++ {
		if !tied(entries[i-1].value, entries[i].value) {
			rank = i + 1
		}
		ranks[entries[i].index] = rank
	}
	return ranks
}
