package settlement

import (
	"slices"
	"testing"
)

func permutations(values []int) [][]int {
	if len(values) <= 1 {
		return [][]int{slices.Clone(values)}
	}
	var out [][]int
	for i := range values {
		rest := make([]int, 0, len(values)-1)
		rest = append(rest, values[:i]...)
		rest = append(rest, values[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{values[i]}, p...))
		}
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   []int
	}{
		{name: "distinct", scores: []int{35000, 28000, 22000, 15000}, want: []int{1, 2, 3, 4}},
		{name: "shuffled", scores: []int{22000, 35000, 15000, 28000}, want: []int{3, 1, 4, 2}},
		{name: "tie for first", scores: []int{30000, 30000, 25000, 15000}, want: []int{1, 1, 3, 4}},
		{name: "tie in the middle", scores: []int{40000, 20000, 20000, 20000}, want: []int{1, 2, 2, 2}},
		{name: "tie for last", scores: []int{10000, 45000, 35000, 10000}, want: []int{3, 1, 2, 3}},
		{name: "all equal", scores: []int{25000, 25000, 25000, 25000}, want: []int{1, 1, 1, 1}},
		{name: "sanma", scores: []int{40000, 25000, 40000}, want: []int{1, 3, 1}},
		{name: "single", scores: []int{100}, want: []int{1}},
		{name: "empty", scores: nil, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.scores)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Rank(%v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}

func TestRankDistinctPermutationsHaveNoGaps(t *testing.T) {
	for _, n := range []int{3, 4} {
		base := []int{48000, 31000, 12000, 9000}[:n]
		for _, perm := range permutations(base) {
			ranks := Rank(perm)
			sorted := slices.Clone(ranks)
			slices.Sort(sorted)
			for i, r := range sorted {
				if r != i+1 {
					t.Fatalf("Rank(%v) = %v, expected a permutation of 1..%d", perm, ranks, n)
				}
			}
		}
	}
}

func TestRankWithTolerance(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{name: "distinct", scores: []float64{35, 3, -13, -25}, want: []int{1, 2, 3, 4}},
		{name: "within tolerance", scores: []float64{17.5, 17.505, -10, -25}, want: []int{1, 1, 3, 4}},
		{name: "outside tolerance", scores: []float64{17.5, 17.52, -10, -25}, want: []int{2, 1, 3, 4}},
		{name: "all close", scores: []float64{0.001, 0, -0.001}, want: []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankWithTolerance(tt.scores, TieTolerance)
			if !slices.Equal(got, tt.want) {
				t.Errorf("RankWithTolerance(%v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}
