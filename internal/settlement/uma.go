package settlement

// DistributeUma maps placements to uma. Seats tied at rank p share the
// mean of the band umaValues[p-1 : p-1+t], so every slot of the vector is
// consumed exactly once and the total is conserved.
func DistributeUma(positions []int, umaValues []float64) []float64 {
	tieCount := make(map[int]int, len(positions))
	for _, p := range positions {
		tieCount[p]++
	}

	uma := make([]float64, len(positions))
	for i, p := range positions {
		start := p - 1
		if start < 0 || start >= len(umaValues) {
			continue
		}
		// competition ranks keep the band inside the vector; clamp anyway
		end := min(start+tieCount[p], len(umaValues))

		var sum float64
		for _, v := range umaValues[start:end] {
			sum += v
		}
		uma[i] = sum / float64(end-start)
	}
	return uma
}
