package settlement

import (
	"fmt"
	"math"
)

// Settle computes the final scores of one game. Results keep the seat
// order of players. It is a pure function: the same inputs always yield
// the same results.
func Settle(players []PlayerInput, rs Ruleset) ([]Result, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if len(players) != rs.PlayerCount() {
		return nil, fmt.Errorf("%w: got %d seats, ruleset expects %d",
			ErrSeatCountMismatch, len(players), rs.PlayerCount())
	}

	scores := make([]int, len(players))
	for i, p := range players {
		scores[i] = p.GameScore
	}
	rawPositions := Rank(scores)
	uma := DistributeUma(rawPositions, rs.UmaValues())

	dev := rs.Devolution()
	chonboValue := rs.ChonboValue()

	results := make([]Result, len(players))
	preOka := make([]float64, len(players))
	for i, p := range players {
		penalty := float64(max(p.Chonbo, 0)) * chonboValue
		preOka[i] = float64(p.GameScore)/pointsPerK - dev + uma[i] - penalty
		results[i] = Result{
			RawPosition:   rawPositions[i],
			Uma:           uma[i],
			ChonboPenalty: penalty,
			PreOka:        preOka[i],
		}
	}

	// chonbo and uma can reorder seats, so oka follows the pre-oka order
	oka := DistributeOka(RankWithTolerance(preOka, TieTolerance), rs.Oka)

	finals := make([]float64, len(players))
	for i := range results {
		finals[i] = preOka[i] + oka[i]
		results[i].Oka = oka[i]
		results[i].FinalScoreK = finals[i]
		results[i].FinalScore = roundTenth(finals[i])
		results[i].FinalScorePoints = int64(math.Round(finals[i] * pointsPerK))
	}

	for i, pos := range RankWithTolerance(finals, TieTolerance) {
		results[i].Position = pos
	}
	return results, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
