package settlement

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func leagueRuleset() Ruleset {
	return Ruleset{
		InPoints:  25000,
		OutPoints: 30000,
		Uma:       Uma{First: 10, Second: 5, Third: -5, Fourth: ptr(-10.0)},
		Oka:       20,
		Chonbo:    -20,
	}
}

func sanmaRuleset() Ruleset {
	return Ruleset{
		InPoints:  35000,
		OutPoints: 40000,
		Uma:       Uma{First: 15, Second: 0, Third: -15},
		Oka:       15,
		Chonbo:    20,
		Sanma:     true,
	}
}

func seats(scores ...int) []PlayerInput {
	players := make([]PlayerInput, len(scores))
	for i, s := range scores {
		players[i] = PlayerInput{PlayerID: ptr(int64(i + 1)), GameScore: s}
	}
	return players
}

func TestSettleNoTies(t *testing.T) {
	results, err := Settle(seats(35000, 28000, 22000, 15000), leagueRuleset())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	wantPos := []int{1, 2, 3, 4}
	wantUma := []float64{10, 5, -5, -10}
	wantOka := []float64{20, 0, 0, 0}
	wantPre := []float64{15, 3, -13, -25}
	wantFinal := []float64{35, 3, -13, -25}
	for i, r := range results {
		if r.Position != wantPos[i] || r.RawPosition != wantPos[i] {
			t.Fatalf("seat %d: position %d/%d, want %d", i, r.Position, r.RawPosition, wantPos[i])
		}
		if !closeTo(r.Uma, wantUma[i], 1e-9) || !closeTo(r.Oka, wantOka[i], 1e-9) {
			t.Fatalf("seat %d: uma %v oka %v, want %v %v", i, r.Uma, r.Oka, wantUma[i], wantOka[i])
		}
		if !closeTo(r.PreOka, wantPre[i], 1e-9) || !closeTo(r.FinalScoreK, wantFinal[i], 1e-9) {
			t.Fatalf("seat %d: preOka %v final %v, want %v %v", i, r.PreOka, r.FinalScoreK, wantPre[i], wantFinal[i])
		}
		if r.FinalScorePoints != int64(wantFinal[i]*1000) {
			t.Fatalf("seat %d: final points %d", i, r.FinalScorePoints)
		}
	}
}

func TestSettleTieForFirst(t *testing.T) {
	results, err := Settle(seats(30000, 30000, 25000, 15000), leagueRuleset())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	wantPos := []int{1, 1, 3, 4}
	wantUma := []float64{7.5, 7.5, -5, -10}
	wantOka := []float64{10, 10, 0, 0}
	wantFinal := []float64{17.5, 17.5, -10, -25}
	for i, r := range results {
		if r.Position != wantPos[i] {
			t.Fatalf("seat %d: position %d, want %d", i, r.Position, wantPos[i])
		}
		if !closeTo(r.Uma, wantUma[i], 1e-9) || !closeTo(r.Oka, wantOka[i], 1e-9) {
			t.Fatalf("seat %d: uma %v oka %v, want %v %v", i, r.Uma, r.Oka, wantUma[i], wantOka[i])
		}
		if !closeTo(r.FinalScoreK, wantFinal[i], 1e-9) {
			t.Fatalf("seat %d: final %v, want %v", i, r.FinalScoreK, wantFinal[i])
		}
	}
}

func TestSettleSanma(t *testing.T) {
	rs := sanmaRuleset()
	if got := rs.UmaValues(); !reflect.DeepEqual(got, []float64{15, 0, -15}) {
		t.Fatalf("unexpected sanma uma vector %v", got)
	}

	results, err := Settle(seats(50000, 35000, 20000), rs)
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantFinal := []float64{50 - 40 + 15 + 15, 35 - 40, 20 - 40 - 15}
	var total float64
	for i, r := range results {
		if !closeTo(r.FinalScoreK, wantFinal[i], 1e-9) {
			t.Fatalf("seat %d: final %v, want %v", i, r.FinalScoreK, wantFinal[i])
		}
		total += r.FinalScoreK
	}
	if !closeTo(total, 0, 1e-2) {
		t.Fatalf("sanma game does not balance: %v", total)
	}
}

func TestSettleChonboReordersOka(t *testing.T) {
	players := seats(32000, 31000, 22000, 15000)
	players[0].Chonbo = 1

	results, err := Settle(players, leagueRuleset())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	// seat 0 wins on raw score but drops below seat 1 after the penalty
	if results[0].RawPosition != 1 || results[1].RawPosition != 2 {
		t.Fatalf("unexpected raw positions %d %d", results[0].RawPosition, results[1].RawPosition)
	}
	if results[0].Oka != 0 || results[1].Oka != 20 {
		t.Fatalf("oka should go to seat 1, got %v %v", results[0].Oka, results[1].Oka)
	}
	if results[1].Position != 1 || results[0].Position == 1 {
		t.Fatalf("unexpected final positions %d %d", results[0].Position, results[1].Position)
	}
	if results[0].ChonboPenalty != 20 {
		t.Fatalf("expected chonbo penalty 20, got %v", results[0].ChonboPenalty)
	}
}

func TestSettleChonboMonotonic(t *testing.T) {
	for _, chonbo := range []float64{20, -20, 8} {
		rs := leagueRuleset()
		rs.Chonbo = chonbo

		prevScore := math.Inf(1)
		prevPenalty := math.Inf(-1)
		for count := 0; count <= 3; count++ {
			players := seats(35000, 28000, 22000, 15000)
			players[2].Chonbo = count
			results, err := Settle(players, rs)
			if err != nil {
				t.Fatalf("settle failed: %v", err)
			}

			var penalties float64
			for _, r := range results {
				penalties += r.ChonboPenalty
			}
			if results[2].FinalScoreK >= prevScore {
				t.Fatalf("chonbo %v x%d: score %v did not decrease from %v", chonbo, count, results[2].FinalScoreK, prevScore)
			}
			if penalties <= prevPenalty {
				t.Fatalf("chonbo %v x%d: penalties %v did not increase from %v", chonbo, count, penalties, prevPenalty)
			}
			prevScore, prevPenalty = results[2].FinalScoreK, penalties
		}
	}
}

func TestSettleNaNChonboIsIgnored(t *testing.T) {
	rs := leagueRuleset()
	rs.Chonbo = math.NaN()
	players := seats(35000, 28000, 22000, 15000)
	players[3].Chonbo = 2

	results, err := Settle(players, rs)
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if results[3].ChonboPenalty != 0 || !closeTo(results[3].FinalScoreK, -25, 1e-9) {
		t.Fatalf("NaN chonbo should not penalise, got %+v", results[3])
	}
}

func TestSettleZeroSumForBalancedGames(t *testing.T) {
	games := [][]int{
		{35000, 28000, 22000, 15000},
		{30000, 30000, 25000, 15000},
		{25000, 25000, 25000, 25000},
		{48100, 31200, 12700, 8000},
		{40000, 20000, 20000, 20000},
		{-5000, 60000, 30000, 15000},
		{33300, 33300, 33300, 100},
	}
	for _, scores := range games {
		for _, perm := range permutations(scores) {
			results, err := Settle(seats(perm...), leagueRuleset())
			if err != nil {
				t.Fatalf("settle failed: %v", err)
			}
			var total float64
			for _, r := range results {
				total += r.FinalScoreK
			}
			if !closeTo(total, 0, 1e-2) {
				t.Fatalf("scores %v settle to a total of %v", perm, total)
			}
		}
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	players := seats(33300, 33300, 33300, 100)
	players[1].Chonbo = 1

	first, err := Settle(players, leagueRuleset())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	second, err := Settle(players, leagueRuleset())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("settle is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestSettlePreconditions(t *testing.T) {
	if _, err := Settle(seats(35000, 35000, 30000), leagueRuleset()); !errors.Is(err, ErrSeatCountMismatch) {
		t.Fatalf("expected ErrSeatCountMismatch, got %v", err)
	}
	if _, err := Settle(seats(35000, 35000, 30000, 0), sanmaRuleset()); !errors.Is(err, ErrSeatCountMismatch) {
		t.Fatalf("expected ErrSeatCountMismatch, got %v", err)
	}

	broken := sanmaRuleset()
	broken.Uma.Fourth = ptr(-5.0)
	if _, err := Settle(seats(50000, 35000, 20000), broken); !errors.Is(err, ErrInvalidRuleset) {
		t.Fatalf("expected ErrInvalidRuleset, got %v", err)
	}
}
