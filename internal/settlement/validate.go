package settlement

import (
	"fmt"
	"math"
)

// Submission is the full result form of one game as it is about to be
// submitted. GameNumberTaken comes from the caller's lookup of the games
// already recorded for the same tournament and date.
type Submission struct {
	GameNumber      int
	GameNumberTaken bool
	HasImage        bool
	Ruleset         *Ruleset
	Players         []PlayerInput
	RiichiFloating  int
}

// Validate collects every reason the submission cannot be accepted. An
// empty slice means the game may be submitted.
func Validate(sub Submission) []string {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	switch {
	case sub.GameNumber <= 0:
		add("game number is required")
	case sub.GameNumberTaken:
		add("game number %d is already recorded for this date", sub.GameNumber)
	}
	if !sub.HasImage {
		add("result image is required")
	}

	filled := 0
	seen := make(map[int64]struct{}, len(sub.Players))
	for i, p := range sub.Players {
		seat := i + 1
		if p.Chonbo < 0 {
			add("seat %d: chonbo count cannot be negative", seat)
		}
		if !p.Assigned() {
			continue
		}
		filled++
		if _, dup := seen[*p.PlayerID]; dup {
			add("seat %d: player %d is already seated", seat, *p.PlayerID)
		}
		seen[*p.PlayerID] = struct{}{}
		if p.GameScore%100 != 0 {
			add("seat %d: game score %d is not a multiple of 100", seat, p.GameScore)
		}
	}
	if filled < MinFilledSeats {
		add("at least %d seats need a player, got %d", MinFilledSeats, filled)
	}

	if sub.Ruleset == nil {
		add("ruleset is required")
		return errs
	}
	rs := *sub.Ruleset
	if err := rs.Validate(); err != nil {
		add("%v", err)
		return errs
	}
	if len(sub.Players) != rs.PlayerCount() {
		add("ruleset expects %d seats, got %d", rs.PlayerCount(), len(sub.Players))
		return errs
	}

	var total int
	for _, p := range sub.Players {
		total += p.GameScore
	}
	expected := rs.InPoints*rs.PlayerCount() + sub.RiichiFloating*pointsPerK
	if total != expected {
		add("game scores add up to %d, expected %d", total, expected)
	}

	results, err := Settle(sub.Players, rs)
	if err != nil {
		add("%v", err)
		return errs
	}
	if drift := FinalDrift(results, sub.RiichiFloating); math.Abs(drift) > FinalSumTolerance {
		add("final scores do not balance: off by %.0f points", drift)
	}
	return errs
}

// FinalDrift is how far, in raw points, the final scores are from zero
// once chonbo penalties and floating riichi sticks are accounted for.
func FinalDrift(results []Result, riichiFloating int) float64 {
	var sum float64
	for _, r := range results {
		sum += r.FinalScoreK + r.ChonboPenalty
	}
	return sum*pointsPerK - float64(riichiFloating*pointsPerK)
}
