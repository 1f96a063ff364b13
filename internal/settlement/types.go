package settlement

import (
	"errors"
	"fmt"
	"math"
)

const (
	// TieTolerance is the absolute difference (in k) under which two
	// real-valued scores are treated as tied.
	TieTolerance = 0.01

	// FinalSumTolerance is the slack, in raw points, allowed on the final
	// zero-sum check.
	FinalSumTolerance = 100

	// MinFilledSeats is the minimum number of seats that need an assigned
	// player before a game can be submitted.
	MinFilledSeats = 3

	pointsPerK = 1000
)

var (
	ErrInvalidRuleset    = errors.New("invalid ruleset")
	ErrSeatCountMismatch = errors.New("seat count does not match ruleset")
)

// Uma is the placement bonus vector, in k. Fourth is nil for sanma.
type Uma struct {
	First  float64  `json:"firstPlace"`
	Second float64  `json:"secondPlace"`
	Third  float64  `json:"thirdPlace"`
	Fourth *float64 `json:"fourthPlace"`
}

type Ruleset struct {
	InPoints  int     `json:"inPoints"`
	OutPoints int     `json:"outPoints"`
	Uma       Uma     `json:"uma"`
	Oka       float64 `json:"oka"`
	Chonbo    float64 `json:"chonbo"`
	Sanma     bool    `json:"sanma"`
}

func (r Ruleset) PlayerCount() int {
	if r.Sanma {
		return 3
	}
	return 4
}

// UmaValues flattens the uma vector to PlayerCount entries.
func (r Ruleset) UmaValues() []float64 {
	values := []float64{r.Uma.First, r.Uma.Second, r.Uma.Third}
	if !r.Sanma && r.Uma.Fourth != nil {
		values = append(values, *r.Uma.Fourth)
	}
	return values
}

// Devolution is OutPoints expressed in k.
func (r Ruleset) Devolution() float64 {
	return float64(r.OutPoints) / pointsPerK
}

// ChonboValue is the magnitude deducted per chonbo. Stored rulesets use
// both signs, and NaN is treated as no penalty.
func (r Ruleset) ChonboValue() float64 {
	if math.IsNaN(r.Chonbo) {
		return 0
	}
	return math.Abs(r.Chonbo)
}

func (r Ruleset) Validate() error {
	if r.InPoints <= 0 {
		return fmt.Errorf("%w: inPoints must be positive", ErrInvalidRuleset)
	}
	if r.OutPoints <= 0 {
		return fmt.Errorf("%w: outPoints must be positive", ErrInvalidRuleset)
	}
	if r.Sanma && r.Uma.Fourth != nil {
		return fmt.Errorf("%w: sanma ruleset cannot define a fourth place uma", ErrInvalidRuleset)
	}
	if !r.Sanma && r.Uma.Fourth == nil {
		return fmt.Errorf("%w: fourth place uma is required for four players", ErrInvalidRuleset)
	}
	for _, v := range r.UmaValues() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: uma values must be finite", ErrInvalidRuleset)
		}
	}
	if math.IsNaN(r.Oka) || math.IsInf(r.Oka, 0) {
		return fmt.Errorf("%w: oka must be finite", ErrInvalidRuleset)
	}
	return nil
}

// PlayerInput is one seat of a game as entered on the result form.
type PlayerInput struct {
	PlayerID    *int64 `json:"playerId"`
	GameScore   int    `json:"gameScore"`
	Chonbo      int    `json:"chonbo"`
	Wind        string `json:"wind,omitempty"`
	OorasuScore int    `json:"oorasuScore,omitempty"`
}

func (p PlayerInput) Assigned() bool {
	return p.PlayerID != nil && *p.PlayerID > 0
}

// Result is the settled outcome of one seat, in input seat order.
type Result struct {
	Position         int     `json:"position"`
	RawPosition      int     `json:"rawPosition"`
	Uma              float64 `json:"uma"`
	Oka              float64 `json:"oka"`
	ChonboPenalty    float64 `json:"chonboPenalty"`
	PreOka           float64 `json:"preOka"`
	FinalScoreK      float64 `json:"finalScoreK"`
	FinalScore       float64 `json:"finalScore"`
	FinalScorePoints int64   `json:"finalScorePoints"`
}
