package game

import (
	"fmt"
	"strings"
	"time"

	"league-service/internal/settlement"
)

// Form is the wire shape of a result form, shared by the HTTP API and the
// live preview socket.
type Form struct {
	TournamentID   int64                    `json:"tournamentId"`
	RulesetID      int64                    `json:"rulesetId"`
	PlayedOn       string                   `json:"playedOn"`
	GameNumber     int                      `json:"gameNumber"`
	RiichiFloating int                      `json:"riichiFloating" binding:"min=0"`
	ImageURL       string                   `json:"imageUrl"`
	Seats          []settlement.PlayerInput `json:"seats" binding:"required,min=3,max=4"`
}

// Request converts the form, defaulting PlayedOn to the current day.
func (f Form) Request(now time.Time) (SubmitRequest, error) {
	playedOn := now
	if value := strings.TrimSpace(f.PlayedOn); value != "" {
		parsed, err := parseDay(value)
		if err != nil {
			return SubmitRequest{}, err
		}
		playedOn = parsed
	}
	return SubmitRequest{
		TournamentID:   f.TournamentID,
		RulesetID:      f.RulesetID,
		PlayedOn:       dayOf(playedOn),
		GameNumber:     f.GameNumber,
		RiichiFloating: f.RiichiFloating,
		ImageURL:       f.ImageURL,
		Seats:          f.Seats,
	}, nil
}

func parseDay(value string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid playedOn %q, expected YYYY-MM-DD", value)
}
