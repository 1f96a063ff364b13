package errors

import "errors"

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrInvalidPlayer        = errors.New("invalid player")
	ErrSeasonNotFound       = errors.New("season not found")
	ErrInvalidSeason        = errors.New("invalid season")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrInvalidTournament    = errors.New("invalid tournament")
	ErrRulesetNotFound      = errors.New("ruleset not found")
	ErrInvalidRuleset       = errors.New("invalid ruleset")
	ErrGameNotFound         = errors.New("game not found")
	ErrGameNumberTaken      = errors.New("game number already recorded for this date")
	ErrSubmissionInProgress = errors.New("game submission already in progress")
	ErrSettlementValidation = errors.New("settlement validation failed")
	ErrInvalidStandingScope = errors.New("tournamentId or seasonId is required")
)
