package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"league-service/internal/model"
	"league-service/internal/settlement"
	appErr "league-service/pkg/errors"
	"league-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmitRequest is the result form of one game. RulesetID may be left zero
// to use the tournament's default ruleset.
type SubmitRequest struct {
	TournamentID   int64
	RulesetID      int64
	PlayedOn       time.Time
	GameNumber     int
	RiichiFloating int
	ImageURL       string
	Seats          []settlement.PlayerInput
}

type Preview struct {
	RulesetID int64               `json:"rulesetId"`
	Results   []settlement.Result `json:"results"`
	Errors    []string            `json:"errors"`
	Drift     float64             `json:"drift"`
}

// ValidationError carries every message that blocked a submission.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", appErr.ErrSettlementValidation, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Unwrap() error {
	return appErr.ErrSettlementValidation
}

type snapshot struct {
	Ruleset        settlement.Ruleset       `json:"ruleset"`
	Seats          []settlement.PlayerInput `json:"seats"`
	Results        []settlement.Result      `json:"results"`
	RiichiFloating int                      `json:"riichiFloating"`
}

// Preview settles the form without persisting anything. Results are empty
// when the seats cannot be settled against the ruleset at all.
func (s *Service) Preview(ctx context.Context, req SubmitRequest) (*Preview, error) {
	rulesetID, err := s.resolveRulesetID(ctx, req)
	if err != nil {
		return nil, err
	}
	rs, err := s.rulesets.Settlement(ctx, rulesetID)
	if err != nil {
		return nil, err
	}

	messages, err := s.check(ctx, req, rs)
	if err != nil {
		return nil, err
	}

	preview := &Preview{
		RulesetID: rulesetID,
		Results:   make([]settlement.Result, 0),
		Errors:    messages,
	}
	if results, err := settlement.Settle(req.Seats, *rs); err == nil {
		preview.Results = results
		preview.Drift = settlement.FinalDrift(results, req.RiichiFloating)
	}
	return preview, nil
}

// Submit validates and records a game. Concurrent submissions of the same
// game number are rejected while the lock is held.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*model.Game, error) {
	if req.TournamentID == 0 {
		return nil, appErr.ErrTournamentNotFound
	}
	rulesetID, err := s.resolveRulesetID(ctx, req)
	if err != nil {
		return nil, err
	}
	rs, err := s.rulesets.Settlement(ctx, rulesetID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireLock(ctx, req)
	if err != nil {
		return nil, err
	}
	defer release()

	messages, err := s.check(ctx, req, rs)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	results, err := settlement.Settle(req.Seats, *rs)
	if err != nil {
		return nil, &ValidationError{Messages: []string{err.Error()}}
	}

	game := model.Game{
		TournamentID:   req.TournamentID,
		PlayedOn:       dayOf(req.PlayedOn),
		GameNumber:     req.GameNumber,
		RulesetID:      rulesetID,
		RiichiFloating: req.RiichiFloating,
		ImageURL:       strings.TrimSpace(req.ImageURL),
		SnapshotJSON: mustJSON(snapshot{
			Ruleset:        *rs,
			Seats:          req.Seats,
			Results:        results,
			RiichiFloating: req.RiichiFloating,
		}),
		Results: make([]model.GameResult, 0, len(results)),
	}
	for i, r := range results {
		seat := req.Seats[i]
		game.Results = append(game.Results, model.GameResult{
			Seat:        i + 1,
			PlayerID:    seat.PlayerID,
			Wind:        seat.Wind,
			OorasuScore: seat.OorasuScore,
			GameScore:   seat.GameScore,
			Chonbo:      seat.Chonbo,
			Uma:         r.Uma,
			Oka:         r.Oka,
			FinalScore:  r.FinalScore,
			FinalPoints: r.FinalScorePoints,
			Position:    r.Position,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return appErr.ErrGameNumberTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("game recorded",
		zap.Int64("gameID", game.ID),
		zap.Int64("tournamentID", game.TournamentID),
		zap.Time("playedOn", game.PlayedOn),
		zap.Int("gameNumber", game.GameNumber),
		zap.Int64("rulesetID", rulesetID))
	return &game, nil
}

func (s *Service) resolveRulesetID(ctx context.Context, req SubmitRequest) (int64, error) {
	if req.RulesetID > 0 && req.TournamentID == 0 {
		return req.RulesetID, nil
	}
	if req.TournamentID == 0 {
		return 0, appErr.ErrRulesetNotFound
	}

	var tournament model.Tournament
	if err := s.db.WithContext(ctx).First(&tournament, req.TournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, appErr.ErrTournamentNotFound
		}
		return 0, err
	}
	if req.RulesetID > 0 {
		return req.RulesetID, nil
	}
	return tournament.RulesetID, nil
}

// check runs the form checks that need the database before handing the
// rest to the settlement validator.
func (s *Service) check(ctx context.Context, req SubmitRequest, rs *settlement.Ruleset) ([]string, error) {
	taken := false
	if req.TournamentID > 0 && req.GameNumber > 0 {
		var err error
		taken, err = s.GameNumberTaken(ctx, req.TournamentID, req.PlayedOn, req.GameNumber)
		if err != nil {
			return nil, err
		}
	}

	messages := settlement.Validate(settlement.Submission{
		GameNumber:      req.GameNumber,
		GameNumberTaken: taken,
		HasImage:        strings.TrimSpace(req.ImageURL) != "",
		Ruleset:         rs,
		Players:         req.Seats,
		RiichiFloating:  req.RiichiFloating,
	})

	ids := make([]int64, 0, len(req.Seats))
	for _, seat := range req.Seats {
		if seat.Assigned() {
			ids = append(ids, *seat.PlayerID)
		}
	}
	missing, err := s.players.Missing(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		messages = append(messages, fmt.Sprintf("player %d does not exist", id))
	}
	return messages, nil
}

func (s *Service) acquireLock(ctx context.Context, req SubmitRequest) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}
	key := fmt.Sprintf("game:submit:%d:%s:%d", req.TournamentID, dayOf(req.PlayedOn).Format(time.DateOnly), req.GameNumber)
	ok, err := s.rdb.SetNX(ctx, key, 1, s.lockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.ErrSubmissionInProgress
	}
	return func() {
		if err := s.rdb.Del(context.Background(), key).Err(); err != nil {
			logger.Log.Warn("failed to release submission lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("{}")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
