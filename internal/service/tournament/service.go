package tournament

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"league-service/internal/model"
	appErr "league-service/pkg/errors"
	"league-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ListResult struct {
	Items []model.Tournament
	Total int64
}

type MutationParams struct {
	SeasonID  int64
	RulesetID int64
	Name      string
	Venue     string
	StartsOn  time.Time
	EndsOn    *time.Time
	Status    string
}

var validStatuses = map[string]struct{}{
	"scheduled": {},
	"running":   {},
	"finished":  {},
}

func (s *Service) List(ctx context.Context, seasonID int64, page, size int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	query := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&model.Tournament{})
		if seasonID > 0 {
			db = db.Where("season_id = ?", seasonID)
		}
		return db
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	tournaments := make([]model.Tournament, 0)
	if total > 0 {
		offset := (page - 1) * size
		if err := query().
			Order("starts_on DESC, id DESC").
			Limit(size).
			Offset(offset).
			Find(&tournaments).Error; err != nil {
			return nil, err
		}
	}

	return &ListResult{
		Items: tournaments,
		Total: total,
	}, nil
}

func (s *Service) Create(ctx context.Context, params MutationParams) (*model.Tournament, error) {
	params, err := s.validate(ctx, params)
	if err != nil {
		return nil, err
	}

	tournament := model.Tournament{
		SeasonID:  params.SeasonID,
		RulesetID: params.RulesetID,
		Name:      params.Name,
		Venue:     params.Venue,
		StartsOn:  params.StartsOn,
		EndsOn:    params.EndsOn,
		Status:    params.Status,
	}
	if err := s.db.WithContext(ctx).Create(&tournament).Error; err != nil {
		return nil, err
	}
	logger.Log.Info("tournament created",
		zap.Int64("tournamentID", tournament.ID),
		zap.Int64("seasonID", tournament.SeasonID),
		zap.Int64("rulesetID", tournament.RulesetID))
	return &tournament, nil
}

func (s *Service) Update(ctx context.Context, id int64, params MutationParams) (*model.Tournament, error) {
	params, err := s.validate(ctx, params)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"season_id":  params.SeasonID,
		"ruleset_id": params.RulesetID,
		"name":       params.Name,
		"venue":      params.Venue,
		"starts_on":  params.StartsOn,
		"ends_on":    params.EndsOn,
		"status":     params.Status,
	}

	result := s.db.WithContext(ctx).
		Model(&model.Tournament{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, appErr.ErrTournamentNotFound
	}

	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Tournament, error) {
	var tournament model.Tournament
	if err := s.db.WithContext(ctx).First(&tournament, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrTournamentNotFound
		}
		logger.Log.Error("failed to load tournament", zap.Int64("tournamentID", id), zap.Error(err))
		return nil, err
	}
	return &tournament, nil
}

func (s *Service) validate(ctx context.Context, params MutationParams) (MutationParams, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Venue = strings.TrimSpace(params.Venue)
	params.Status = strings.ToLower(strings.TrimSpace(params.Status))
	if params.Status == "" {
		params.Status = "scheduled"
	}

	if params.Name == "" {
		return params, fmt.Errorf("%w: name is required", appErr.ErrInvalidTournament)
	}
	if _, ok := validStatuses[params.Status]; !ok {
		return params, fmt.Errorf("%w: unknown status %q", appErr.ErrInvalidTournament, params.Status)
	}
	if params.EndsOn != nil && params.EndsOn.Before(params.StartsOn) {
		return params, fmt.Errorf("%w: endsOn must not be before startsOn", appErr.ErrInvalidTournament)
	}

	var seasons int64
	if err := s.db.WithContext(ctx).Model(&model.Season{}).Where("id = ?", params.SeasonID).Count(&seasons).Error; err != nil {
		return params, err
	}
	if seasons == 0 {
		return params, appErr.ErrSeasonNotFound
	}

	var rulesets int64
	if err := s.db.WithContext(ctx).Model(&model.Ruleset{}).Where("id = ?", params.RulesetID).Count(&rulesets).Error; err != nil {
		return params, err
	}
	if rulesets == 0 {
		return params, appErr.ErrRulesetNotFound
	}
	return params, nil
}
