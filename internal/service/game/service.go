package game

import (
	"context"
	"errors"
	"time"

	"league-service/internal/model"
	"league-service/internal/service/player"
	"league-service/internal/service/ruleset"
	appErr "league-service/pkg/errors"
	"league-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service records settled games. Rulesets and players are resolved through
// their own services so cached ruleset lookups are shared.
type Service struct {
	db       *gorm.DB
	rdb      *redis.Client
	rulesets *ruleset.Service
	players  *player.Service
	lockTTL  time.Duration
}

func NewService(db *gorm.DB, rdb *redis.Client, rulesets *ruleset.Service, players *player.Service, lockTTL time.Duration) *Service {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &Service{
		db:       db,
		rdb:      rdb,
		rulesets: rulesets,
		players:  players,
		lockTTL:  lockTTL,
	}
}

type ListFilter struct {
	TournamentID int64
	PlayedOn     *time.Time
	Page         int
	Size         int
}

type ListResult struct {
	Items []model.Game
	Total int64
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Game, error) {
	var game model.Game
	err := s.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat ASC")
		}).
		First(&game, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size <= 0 {
		filter.Size = 20
	}
	if filter.Size > 100 {
		filter.Size = 100
	}

	query := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&model.Game{})
		if filter.TournamentID > 0 {
			db = db.Where("tournament_id = ?", filter.TournamentID)
		}
		if filter.PlayedOn != nil {
			db = db.Where("played_on = ?", dayOf(*filter.PlayedOn))
		}
		return db
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	games := make([]model.Game, 0)
	if total > 0 {
		offset := (filter.Page - 1) * filter.Size
		if err := query().
			Preload("Results", func(db *gorm.DB) *gorm.DB {
				return db.Order("seat ASC")
			}).
			Order("played_on DESC, game_number DESC").
			Limit(filter.Size).
			Offset(offset).
			Find(&games).Error; err != nil {
			return nil, err
		}
	}

	return &ListResult{
		Items: games,
		Total: total,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&model.GameResult{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Game{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return appErr.ErrGameNotFound
		}
		logger.Log.Info("game deleted", zap.Int64("gameID", id))
		return nil
	})
}

// GameNumberTaken reports whether a game with the same number is already
// recorded for the tournament on that day.
func (s *Service) GameNumberTaken(ctx context.Context, tournamentID int64, playedOn time.Time, number int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Game{}).
		Where("tournament_id = ? AND played_on = ? AND game_number = ?", tournamentID, dayOf(playedOn), number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
