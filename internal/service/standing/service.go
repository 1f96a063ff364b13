package standing

import (
	"context"
	"sort"

	"league-service/internal/model"
	"league-service/internal/settlement"
	appErr "league-service/pkg/errors"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Scope selects the games a table is built from. TournamentID wins when
// both are set.
type Scope struct {
	TournamentID int64
	SeasonID     int64
}

type Standing struct {
	Rank            int     `json:"rank"`
	PlayerID        int64   `json:"playerId"`
	Name            string  `json:"name"`
	Nickname        string  `json:"nickname"`
	Games           int64   `json:"games"`
	TotalPoints     int64   `json:"totalPoints"`
	Total           float64 `json:"total"`
	AveragePosition float64 `json:"averagePosition"`
	FirstPlaces     int64   `json:"firstPlaces"`
	Chonbo          int64   `json:"chonbo"`
}

type totalsRow struct {
	PlayerID    int64
	Games       int64
	TotalPoints int64
	PositionSum int64
	FirstPlaces int64
	ChonboCount int64
}

func (s *Service) Table(ctx context.Context, scope Scope) ([]Standing, error) {
	if scope.TournamentID <= 0 && scope.SeasonID <= 0 {
		return nil, appErr.ErrInvalidStandingScope
	}

	query := s.db.WithContext(ctx).
		Table("game_results AS gr").
		Select(`gr.player_id AS player_id,
			COUNT(*) AS games,
			COALESCE(SUM(gr.final_points), 0) AS total_points,
			COALESCE(SUM(gr.position), 0) AS position_sum,
			COALESCE(SUM(CASE WHEN gr.position = 1 THEN 1 ELSE 0 END), 0) AS first_places,
			COALESCE(SUM(gr.chonbo), 0) AS chonbo_count`).
		Joins("JOIN games AS g ON g.id = gr.game_id").
		Where("gr.player_id IS NOT NULL")
	if scope.TournamentID > 0 {
		query = query.Where("g.tournament_id = ?", scope.TournamentID)
	} else {
		query = query.
			Joins("JOIN tournaments AS t ON t.id = g.tournament_id").
			Where("t.season_id = ?", scope.SeasonID)
	}

	var rows []totalsRow
	if err := query.Group("gr.player_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	standings := make([]Standing, 0, len(rows))
	if len(rows) == 0 {
		return standings, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.PlayerID
	}
	var players []model.Player
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	totals := make([]float64, len(rows))
	for i, row := range rows {
		p := byID[row.PlayerID]
		totals[i] = float64(row.TotalPoints) / 1000
		standings = append(standings, Standing{
			PlayerID:        row.PlayerID,
			Name:            p.Name,
			Nickname:        p.Nickname,
			Games:           row.Games,
			TotalPoints:     row.TotalPoints,
			Total:           totals[i],
			AveragePosition: float64(row.PositionSum) / float64(row.Games),
			FirstPlaces:     row.FirstPlaces,
			Chonbo:          row.ChonboCount,
		})
	}

	for i, rank := range settlement.RankWithTolerance(totals, settlement.TieTolerance) {
		standings[i].Rank = rank
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Rank != standings[j].Rank {
			return standings[i].Rank < standings[j].Rank
		}
		return standings[i].PlayerID < standings[j].PlayerID
	})
	return standings, nil
}
