package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"league-service/internal/model"
	appErr "league-service/pkg/errors"
	"league-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize    = 20
	maxPageSize        = 100
	defaultSearchLimit = 10
)

type Service struct {
	db          *gorm.DB
	searchLimit int
}

type MutationParams struct {
	Name        string
	Nickname    string
	CountryCode string
	LeagueCode  string
	Status      string
}

type ListFilter struct {
	Page        int
	Size        int
	Status      string
	Keyword     string
	CountryCode string
}

type ListResult struct {
	Items []model.Player
	Total int64
}

func NewService(db *gorm.DB, searchLimit int) *Service {
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	return &Service{db: db, searchLimit: searchLimit}
}

func (f *ListFilter) sanitize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Size <= 0 {
		f.Size = defaultPageSize
	}
	if f.Size > maxPageSize {
		f.Size = maxPageSize
	}
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.Keyword = strings.TrimSpace(f.Keyword)
	f.CountryCode = strings.ToUpper(strings.TrimSpace(f.CountryCode))
}

func applyFilters(db *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.Status != "" {
		db = db.Where("LOWER(status) = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + strings.ToLower(filter.Keyword) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(nickname) LIKE ? OR LOWER(league_code) LIKE ?", like, like, like)
	}
	if filter.CountryCode != "" {
		db = db.Where("country_code = ?", filter.CountryCode)
	}
	return db
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.sanitize()

	var total int64
	if err := applyFilters(s.db.WithContext(ctx).Model(&model.Player{}), filter).
		Count(&total).Error; err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: make([]model.Player, 0),
		Total: total,
	}
	if total == 0 {
		return result, nil
	}

	if err := applyFilters(s.db.WithContext(ctx).Model(&model.Player{}), filter).
		Order("id DESC").
		Limit(filter.Size).
		Offset((filter.Page - 1) * filter.Size).
		Find(&result.Items).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Search backs the seat autocomplete of the result form: active players
// whose name, nickname or league code contains the query, prefix matches
// first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]model.Player, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	players := make([]model.Player, 0)
	if query == "" {
		return players, nil
	}
	if limit <= 0 || limit > s.searchLimit {
		limit = s.searchLimit
	}

	like := "%" + query + "%"
	prefix := query + "%"
	err := s.db.WithContext(ctx).
		Model(&model.Player{}).
		Where("status = ?", "active").
		Where("LOWER(name) LIKE ? OR LOWER(nickname) LIKE ? OR LOWER(league_code) LIKE ?", like, like, like).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN LOWER(name) LIKE ? OR LOWER(nickname) LIKE ? THEN 0 ELSE 1 END, name ASC",
			Vars:               []interface{}{prefix, prefix},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Player, error) {
	var player model.Player
	if err := s.db.WithContext(ctx).First(&player, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (s *Service) Create(ctx context.Context, params MutationParams) (*model.Player, error) {
	params, err := normalize(params)
	if err != nil {
		return nil, err
	}

	player := model.Player{
		Name:        params.Name,
		Nickname:    params.Nickname,
		CountryCode: params.CountryCode,
		LeagueCode:  params.LeagueCode,
		Status:      params.Status,
	}
	if err := s.db.WithContext(ctx).Create(&player).Error; err != nil {
		return nil, err
	}
	logger.Log.Info("player created",
		zap.Int64("playerID", player.ID),
		zap.String("name", player.Name))
	return &player, nil
}

func (s *Service) Update(ctx context.Context, id int64, params MutationParams) (*model.Player, error) {
	params, err := normalize(params)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&model.Player{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":         params.Name,
			"nickname":     params.Nickname,
			"country_code": params.CountryCode,
			"league_code":  params.LeagueCode,
			"status":       params.Status,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, appErr.ErrPlayerNotFound
	}
	return s.Get(ctx, id)
}

// Missing returns the ids that have no player row.
func (s *Service) Missing(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := s.db.WithContext(ctx).
		Model(&model.Player{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	known := make(map[int64]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func normalize(params MutationParams) (MutationParams, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Nickname = strings.TrimSpace(params.Nickname)
	params.LeagueCode = strings.TrimSpace(params.LeagueCode)
	params.CountryCode = strings.ToUpper(strings.TrimSpace(params.CountryCode))
	params.Status = strings.ToLower(strings.TrimSpace(params.Status))

	if params.Name == "" {
		return params, fmt.Errorf("%w: name is required", appErr.ErrInvalidPlayer)
	}
	if params.CountryCode != "" && len(params.CountryCode) != 2 {
		return params, fmt.Errorf("%w: countryCode must be a 2-letter code", appErr.ErrInvalidPlayer)
	}
	if params.Status == "" {
		params.Status = "active"
	}
	if params.Status != "active" && params.Status != "inactive" {
		return params, fmt.Errorf("%w: status must be active or inactive", appErr.ErrInvalidPlayer)
	}
	return params, nil
}
